package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sycobuny/errtracker/internal/output"
	"github.com/sycobuny/errtracker/pkg/tracker"
)

// NewDemoCmd creates the demo command, which exercises the tracking runtime
// against deliberately failing work and prints what was captured.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Capture some sample faults and print the tracked records",
		RunE: func(cmd *cobra.Command, args []string) error {
			trk := tracker.New(tracker.WithNotifier(&tracker.LogNotifier{}))

			// A panic in guarded work becomes a tracked record.
			trk.Guard(func() {
				panic("demo: simulated panic")
			})

			// A plain error and a host-style error event, tracked directly.
			trk.ReceiveError(errors.New("demo: simulated failure"))
			trk.ReceiveError(&tracker.ErrorEvent{
				Message:  "demo: simulated event",
				Filename: "demo.go",
				Line:     1,
			})

			type result struct {
				Tracked int               `json:"tracked"`
				Errors  []*tracker.Record `json:"errors"`
			}
			return output.PrintSuccess(result{
				Tracked: len(trk.Errors()),
				Errors:  trk.Errors(),
			})
		},
	}

	return cmd
}
