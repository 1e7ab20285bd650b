package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sycobuny/errtracker/internal/app"
	"github.com/sycobuny/errtracker/internal/output"
	"github.com/sycobuny/errtracker/pkg/tracker"
)

// NewSendCmd creates the send command, which saves the given messages as
// tracked errors and ships them to the collector endpoint.
func NewSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <message> [message...]",
		Short: "Track one or more error messages and send them to the collector",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, _ := cmd.Flags().GetString("endpoint")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			trk, err := newClientTracker(endpoint)
			if err != nil {
				return cmdErr(err)
			}

			for _, msg := range args {
				trk.SaveError(errors.New(msg))
			}

			done := make(chan tracker.Response, 1)
			trk.SendErrors(func(resp tracker.Response) { done <- resp })

			select {
			case resp := <-done:
				if resp.Status != tracker.StatusSuccess {
					return cmdErr(fmt.Errorf("send failed: %s", resp.Reason))
				}
				type result struct {
					Sent int            `json:"sent"`
					Body map[string]any `json:"body,omitempty"`
				}
				return output.PrintSuccess(result{Sent: len(args), Body: resp.Body})
			case <-time.After(timeout):
				return cmdErr(fmt.Errorf("send timed out after %s", timeout))
			}
		},
	}

	cmd.Flags().String("endpoint", "", "Collector endpoint URL (default from config)")
	cmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for the collector response")

	return cmd
}

// newClientTracker builds a tracker from the config file, with the endpoint
// flag taking precedence.
func newClientTracker(endpoint string) (*tracker.Tracker, error) {
	settings, err := app.LoadSettings()
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = settings.Endpoint
	}
	if endpoint == "" {
		return nil, tracker.ErrNoEndpoint
	}

	trk := tracker.New(
		tracker.WithEndpoint(endpoint),
		tracker.WithNotifier(tracker.NopNotifier{}),
	)
	trk.SetConfigValue(tracker.KeyAutoSendErrors, settings.AutoSendErrors)
	trk.SetConfigValue(tracker.KeyAutoDisplayWindow, settings.AutoDisplayWindow)
	if settings.WindowTitle != "" {
		trk.SetConfigValue(tracker.KeyWindowTitle, settings.WindowTitle)
	}
	return trk, nil
}
