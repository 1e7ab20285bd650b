package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sycobuny/errtracker/internal/app"
	"github.com/sycobuny/errtracker/internal/collector"
	"github.com/sycobuny/errtracker/pkg/tracker"
)

// NewCollectCmd creates the collect command, which runs the report collector
// HTTP service.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run the error report collector service",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			if listen == "" {
				listen = app.EffectiveListenAddr()
			}

			return withStore(func(store *collector.Store) error {
				return runCollector(cmd.Context(), store, listen)
			})
		},
	}

	cmd.Flags().String("listen", "", "Listen address (default from config, else "+app.DefaultListenAddr+")")

	return cmd
}

// collectorTracker builds the tracker that captures the collector's own
// serving faults: each one is logged as it is saved and then dropped, since
// there is no upstream endpoint to ship reports to. Logging works from the
// saved fault itself so overlapping saves each log exactly once.
func collectorTracker(log *slog.Logger) *tracker.Tracker {
	trk := tracker.New(
		tracker.WithNotifier(tracker.NopNotifier{}),
		tracker.WithLogger(log),
	)
	trk.AttachAfter(tracker.ByName(tracker.OpSaveError), func(hc *tracker.HookContext) error {
		if len(hc.Args) > 0 {
			switch f := hc.Args[0].(type) {
			case error:
				log.Error("serving fault", "error", f.Error())
			default:
				log.Error("serving fault", "fault", fmt.Sprintf("%v", f))
			}
		}
		trk.ClearErrors()
		return nil
	})
	return trk
}

func runCollector(ctx context.Context, store *collector.Store, listen string) error {
	trk := collectorTracker(slog.Default())

	srv := &http.Server{
		Addr:              listen,
		Handler:           trk.GuardHandler(collector.NewServer(store, slog.Default()).Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("collector listening", "addr", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
