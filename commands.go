package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"torn_item_value/internal/app"
	"torn_item_value/internal/config"
	"torn_item_value/internal/controller"
	"torn_item_value/internal/export"
	"torn_item_value/internal/feed"
	"torn_item_value/internal/items"
	"torn_item_value/internal/notifications"
	"torn_item_value/internal/torn"
	"torn_item_value/internal/view"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	formatOverride string
	sortFlag       string
	ascendingFlag  bool
)

// Execute builds the command tree and runs it.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "torn-item-value",
		Short:         "List, sort and export the value of your Torn items",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.SetupEnvironment()
			if formatOverride == "" {
				return nil
			}
			_, err := export.ParseFormat(formatOverride)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&formatOverride, "format", "", "export format override (csv or json)")

	root.AddCommand(runCmd(), listCmd(), exportCmd())
	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Refresh on a timer and accept sort/export commands on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context())
		},
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current items once",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := items.ParseSortKey(sortFlag)
			if err != nil {
				return err
			}
			deps := wire(cmd.Context())
			defer deps.notifier.Wait()

			ctrl := controller.New(deps.sink, deps.settings,
				controller.WithSortState(items.SortState{Key: key, Ascending: ascendingFlag}))
			if err := refreshInto(cmd.Context(), deps, ctrl); err != nil {
				return err
			}
			fmt.Println(view.Render(ctrl.Rows(), ctrl.SortState()))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", "value", "sort column (name, quantity or value)")
	cmd.Flags().BoolVar(&ascendingFlag, "asc", false, "sort ascending")
	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Refresh once and export the items to the configured sink",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := wire(cmd.Context())
			defer deps.notifier.Wait()

			ctrl := controller.New(deps.sink, deps.settings,
				controller.WithExportHook(deps.notifier.NotifyExport))
			if err := refreshInto(cmd.Context(), deps, ctrl); err != nil {
				return err
			}
			receipt, ok, err := ctrl.OnExportRequested(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("nothing to export")
			}
			fmt.Printf("Exported %s to %s (%s, %d bytes)\n",
				view.Summary(receipt.Items, receipt.TotalValue), receipt.Sink, receipt.Format, receipt.Bytes)
			return nil
		},
	}
}

func runInteractive(ctx context.Context) error {
	deps := wire(ctx)
	defer func() {
		deps.notifier.Wait()
		if deps.notifier.Enabled() {
			sent, failed := deps.notifier.GetMetrics()
			log.Info().Int64("sent", sent).Int64("failed", failed).Msg("Notification summary")
		}
	}()

	if name, err := deps.torn.WhoAmI(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to look up key owner")
	} else {
		log.Info().Str("player", name).Msg("Authenticated with Torn")
	}

	ctrl := controller.New(deps.sink, deps.settings,
		controller.WithExportHook(deps.notifier.NotifyExport))
	s := &session{
		ctrl:    ctrl,
		refresh: func(ctx context.Context) ([]items.ItemRecord, error) { return fetch(ctx, deps) },
		out:     os.Stdout,
	}

	interval := app.GetDurationEnv("REFRESH_INTERVAL", time.Minute)
	log.Info().Dur("interval", interval).Msg("Starting Torn item value monitor. Running immediately and then on every tick...")

	return s.run(ctx, readLines(os.Stdin), interval)
}

type dependencies struct {
	torn     *torn.Client
	sources  []feed.Source
	sink     controller.Sink
	notifier *notifications.Client
	settings func() config.Settings
}

func wire(ctx context.Context) dependencies {
	log.Debug().Msg("Initializing clients")
	settings := withFormatOverride(app.SettingsLoader(), formatOverride)
	deps := dependencies{
		torn:     app.InitializeTornClient(),
		sources:  app.InitializeSources(),
		sink:     app.InitializeSink(ctx),
		notifier: app.InitializeNotificationClient(),
		settings: settings,
	}
	log.Debug().Str("sink", deps.sink.Name()).Msg("Clients initialized successfully")
	return deps
}

// withFormatOverride replaces the configured data format when format is set.
func withFormatOverride(settings func() config.Settings, format string) func() config.Settings {
	if format == "" {
		return settings
	}
	return func() config.Settings {
		s := settings()
		s.DataFormat = format
		return s
	}
}

func fetch(ctx context.Context, deps dependencies) ([]items.ItemRecord, error) {
	deps.torn.ResetAPICallCount()
	records, err := feed.Refresh(ctx, deps.torn, deps.sources, config.DefaultResilienceConfig.FeedRequest)
	log.Debug().
		Int64("api_calls", deps.torn.GetAPICallCount()).
		Msg("API call summary for refresh")
	return records, err
}

func refreshInto(ctx context.Context, deps dependencies, ctrl *controller.Controller) error {
	records, err := fetch(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to refresh items: %w", err)
	}
	ctrl.OnSnapshot(records)
	return nil
}
