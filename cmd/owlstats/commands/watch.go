package commands

import (
	"log/slog"
	"time"

	"brotherowl-backend/lib/serviceutil"
	"brotherowl-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "How often to refresh, defaults to the configured interval.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <player_id>... [--interval <duration>]",
	Short: "Refreshes the stored stats of players from TornStats until interrupted.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := serviceutil.SignalContext(cmd.Context())
		defer cancel()

		interval := watchInterval
		if interval <= 0 {
			interval = state.config.watchInterval()
		}
		telemetry.InstrumentPerfStats(ctx, time.Minute)

		refresh := func() {
			for _, res := range state.service.Refresh(ctx, args) {
				if res.Err != nil {
					slog.WarnContext(ctx, "refresh failed", "player_id", res.PlayerID, "err", res.Err)
					continue
				}
				slog.InfoContext(
					ctx, "refreshed player",
					"player_id", res.PlayerID,
					"total", res.Report.Total(),
					"source", res.Report.Record.Source,
				)
			}
		}

		slog.Info("watching players", "count", len(args), "interval", interval)
		refresh()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				refresh()
			case <-ctx.Done():
				slog.Info("stopped watching")
				return
			}
		}
	},
}
