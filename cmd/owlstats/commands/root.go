package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"brotherowl-backend/lib/restyutil"
	"brotherowl-backend/lib/scrapers/tornstats"
	"brotherowl-backend/lib/spystore"
	"brotherowl-backend/lib/telemetry"
	"brotherowl-backend/services/enemystats"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dumpHttp   string
	debug      bool
)

// state is built once per invocation by the root command.
var state struct {
	config    Config
	client    *tornstats.Client
	store     spystore.Store
	service   enemystats.Service
	telemetry telemetry.Telemetry
}

var rootCmd = &cobra.Command{
	Use:   "owlstats",
	Short: "owlstats looks up, estimates and records battle stats of Torn players.",

	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown(cmd.Context())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "owlstats.json5", "The config file to read.")
	flags.StringVar(&dumpHttp, "dump-http", "", "Write every TornStats request and response to this directory.")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging.")
}

func setup(cmd *cobra.Command, args []string) error {
	telemetry.InitSlog(debug)

	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	state.config = config

	tel, err := telemetry.SetupFromEnv(cmd.Context(), "owlstats")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry config, not exporting")
	} else if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
	}
	state.telemetry = tel

	opts := config.clientOptions()
	if dumpHttp != "" {
		out, err := restyutil.NewFilesystemOutput(dumpHttp)
		if err != nil {
			return fmt.Errorf("prepare http dump dir: %w", err)
		}
		opts.DumpOutput = out
	}
	state.client, err = tornstats.NewClient(opts)
	if err != nil {
		return fmt.Errorf("create tornstats client: %w", err)
	}

	state.store, err = spystore.Open(config.SpyStore)
	if err != nil {
		return fmt.Errorf("open spy store: %w", err)
	}
	state.service = enemystats.NewService(state.store, state.client, enemystats.Options{
		Concurrency: config.Concurrency,
	})
	return nil
}

func teardown(ctx context.Context) {
	if state.client != nil {
		state.client.Close()
	}
	if state.store != nil {
		err := state.store.Close()
		if err != nil {
			slog.Warn("failed to close spy store", "err", err)
		}
	}
	err := state.telemetry.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
