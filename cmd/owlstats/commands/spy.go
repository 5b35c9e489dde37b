package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"brotherowl-backend/lib/estimate"
	"brotherowl-backend/lib/spystore"
	"brotherowl-backend/lib/timezone"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	spyCmd.AddCommand(spyAddCmd, spyGetCmd, spyListCmd, spyDelCmd)
	rootCmd.AddCommand(spyCmd)
}

var spyCmd = &cobra.Command{
	Use:   "spy",
	Short: "Manages stored spy records.",
}

var spyAddCmd = &cobra.Command{
	Use:   "add <player_id> <str> <spd> <dex> <def>",
	Short: "Stores stats you spied on a player.",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := make([]int64, 4)
		for i, raw := range args[1:] {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("all stat values must be valid numbers, got %q", raw)
			}
			stats[i] = n
		}

		report, err := state.service.AddSpy(cmd.Context(), args[0], stats[0], stats[1], stats[2], stats[3])
		if err != nil {
			return err
		}
		fmt.Println(report.Format())
		return nil
	},
}

var spyGetCmd = &cobra.Command{
	Use:   "get <player_id>",
	Short: "Prints the stored spy of a player.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := state.store.Get(cmd.Context(), args[0])
		if errors.Is(err, spystore.ErrNotFound) {
			fmt.Printf("No spy data stored for player %s.\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		renderRecords([]spystore.Record{record})
		return nil
	},
}

var spyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every stored spy.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := state.store.List(cmd.Context())
		if err != nil {
			return err
		}
		renderRecords(records)
		return nil
	},
}

var spyDelCmd = &cobra.Command{
	Use:   "del <player_id>...",
	Short: "Deletes stored spies.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			err := state.store.Delete(cmd.Context(), id)
			if errors.Is(err, spystore.ErrNotFound) {
				fmt.Printf("No spy data stored for player %s.\n", id)
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func renderRecords(records []spystore.Record) {
	now := timezone.Now()

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Strength", "Speed", "Dexterity", "Defense", "Total", "Source", "Spied at", "Confidence"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.PlayerID,
			humanize.Comma(r.Strength),
			humanize.Comma(r.Speed),
			humanize.Comma(r.Dexterity),
			humanize.Comma(r.Defense),
			humanize.Comma(r.Total),
			r.Source,
			r.Timestamp.Format(time.DateTime),
			string(estimate.ConfidenceAt(now, r.Timestamp)),
		})
	}
	t.Render()
}
