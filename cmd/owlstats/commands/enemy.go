package commands

import (
	"errors"
	"fmt"

	"brotherowl-backend/services/enemystats"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	enemyDamage    float64
	enemyTurns     float64
	enemyMyPrimary float64
	enemyMyTotal   float64
)

func init() {
	flags := enemyCmd.Flags()
	flags.Float64Var(&enemyDamage, "damage", 0, "Damage you dealt to the player.")
	flags.Float64Var(&enemyTurns, "turns", 0, "Turns the fight took.")
	flags.Float64Var(&enemyMyPrimary, "my-primary", 0, "Your own primary stat.")
	flags.Float64Var(&enemyMyTotal, "my-total", 0, "Your total stats, to get a recommendation.")
	rootCmd.AddCommand(enemyCmd)
}

func estimateInput() *enemystats.EstimateInput {
	if enemyDamage <= 0 || enemyTurns <= 0 || enemyMyPrimary <= 0 {
		return nil
	}
	return &enemystats.EstimateInput{
		Damage:    enemyDamage,
		Turns:     enemyTurns,
		MyPrimary: enemyMyPrimary,
	}
}

var enemyCmd = &cobra.Command{
	Use:   "enemy <player_id>... [--damage <n> --turns <n> --my-primary <n>] [--my-total <n>]",
	Short: "Reports what is known about enemies: stored spies, then TornStats, then an estimate.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := estimateInput()

		if len(args) == 1 {
			report, err := state.service.Lookup(cmd.Context(), args[0], input)
			if errors.Is(err, enemystats.ErrNoData) {
				fmt.Println(enemystats.NoDataMessage(args[0]))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(report.Format())
			if enemyMyTotal > 0 {
				fmt.Printf("Recommendation: %s\n", report.Recommend(enemyMyTotal))
			}
			return nil
		}

		results := state.service.LookupMany(cmd.Context(), args, input)
		t := newTable()
		header := table.Row{"ID", "Kind", "Total", "Confidence"}
		if enemyMyTotal > 0 {
			header = append(header, "Recommendation")
		}
		t.AppendHeader(header)
		for _, res := range results {
			if res.Err != nil {
				row := table.Row{res.PlayerID, "-", "-", res.Err.Error()}
				if enemyMyTotal > 0 {
					row = append(row, "")
				}
				t.AppendRow(row)
				continue
			}
			row := table.Row{
				res.PlayerID,
				res.Report.Kind.String(),
				humanize.Comma(res.Report.Total()),
				string(res.Report.Confidence),
			}
			if enemyMyTotal > 0 {
				row = append(row, res.Report.Recommend(enemyMyTotal).String())
			}
			t.AppendRow(row)
		}
		t.Render()
		return nil
	},
}
