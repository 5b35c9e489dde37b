package commands

import (
	"errors"
	"fmt"

	"brotherowl-backend/lib/estimate"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	estimateDamage    float64
	estimateTurns     float64
	estimateMyPrimary float64
	estimateAccuracy  string
)

func init() {
	flags := estimateCmd.Flags()
	flags.Float64Var(&estimateDamage, "damage", 0, "Damage you dealt.")
	flags.Float64Var(&estimateTurns, "turns", 0, "Turns the fight took.")
	flags.Float64Var(&estimateMyPrimary, "my-primary", 0, "Your own primary stat.")
	flags.StringVar(&estimateAccuracy, "accuracy", string(estimate.AccuracyLow), "Multiplier tier for the total: high, medium or low.")
	estimateCmd.MarkFlagRequired("damage")
	estimateCmd.MarkFlagRequired("turns")
	estimateCmd.MarkFlagRequired("my-primary")
	rootCmd.AddCommand(estimateCmd)
}

var estimateCmd = &cobra.Command{
	Use:   "estimate --damage <n> --turns <n> --my-primary <n> [--accuracy <tier>]",
	Short: "Estimates an opponent's primary and total stats from a fight.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		primary, ok := estimate.EstimatePrimaryStat(estimateDamage, estimateTurns, estimateMyPrimary)
		if !ok {
			return errors.New("damage and turns must both be positive")
		}
		total := estimate.EstimateTotalStats(primary, estimate.Accuracy(estimateAccuracy))

		fmt.Printf("Estimated primary: %s\n", humanize.Comma(int64(primary)))
		fmt.Printf("Estimated total:   %s\n", humanize.Comma(total))
		return nil
	},
}
