package commands

import (
	"fmt"
	"os"

	"brotherowl-backend/lib/scrapers/tornstats"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var playerJson bool

func init() {
	playerCmd.Flags().BoolVar(&playerJson, "json", false, "Print the records as JSON instead of a table.")
	rootCmd.AddCommand(playerCmd)
}

var playerCmd = &cobra.Command{
	Use:   "player <player_id>...",
	Short: "Fetches the stats of players from TornStats.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		found := map[string]tornstats.PlayerData{}
		var missing []string
		for _, id := range args {
			record, ok := state.client.GetPlayerData(cmd.Context(), id)
			if !ok {
				missing = append(missing, id)
				continue
			}
			found[id] = tornstats.PlayerData{Spy: record}
		}

		if playerJson {
			out, err := sonic.ConfigStd.MarshalIndent(found, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		} else {
			t := newTable()
			t.AppendHeader(table.Row{"ID", "Name", "Level", "Strength", "Defense", "Speed", "Dexterity", "Total", "Source", "Updated"})
			for _, id := range args {
				data, ok := found[id]
				if !ok {
					continue
				}
				r := data.Spy
				t.AppendRow(table.Row{
					id, r.Name, r.Level,
					humanize.Commaf(r.Strength),
					humanize.Commaf(r.Defense),
					humanize.Commaf(r.Speed),
					humanize.Commaf(r.Dexterity),
					humanize.Commaf(r.Total()),
					r.Source, r.UpdateTime,
				})
			}
			t.Render()
		}

		for _, id := range missing {
			fmt.Fprintf(os.Stderr, "no data found for player %s\n", id)
		}
		return nil
	},
}
