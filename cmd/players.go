package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"rally-metrics/models"
)

var (
	playersTeam   string
	playersSearch string
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List stored players",
	Long: `List players from player_statistic ordered by rank.

  --team NAME     only players of that team (case-insensitive)
  --search TEXT   players whose name or team contains TEXT`,
	Args: cobra.NoArgs,
	RunE: runPlayers,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a player by exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		logger.Info("Deleted %s", args[0])
		return nil
	},
}

func init() {
	playersCmd.Flags().StringVar(&playersTeam, "team", "", "filter by team name")
	playersCmd.Flags().StringVar(&playersSearch, "search", "", "search name or team")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	var players []*models.PlayerStatistic
	switch {
	case playersTeam != "":
		players, err = store.ListByTeam(cmd.Context(), playersTeam)
	case playersSearch != "":
		players, err = store.Search(cmd.Context(), playersSearch)
	default:
		players, err = store.List(cmd.Context())
	}
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players found. Run 'rally-metrics sync' to load the standings.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("RANK", "NAME", "TEAM", "GW", "GL", "GW%", "PW", "PL", "PW%")
	for _, p := range players {
		table.Append(
			p.Rank, p.Name, p.Team,
			p.GamesWon, p.GamesLost, fmt.Sprintf("%.1f", p.GamesWonPercent),
			p.PtsWon, p.PtsLost, fmt.Sprintf("%.1f", p.PtsWonPercent),
		)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d players)\n", len(players))
	return nil
}
