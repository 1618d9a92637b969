package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rally-metrics/models"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a player by hand",
	Long: `Insert one player into player_statistic. Fails when the name is already stored.

Example:
  rally-metrics add "Jim Smith" --rank 1 --team "SoCal Hard Eights" --games-won 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := models.PlayerStatistic{Name: args[0]}
		if err := applyPlayerFlags(cmd.Flags(), &p); err != nil {
			return err
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Add(cmd.Context(), p); err != nil {
			return err
		}
		logger.Info("Added %s | Team: %s | Rank: %d", p.Name, p.Team, p.Rank)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Edit a stored player",
	Long: `Change the given fields of an existing player. Fields whose flag is not
set keep their stored value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := applyPlayerFlags(cmd.Flags(), p); err != nil {
			return err
		}
		if err := store.Update(cmd.Context(), *p); err != nil {
			return err
		}
		logger.Info("Updated %s | Team: %s | Rank: %d", p.Name, p.Team, p.Rank)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		f := c.Flags()
		f.Int("rank", 0, "standings rank (positive)")
		f.String("team", "", "team name")
		f.Int("games-won", 0, "games won")
		f.Int("games-lost", 0, "games lost")
		f.Float64("games-won-pct", 0, "games won percent")
		f.Int("pts-won", 0, "points won")
		f.Int("pts-lost", 0, "points lost")
		f.Float64("pts-won-pct", 0, "points won percent")
	}
	_ = addCmd.MarkFlagRequired("rank")
}

// applyPlayerFlags copies every flag the user set onto p.
func applyPlayerFlags(flags *pflag.FlagSet, p *models.PlayerStatistic) error {
	ints := map[string]*int{
		"rank":       &p.Rank,
		"games-won":  &p.GamesWon,
		"games-lost": &p.GamesLost,
		"pts-won":    &p.PtsWon,
		"pts-lost":   &p.PtsLost,
	}
	for name, dst := range ints {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	floats := map[string]*float64{
		"games-won-pct": &p.GamesWonPercent,
		"pts-won-pct":   &p.PtsWonPercent,
	}
	for name, dst := range floats {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetFloat64(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("team") {
		team, err := flags.GetString("team")
		if err != nil {
			return err
		}
		p.Team = team
	}

	if p.Rank <= 0 {
		return fmt.Errorf("rank must be a positive integer, got %d", p.Rank)
	}
	return nil
}
