package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/courtside/internal/app/recorder"
	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/timeutil"
)

func newGameCommand(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "game",
		Aliases: []string{"games"},
		Short:   "Manage games",
	}

	var (
		date     string
		roster   []string
		starters []string
	)
	create := &cobra.Command{
		Use:   "new <opponent>",
		Short: "Create a game with its roster and starting five",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if date == "" {
				date = timeutil.GameDate(a.opts.Clock.Now())
			} else if _, err := timeutil.ParseGameDate(date); err != nil {
				return usagef("invalid --date %q (expected YYYY-MM-DD)", date)
			}

			rosterIDs, err := a.resolvePlayers(roster)
			if err != nil {
				return err
			}
			if len(roster) == 0 {
				for _, p := range a.players.List() {
					rosterIDs = append(rosterIDs, p.ID)
				}
			}
			starterIDs, err := a.resolvePlayers(starters)
			if err != nil {
				return err
			}
			if len(starterIDs) > recorder.MaxLineup {
				return usagef("at most %d starters", recorder.MaxLineup)
			}
			for _, id := range starterIDs {
				if !slices.Contains(rosterIDs, id) {
					return usagef("starter %s is not on the roster", a.playerLabel(id))
				}
			}

			opponent := strings.Join(args, " ")
			g, err := a.games.CreateGame(opponent, date)
			if err != nil {
				return err
			}
			if err := a.games.SetGamePlayers(g.ID, rosterIDs, starterIDs); err != nil {
				return err
			}
			cmd.Printf("created game vs %s on %s (%s), %d players, %d starters\n",
				g.OpponentName, g.GameDate, g.ID, len(rosterIDs), len(starterIDs))
			return nil
		},
	}
	create.Flags().StringVar(&date, "date", "", "game date YYYY-MM-DD (default today)")
	create.Flags().StringSliceVar(&roster, "roster", nil, "players in the game, by id or #number (default every player)")
	create.Flags().StringSliceVar(&starters, "starters", nil, "players active in Q1, by id or #number")

	list := &cobra.Command{
		Use:   "list",
		Short: "List games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			all := a.games.Games()
			if len(all) == 0 {
				cmd.Println("no games yet")
				return nil
			}
			slices.SortStableFunc(all, func(x, y games.Game) int { return cmp.Compare(y.CreatedAt, x.CreatedAt) })
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tOPPONENT\tSCORE\tID")
			for _, g := range all {
				fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%s\n", g.GameDate, g.OpponentName, a.games.TeamScore(g.ID), g.OpponentScore, g.ID)
			}
			return tw.Flush()
		},
	}

	rm := &cobra.Command{
		Use:     "rm <game>",
		Aliases: []string{"remove"},
		Short:   "Delete a game with its roster and logs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			g, err := a.resolveGame(args[0])
			if err != nil {
				return err
			}
			if err := a.games.DeleteGame(g.ID); err != nil {
				return err
			}
			cmd.Printf("deleted game vs %s on %s\n", g.OpponentName, g.GameDate)
			return nil
		},
	}

	var (
		delta int
		set   int
	)
	score := &cobra.Command{
		Use:   "score <game>",
		Short: "Adjust the opponent score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			g, err := a.resolveGame(args[0])
			if err != nil {
				return err
			}
			switch {
			case cmd.Flags().Changed("set"):
				g, err = a.games.SetOpponentScore(g.ID, set)
			case cmd.Flags().Changed("delta"):
				g, err = a.games.UpdateOpponentScore(g.ID, delta)
			}
			if err != nil {
				return err
			}
			cmd.Printf("us %d - %d %s\n", a.games.TeamScore(g.ID), g.OpponentScore, g.OpponentName)
			return nil
		},
	}
	score.Flags().IntVar(&delta, "delta", 0, "points to add to the opponent score (negative to subtract)")
	score.Flags().IntVar(&set, "set", 0, "overwrite the opponent score")
	score.MarkFlagsMutuallyExclusive("delta", "set")

	cmd.AddCommand(create, list, rm, score)
	return cmd
}
