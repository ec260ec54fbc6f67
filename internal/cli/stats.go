package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/stats"
)

func newStatsCommand(get func() *app) *cobra.Command {
	var (
		quarter int
		player  string
		zones   bool
		csvPath string
	)
	cmd := &cobra.Command{
		Use:   "stats <game>",
		Short: "Show the box score of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			g, err := a.resolveGame(args[0])
			if err != nil {
				return err
			}

			var filter stats.Filter
			if quarter != 0 {
				q := games.Quarter(quarter)
				if !q.Valid() {
					return usagef("--quarter must be between 1 and %d", games.QuarterCount)
				}
				filter.Quarter = q
			}
			if player != "" {
				p, err := a.resolvePlayer(player)
				if err != nil {
					return err
				}
				filter.PlayerID = p.ID
			}

			gameLogs := a.games.GameLogs(g.ID)
			lines := stats.PlayerStats(gameLogs, a.gameRoster(g.ID), filter)

			if csvPath != "" {
				path, err := writeStatsCSV(csvPath, g, lines)
				if err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", path)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s vs %s: us %d - %d them\n", g.GameDate, g.OpponentName, stats.TeamScore(gameLogs), g.OpponentScore)
			if err := printBoxScore(out, lines); err != nil {
				return err
			}
			if zones {
				return printZones(out, stats.ZoneStats(gameLogs, filter), stats.ZoneReboundStats(gameLogs, filter))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&quarter, "quarter", 0, "only count one quarter (5 is OT)")
	cmd.Flags().StringVar(&player, "player", "", "only count one player, by id or #number")
	cmd.Flags().BoolVar(&zones, "zones", false, "add per-zone shooting and rebounding")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the box score as CSV to a file or directory")
	return cmd
}

// gameRoster returns the players on the game roster ordered by number.
// Players removed since the game are skipped.
func (a *app) gameRoster(gameID string) []players.Player {
	ids := a.games.GamePlayerIDs(gameID)
	roster := make([]players.Player, 0, len(ids))
	for _, p := range a.players.List() {
		for _, id := range ids {
			if p.ID == id {
				roster = append(roster, p)
				break
			}
		}
	}
	return roster
}

func writeStatsCSV(target string, g games.Game, lines []stats.PlayerLine) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, stats.ExportFileName(g))
	}
	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if err := stats.WriteCSV(f, lines); err != nil {
		_ = f.Close()
		return "", err
	}
	return target, f.Close()
}

func printBoxScore(w io.Writer, lines []stats.PlayerLine) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tNAME\tPTS\tFG\tFG%\tFT\tFT%\tORB\tDRB\tREB\tAST\tPF\t")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d/%d\t%.1f\t%d/%d\t%.1f\t%d\t%d\t%d\t%d\t%d\t\n",
			l.PlayerNumber, l.PlayerName, l.Points,
			l.ShotMade, l.ShotMade+l.ShotMiss, l.FGPercent,
			l.FTMade, l.FTMade+l.FTMiss, l.FTPercent,
			l.OffReb, l.DefReb, l.Rebounds(), l.Assists, l.Fouls)
	}
	return tw.Flush()
}

func printZones(w io.Writer, shots [stats.ZoneCount]stats.ZoneLine, rebounds [stats.ZoneCount]stats.ZoneReboundLine) error {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ZONE\tFG\tFG%\tORB\tDRB\tREB\t")
	for i := range shots {
		s, r := shots[i], rebounds[i]
		fmt.Fprintf(tw, "%d\t%d/%d\t%.1f\t%d\t%d\t%d\t\n", s.ZoneID, s.Made, s.Attempts, s.FGPercent, r.Off, r.Def, r.Total)
	}
	return tw.Flush()
}
