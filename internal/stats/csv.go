package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/preston-bernstein/courtside/internal/domain/games"
)

const utf8BOM = "\ufeff"

var csvHeader = []string{
	"number", "name", "points",
	"fg_made", "fg_miss", "fg_pct",
	"ft_made", "ft_miss", "ft_pct",
	"orb", "drb", "reb", "ast", "fouls",
}

// WriteCSV writes the box score with a UTF-8 BOM so spreadsheet apps detect the encoding.
func WriteCSV(w io.Writer, lines []PlayerLine) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range lines {
		row := []string{
			strconv.Itoa(l.PlayerNumber),
			l.PlayerName,
			strconv.Itoa(l.Points),
			strconv.Itoa(l.ShotMade),
			strconv.Itoa(l.ShotMiss),
			formatPercent(l.FGPercent),
			strconv.Itoa(l.FTMade),
			strconv.Itoa(l.FTMiss),
			formatPercent(l.FTPercent),
			strconv.Itoa(l.OffReb),
			strconv.Itoa(l.DefReb),
			strconv.Itoa(l.Rebounds()),
			strconv.Itoa(l.Assists),
			strconv.Itoa(l.Fouls),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName names the CSV export of a game: {date}_vs_{opponent}_stats.csv.
func ExportFileName(g games.Game) string {
	opponent := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, g.OpponentName)
	return fmt.Sprintf("%s_vs_%s_stats.csv", g.GameDate, opponent)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
