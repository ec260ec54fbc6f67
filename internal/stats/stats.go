// Package stats derives box-score aggregates from event logs. Every function
// is pure and recomputes from the logs it is given.
package stats

import (
	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

// ZoneCount is the number of court zones.
const ZoneCount = logs.MaxZone

// Filter narrows the logs every calculator looks at.
// A zero Quarter means every quarter; an empty PlayerID means every player.
type Filter struct {
	Quarter  games.Quarter
	PlayerID string
}

// Apply returns the logs that pass the filter.
func (f Filter) Apply(in []logs.Log) []logs.Log {
	if f.Quarter == 0 && f.PlayerID == "" {
		return in
	}
	out := make([]logs.Log, 0, len(in))
	for _, l := range in {
		if f.Quarter != 0 && l.Quarter != f.Quarter {
			continue
		}
		if f.PlayerID != "" && l.PlayerID != f.PlayerID {
			continue
		}
		out = append(out, l)
	}
	return out
}

// PlayerLine is one player's box score.
type PlayerLine struct {
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	PlayerNumber int     `json:"playerNumber"`
	ShotMade     int     `json:"shotMade"`
	ShotMiss     int     `json:"shotMiss"`
	FTMade       int     `json:"ftMade"`
	FTMiss       int     `json:"ftMiss"`
	OffReb       int     `json:"offReb"`
	DefReb       int     `json:"defReb"`
	Fouls        int     `json:"fouls"`
	Assists      int     `json:"assists"`
	Points       int     `json:"points"`
	FGPercent    float64 `json:"fgPercent"`
	FTPercent    float64 `json:"ftPercent"`
}

// Rebounds is offensive plus defensive rebounds.
func (p PlayerLine) Rebounds() int {
	return p.OffReb + p.DefReb
}

// PlayerStats builds one line per roster player, in roster order.
// Assists are credited to the passer.
func PlayerStats(in []logs.Log, roster []players.Player, f Filter) []PlayerLine {
	filtered := f.Apply(in)
	lines := make([]PlayerLine, 0, len(roster))
	for _, p := range roster {
		line := PlayerLine{PlayerID: p.ID, PlayerName: p.Name, PlayerNumber: p.Number}
		for _, l := range filtered {
			if l.Action == logs.ActionAssist && l.PasserPlayerID != nil && *l.PasserPlayerID == p.ID {
				line.Assists++
			}
			if l.PlayerID != p.ID {
				continue
			}
			switch l.Action {
			case logs.ActionShot:
				switch l.Result {
				case logs.ResultMake:
					line.ShotMade++
				case logs.ResultMiss:
					line.ShotMiss++
				}
			case logs.ActionFT:
				switch l.Result {
				case logs.ResultMake:
					line.FTMade++
				case logs.ResultMiss:
					line.FTMiss++
				}
			case logs.ActionReb:
				switch l.Result {
				case logs.ResultOff:
					line.OffReb++
				case logs.ResultDef:
					line.DefReb++
				}
			case logs.ActionFoul:
				line.Fouls++
			}
		}
		line.Points = 2*line.ShotMade + line.FTMade
		line.FGPercent = percent(line.ShotMade, line.ShotMade+line.ShotMiss)
		line.FTPercent = percent(line.FTMade, line.FTMade+line.FTMiss)
		lines = append(lines, line)
	}
	return lines
}

// TeamScore is two points per made shot plus one per made free throw.
func TeamScore(in []logs.Log) int {
	score := 0
	for _, l := range in {
		score += l.Points()
	}
	return score
}

// ZoneLine is the shooting record of one zone.
type ZoneLine struct {
	ZoneID    int     `json:"zoneId"`
	Made      int     `json:"made"`
	Miss      int     `json:"miss"`
	Attempts  int     `json:"attempts"`
	FGPercent float64 `json:"fgPercent"`
}

// ZoneReboundLine is the rebounding record of one zone.
type ZoneReboundLine struct {
	ZoneID int `json:"zoneId"`
	Off    int `json:"off"`
	Def    int `json:"def"`
	Total  int `json:"total"`
}

// ZoneStats aggregates shots per zone. All nine zones are always present;
// shots without a zone or outside 1-9 are ignored.
func ZoneStats(in []logs.Log, f Filter) [ZoneCount]ZoneLine {
	var out [ZoneCount]ZoneLine
	for i := range out {
		out[i].ZoneID = i + 1
	}
	for _, l := range f.Apply(in) {
		if l.Action != logs.ActionShot {
			continue
		}
		idx, ok := zoneIndex(l)
		if !ok {
			continue
		}
		switch l.Result {
		case logs.ResultMake:
			out[idx].Made++
		case logs.ResultMiss:
			out[idx].Miss++
		}
	}
	for i := range out {
		out[i].Attempts = out[i].Made + out[i].Miss
		out[i].FGPercent = percent(out[i].Made, out[i].Attempts)
	}
	return out
}

// ZoneReboundStats aggregates rebounds per zone, with the same zone rules as ZoneStats.
func ZoneReboundStats(in []logs.Log, f Filter) [ZoneCount]ZoneReboundLine {
	var out [ZoneCount]ZoneReboundLine
	for i := range out {
		out[i].ZoneID = i + 1
	}
	for _, l := range f.Apply(in) {
		if l.Action != logs.ActionReb {
			continue
		}
		idx, ok := zoneIndex(l)
		if !ok {
			continue
		}
		switch l.Result {
		case logs.ResultOff:
			out[idx].Off++
		case logs.ResultDef:
			out[idx].Def++
		}
	}
	for i := range out {
		out[i].Total = out[i].Off + out[i].Def
	}
	return out
}

func zoneIndex(l logs.Log) (int, bool) {
	z := l.Zone()
	if z < logs.MinZone || z > logs.MaxZone {
		return 0, false
	}
	return z - 1, true
}

func percent(made, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	return float64(made) / float64(attempts) * 100
}
