package stats

import (
	"math"
	"testing"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/testutil"
)

func rebound(id, player string, zone int, result string) logs.Log {
	return logs.Log{ID: id, GameID: "g", Quarter: games.Q1, PlayerID: player, Action: logs.ActionReb, ZoneID: logs.IntPtr(zone), Result: result}
}

func TestMadeShotAndMissedFreeThrowScenario(t *testing.T) {
	in := []logs.Log{
		testutil.ShotLog("1", "g", "P1", 3, logs.ResultMake, 1),
		testutil.FreeThrowLog("2", "g", "P1", logs.ResultMiss, 2),
	}
	roster := []players.Player{testutil.SamplePlayer("P1", 4, "Pat")}

	lines := PlayerStats(in, roster, Filter{})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	p1 := lines[0]
	if p1.Points != 2 || p1.FGPercent != 100 || p1.FTPercent != 0 {
		t.Fatalf("unexpected line %+v", p1)
	}
	if got := TeamScore(in); got != 2 {
		t.Fatalf("expected team score 2, got %d", got)
	}
}

func TestPercentagesAreZeroWithoutAttempts(t *testing.T) {
	roster := []players.Player{testutil.SamplePlayer("P1", 1, "Solo")}
	line := PlayerStats(nil, roster, Filter{})[0]
	if line.FGPercent != 0 || line.FTPercent != 0 || math.IsNaN(line.FGPercent) {
		t.Fatalf("expected zero percentages, got %+v", line)
	}
}

func TestPlayerStatsCountsEveryCategory(t *testing.T) {
	in := []logs.Log{
		testutil.ShotLog("s1", "g", "A", 1, logs.ResultMake, 1),
		testutil.ShotLog("s2", "g", "A", 2, logs.ResultMiss, 2),
		testutil.ShotLog("s3", "g", "A", 2, logs.ResultMiss, 3),
		testutil.FreeThrowLog("f1", "g", "A", logs.ResultMake, 4),
		rebound("r1", "A", 5, logs.ResultOff),
		rebound("r2", "A", 5, logs.ResultDef),
		rebound("r3", "A", 6, logs.ResultDef),
		{ID: "x1", GameID: "g", Quarter: games.Q1, PlayerID: "A", Action: logs.ActionFoul, Result: "personal"},
		logs.NewAssist("a1", "g", games.Q1, "B", "A", "s1", 5),
	}
	roster := []players.Player{
		testutil.SamplePlayer("A", 1, "Ann"),
		testutil.SamplePlayer("B", 2, "Bo"),
	}
	lines := PlayerStats(in, roster, Filter{})
	a, b := lines[0], lines[1]

	if a.ShotMade != 1 || a.ShotMiss != 2 || a.FTMade != 1 || a.FTMiss != 0 {
		t.Fatalf("unexpected shooting for A: %+v", a)
	}
	if a.OffReb != 1 || a.DefReb != 2 || a.Rebounds() != 3 || a.Fouls != 1 {
		t.Fatalf("unexpected rebounds/fouls for A: %+v", a)
	}
	if a.Points != 3 {
		t.Fatalf("expected 3 points for A, got %d", a.Points)
	}
	if math.Abs(a.FGPercent-100.0/3) > 1e-9 {
		t.Fatalf("expected FG%% 33.3, got %v", a.FGPercent)
	}
	if a.Assists != 0 || b.Assists != 1 {
		t.Fatalf("expected assist credited to passer, got A=%d B=%d", a.Assists, b.Assists)
	}
	if b.Points != 0 {
		t.Fatalf("assists carry no points, got %d", b.Points)
	}
}

func TestFilterByQuarterAndPlayer(t *testing.T) {
	q2 := testutil.ShotLog("s2", "g", "A", 1, logs.ResultMake, 2)
	q2.Quarter = games.Q2
	in := []logs.Log{
		testutil.ShotLog("s1", "g", "A", 1, logs.ResultMake, 1),
		q2,
		testutil.ShotLog("s3", "g", "B", 1, logs.ResultMake, 3),
	}

	if got := (Filter{Quarter: games.Q2}).Apply(in); len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("unexpected quarter filter %v", got)
	}
	if got := (Filter{PlayerID: "B"}).Apply(in); len(got) != 1 || got[0].ID != "s3" {
		t.Fatalf("unexpected player filter %v", got)
	}
	if got := (Filter{Quarter: games.Q1, PlayerID: "A"}).Apply(in); len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("unexpected combined filter %v", got)
	}

	roster := []players.Player{testutil.SamplePlayer("A", 1, "Ann")}
	if got := PlayerStats(in, roster, Filter{Quarter: games.Q2})[0].Points; got != 2 {
		t.Fatalf("expected Q2 points 2, got %d", got)
	}
}

func TestTeamScoreIgnoresAttribution(t *testing.T) {
	in := []logs.Log{
		testutil.ShotLog("1", "g", "ghost", 1, logs.ResultMake, 1),
		testutil.ShotLog("2", "g", "", 9, logs.ResultMake, 2),
		testutil.FreeThrowLog("3", "g", "ghost", logs.ResultMake, 3),
		testutil.ShotLog("4", "g", "ghost", 1, logs.ResultMiss, 4),
		logs.NewAssist("5", "g", games.Q1, "a", "b", "1", 5),
	}
	if got := TeamScore(in); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestZoneStatsAlwaysNineZones(t *testing.T) {
	empty := ZoneStats(nil, Filter{})
	for i, z := range empty {
		if z.ZoneID != i+1 || z.Attempts != 0 || z.FGPercent != 0 {
			t.Fatalf("unexpected empty zone %+v", z)
		}
	}

	in := []logs.Log{
		testutil.ShotLog("1", "g", "A", 3, logs.ResultMake, 1),
		testutil.ShotLog("2", "g", "A", 3, logs.ResultMiss, 2),
		testutil.ShotLog("3", "g", "A", 12, logs.ResultMake, 3),
		testutil.ShotLog("4", "g", "A", 0, logs.ResultMake, 4),
		testutil.FreeThrowLog("5", "g", "A", logs.ResultMake, 5),
		rebound("6", "A", 3, logs.ResultOff),
	}
	zones := ZoneStats(in, Filter{})
	if len(zones) != 9 {
		t.Fatalf("expected 9 zones, got %d", len(zones))
	}
	z3 := zones[2]
	if z3.Made != 1 || z3.Miss != 1 || z3.Attempts != 2 || z3.FGPercent != 50 {
		t.Fatalf("unexpected zone 3 %+v", z3)
	}
	total := 0
	for _, z := range zones {
		total += z.Attempts
	}
	if total != 2 {
		t.Fatalf("expected out-of-range and non-shot logs ignored, got %d attempts", total)
	}
}

func TestZoneReboundStats(t *testing.T) {
	in := []logs.Log{
		rebound("1", "A", 7, logs.ResultOff),
		rebound("2", "B", 7, logs.ResultDef),
		rebound("3", "A", 7, logs.ResultDef),
		rebound("4", "A", 10, logs.ResultDef),
		testutil.ShotLog("5", "g", "A", 7, logs.ResultMake, 5),
	}
	zones := ZoneReboundStats(in, Filter{})
	z7 := zones[6]
	if z7.ZoneID != 7 || z7.Off != 1 || z7.Def != 2 || z7.Total != 3 {
		t.Fatalf("unexpected zone 7 %+v", z7)
	}
	byPlayer := ZoneReboundStats(in, Filter{PlayerID: "A"})
	if byPlayer[6].Total != 2 {
		t.Fatalf("expected 2 rebounds for A in zone 7, got %+v", byPlayer[6])
	}
}
