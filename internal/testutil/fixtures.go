package testutil

import (
	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

// SamplePlayer returns a player fixture.
func SamplePlayer(id string, number int, name string) players.Player {
	return players.Player{ID: id, Number: number, Name: name, CreatedAt: 1_700_000_000_000}
}

// SampleGame returns a minimal game fixture with the provided id.
func SampleGame(id string) games.Game {
	return games.Game{
		ID:           id,
		OpponentName: "Rivals",
		GameDate:     "2024-01-15",
		CreatedAt:    1_700_000_000_000,
	}
}

// SampleGamePlayer returns a roster row active in the given quarters.
func SampleGamePlayer(gameID, playerID string, active ...games.Quarter) games.GamePlayer {
	gp := games.GamePlayer{GameID: gameID, PlayerID: playerID}
	for _, q := range active {
		gp = gp.WithActive(q, true)
	}
	return gp
}

// ShotLog returns a SHOT log in zone with result MAKE or MISS.
func ShotLog(id, gameID, playerID string, zone int, result string, ts int64) logs.Log {
	return logs.Log{
		ID:        id,
		GameID:    gameID,
		Quarter:   games.Q1,
		PlayerID:  playerID,
		Action:    logs.ActionShot,
		ZoneID:    logs.IntPtr(zone),
		Result:    result,
		Timestamp: ts,
	}
}

// FreeThrowLog returns an FT log, which never carries a zone.
func FreeThrowLog(id, gameID, playerID, result string, ts int64) logs.Log {
	return logs.Log{
		ID:        id,
		GameID:    gameID,
		Quarter:   games.Q1,
		PlayerID:  playerID,
		Action:    logs.ActionFT,
		Result:    result,
		Timestamp: ts,
	}
}
