package cloudsync

// State is the coarse sync status shown to the user.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
	StateOffline State = "offline"
)

// Counts is how many records of each collection the last push sent.
type Counts struct {
	Players     int `json:"players"`
	Games       int `json:"games"`
	GamePlayers int `json:"gamePlayers"`
	Logs        int `json:"logs"`
}

// Status is a snapshot of the syncer.
type Status struct {
	State      State   `json:"status"`
	Error      string  `json:"errorMessage,omitempty"`
	LastPush   *Counts `json:"lastPushCounts,omitempty"`
	LastSynced int64   `json:"lastSynced,omitempty"`
}
