package remote

import "time"

const (
	defaultBaseURL     = "http://localhost:4000/api"
	defaultHTTPTimeout = 15 * time.Second
	errorBodyLimit     = 512

	// DefaultBatchSize keeps each POST well under the server's 1 MiB body limit.
	DefaultBatchSize = 500

	// HeaderAPIKey carries the shared secret checked by the server.
	HeaderAPIKey = "X-API-Key"
)

// Resource paths relative to the API base URL.
const (
	PathPlayers     = "/players"
	PathGames       = "/games"
	PathLogs        = "/logs"
	PathGamePlayers = "/game-players"
)
