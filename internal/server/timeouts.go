package server

import "time"

// API listener limits. Body reads get longer than headers because a sync
// push posts batches of up to 500 records per request.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 90 * time.Second
)

// shutdownTimeout bounds draining in-flight requests before the store closes.
// A var so tests can shorten it.
var shutdownTimeout = 15 * time.Second
