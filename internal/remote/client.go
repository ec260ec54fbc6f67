package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

// Config controls how the client reaches the remote API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration

	// BatchSize caps the records sent per POST; zero uses DefaultBatchSize.
	BatchSize int
}

// Client talks to the four REST resources of the remote table store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	batchSize  int
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		batchSize:  resolveBatchSize(cfg.BatchSize),
	}
}

func resolveBatchSize(n int) int {
	if n <= 0 {
		return DefaultBatchSize
	}
	return n
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

type saveResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

func (c *Client) ListPlayers(ctx context.Context) ([]players.Player, error) {
	return list[players.Player](ctx, c, PathPlayers, nil)
}

func (c *Client) SavePlayers(ctx context.Context, in []players.Player) (int, error) {
	return save(ctx, c, PathPlayers, in)
}

func (c *Client) DeletePlayer(ctx context.Context, id string) error {
	return c.delete(ctx, PathPlayers, url.Values{"id": {id}})
}

func (c *Client) ListGames(ctx context.Context) ([]games.Game, error) {
	return list[games.Game](ctx, c, PathGames, nil)
}

func (c *Client) SaveGames(ctx context.Context, in []games.Game) (int, error) {
	return save(ctx, c, PathGames, in)
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.delete(ctx, PathGames, url.Values{"id": {id}})
}

// ListLogs returns every log, or only those of gameID when it is set.
func (c *Client) ListLogs(ctx context.Context, gameID string) ([]logs.Log, error) {
	return list[logs.Log](ctx, c, PathLogs, gameQuery(gameID))
}

func (c *Client) SaveLogs(ctx context.Context, in []logs.Log) (int, error) {
	return save(ctx, c, PathLogs, in)
}

func (c *Client) DeleteLog(ctx context.Context, id string) error {
	return c.delete(ctx, PathLogs, url.Values{"id": {id}})
}

// DeleteGameLogs removes every log of a game.
func (c *Client) DeleteGameLogs(ctx context.Context, gameID string) error {
	return c.delete(ctx, PathLogs, url.Values{"gameId": {gameID}})
}

// ListGamePlayers returns every roster row, or only those of gameID when it is set.
func (c *Client) ListGamePlayers(ctx context.Context, gameID string) ([]games.GamePlayer, error) {
	return list[games.GamePlayer](ctx, c, PathGamePlayers, gameQuery(gameID))
}

func (c *Client) SaveGamePlayers(ctx context.Context, in []games.GamePlayer) (int, error) {
	return save(ctx, c, PathGamePlayers, in)
}

func (c *Client) DeleteGamePlayers(ctx context.Context, gameID string) error {
	return c.delete(ctx, PathGamePlayers, url.Values{"gameId": {gameID}})
}

func gameQuery(gameID string) url.Values {
	if gameID == "" {
		return nil
	}
	return url.Values{"gameId": {gameID}}
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// save upserts records in POSTs of at most batchSize records. A failed batch
// stops the upload; batches already accepted stay remote and are counted.
func save[T any](ctx context.Context, c *Client, path string, records []T) (int, error) {
	saved := 0
	for start := 0; start < len(records); start += c.batchSize {
		end := min(start+c.batchSize, len(records))
		body, err := json.Marshal(records[start:end])
		if err != nil {
			return saved, fmt.Errorf("remote: encode %s: %w", path, err)
		}
		var resp saveResponse
		if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
			return saved, err
		}
		saved += resp.Count
	}
	return saved, nil
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, dst any) error {
	req, err := c.buildRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return newAPIError(resp.StatusCode, raw)
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}
	return req, nil
}
