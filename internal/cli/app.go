// Package cli implements the courtside command line: roster and game
// management, the courtside recording session, box scores and cloud sync.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/itbasis/go-clock"

	appgames "github.com/preston-bernstein/courtside/internal/app/games"
	appplayers "github.com/preston-bernstein/courtside/internal/app/players"
	"github.com/preston-bernstein/courtside/internal/cloudsync"
	"github.com/preston-bernstein/courtside/internal/config"
	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/kvstore"
	"github.com/preston-bernstein/courtside/internal/logging"
	"github.com/preston-bernstein/courtside/internal/metrics"
	"github.com/preston-bernstein/courtside/internal/remote"
)

const probeTimeout = 2 * time.Second

var (
	errUnknownPlayer = errors.New("unknown player")
	errUnknownGame   = errors.New("unknown game")
	errUnknownLog    = errors.New("unknown log")
	errAmbiguousRef  = errors.New("ambiguous reference")
)

// Options injects I/O and collaborators; zero values mean the process defaults.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Clock  clock.Clock
	Config *config.ClientConfig

	// Remote and Connectivity replace the HTTP client and reachability probe.
	Remote       cloudsync.Remote
	Connectivity cloudsync.Connectivity
}

func (o Options) withDefaults() Options {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}

type app struct {
	opts    Options
	cfg     config.ClientConfig
	logger  *slog.Logger
	metrics *metrics.Recorder
	kv      *kvstore.Store
	players *appplayers.Store
	games   *appgames.Store
}

func newApp(cfg config.ClientConfig, opts Options) (*app, error) {
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "courtside",
		Output:  opts.Err,
	})
	kv := kvstore.New(cfg.DataDir, "", logger)

	ps := appplayers.NewStore(kv, opts.Clock)
	if err := ps.Load(); err != nil {
		return nil, err
	}
	gs := appgames.NewStore(kv, opts.Clock)
	if err := gs.Load(); err != nil {
		return nil, err
	}
	return &app{
		opts:    opts,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewRecorder(),
		kv:      kv,
		players: ps,
		games:   gs,
	}, nil
}

// apiKey prefers the environment over the key saved with `config set-key`.
func (a *app) apiKey() string {
	if a.cfg.APIKey != "" {
		return a.cfg.APIKey
	}
	var saved string
	if found, err := a.kv.Get(kvstore.KeyAPIKey, &saved); err == nil && found {
		return saved
	}
	return ""
}

func (a *app) syncer() (*cloudsync.Syncer, error) {
	rem := a.opts.Remote
	if rem == nil {
		rem = remote.NewClient(remote.Config{
			BaseURL: a.cfg.RemoteURL,
			APIKey:  a.apiKey(),
			Timeout: a.cfg.HTTPTimeout,
		})
	}
	online := a.opts.Connectivity
	if online == nil {
		probe, err := cloudsync.NewDialProbe(a.cfg.RemoteURL, probeTimeout)
		if err != nil {
			return nil, err
		}
		online = probe
	}
	return cloudsync.New(cloudsync.Config{
		Remote:       rem,
		Storage:      a.kv,
		Connectivity: online,
		Loaders:      []cloudsync.Loader{a.players, a.games},
		Clock:        a.opts.Clock,
		Logger:       a.logger,
		Metrics:      a.metrics,
	}), nil
}

// resolvePlayer accepts a player id, a unique id prefix or #number.
func (a *app) resolvePlayer(ref string) (players.Player, error) {
	ref = strings.TrimSpace(ref)
	if num, ok := strings.CutPrefix(ref, "#"); ok {
		n, err := strconv.Atoi(num)
		if err != nil {
			return players.Player{}, fmt.Errorf("%w: %q", errUnknownPlayer, ref)
		}
		if p, found := a.players.FindByNumber(n); found {
			return p, nil
		}
		return players.Player{}, fmt.Errorf("%w: no player wears #%d", errUnknownPlayer, n)
	}
	return resolveByID(a.players.All(), ref, func(p players.Player) string { return p.ID }, errUnknownPlayer)
}

// resolveGame accepts a game id or a unique id prefix.
func (a *app) resolveGame(ref string) (games.Game, error) {
	return resolveByID(a.games.Games(), strings.TrimSpace(ref), func(g games.Game) string { return g.ID }, errUnknownGame)
}

func (a *app) resolvePlayers(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := a.resolvePlayer(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func resolveByID[T any](items []T, ref string, id func(T) string, notFound error) (T, error) {
	var zero T
	if ref == "" {
		return zero, fmt.Errorf("%w: empty reference", notFound)
	}
	var matches []T
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
		if strings.HasPrefix(id(it), ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%w: %s", notFound, ref)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%w: %s matches %d records", errAmbiguousRef, ref, len(matches))
	}
}

func (a *app) playerLabel(id string) string {
	if p, ok := a.players.Get(id); ok {
		return fmt.Sprintf("#%d %s", p.Number, p.Name)
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
