package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/logging"
	"github.com/preston-bernstein/courtside/internal/tablestore"
)

// ListPlayers returns every player ordered by jersey number.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "players", func(ctx context.Context) ([]players.Player, error) {
		return h.store.ListPlayers(ctx)
	})
}

// SavePlayers upserts one player or an array of players.
func (h *Handler) SavePlayers(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "players", h.store.UpsertPlayers)
}

// DeletePlayer removes the player named by the id query parameter.
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	h.remove(w, r, "players", slog.String("id", id), func(ctx context.Context) error {
		return h.store.DeletePlayer(ctx, id)
	})
}

// ListGames returns every game, newest first.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, "games", func(ctx context.Context) ([]games.Game, error) {
		return h.store.ListGames(ctx)
	})
}

// SaveGames upserts one game or an array of games.
func (h *Handler) SaveGames(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "games", h.store.UpsertGames)
}

// DeleteGame removes the game named by the id query parameter.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	h.remove(w, r, "games", slog.String("id", id), func(ctx context.Context) error {
		return h.store.DeleteGame(ctx, id)
	})
}

// ListLogs returns logs in timestamp order, optionally for one game.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	list(h, w, r, "logs", func(ctx context.Context) ([]logs.Log, error) {
		return h.store.ListLogs(ctx, gameID)
	})
}

// SaveLogs upserts one log or an array of logs.
func (h *Handler) SaveLogs(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "logs", h.store.UpsertLogs)
}

// DeleteLogs removes a single log by id, or every log of a game by gameId.
// id wins when both are given.
func (h *Handler) DeleteLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch id, gameID := q.Get("id"), q.Get("gameId"); {
	case id != "":
		h.remove(w, r, "logs", slog.String("id", id), func(ctx context.Context) error {
			return h.store.DeleteLog(ctx, id)
		})
	case gameID != "":
		h.remove(w, r, "logs", slog.String(logging.FieldGameID, gameID), func(ctx context.Context) error {
			return h.store.DeleteGameLogs(ctx, gameID)
		})
	default:
		h.writeError(w, r, http.StatusBadRequest, "id or gameId is required")
	}
}

// ListGamePlayers returns lineup rows, optionally for one game.
func (h *Handler) ListGamePlayers(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	list(h, w, r, "game_players", func(ctx context.Context) ([]games.GamePlayer, error) {
		return h.store.ListGamePlayers(ctx, gameID)
	})
}

// SaveGamePlayers upserts one lineup row or an array of them.
func (h *Handler) SaveGamePlayers(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "game_players", h.store.UpsertGamePlayers)
}

// DeleteGamePlayers removes every lineup row of the game named by gameId.
func (h *Handler) DeleteGamePlayers(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		h.writeError(w, r, http.StatusBadRequest, "gameId is required")
		return
	}
	h.remove(w, r, "game_players", slog.String(logging.FieldGameID, gameID), func(ctx context.Context) error {
		return h.store.DeleteGamePlayers(ctx, gameID)
	})
}

func list[T any](h *Handler, w http.ResponseWriter, r *http.Request, resource string, fetch func(context.Context) ([]T, error)) {
	items, err := fetch(r.Context())
	if err != nil {
		h.storeFailure(w, r, resource, "list", err)
		return
	}
	if items == nil {
		items = []T{}
	}
	h.writeJSON(w, http.StatusOK, items)
}

func save[T any](h *Handler, w http.ResponseWriter, r *http.Request, resource string, upsert func(context.Context, []T) error) {
	batch, err := decodeRecords[T](w, r)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			h.writeError(w, r, reqErr.status, reqErr.msg)
			return
		}
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := upsert(r.Context(), batch); err != nil {
		h.storeFailure(w, r, resource, "upsert", err)
		return
	}
	loggerFromContext(r, h.logger).Info("records saved",
		slog.String(logging.FieldResource, resource),
		slog.Int(logging.FieldCount, len(batch)),
	)
	h.writeCreated(w, len(batch))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, resource string, key slog.Attr, del func(context.Context) error) {
	if err := del(r.Context()); err != nil {
		h.storeFailure(w, r, resource, "delete", err)
		return
	}
	loggerFromContext(r, h.logger).Info("records deleted", slog.String(logging.FieldResource, resource), key)
	h.writeOK(w)
}

func (h *Handler) storeFailure(w http.ResponseWriter, r *http.Request, resource, op string, err error) {
	if errors.Is(err, tablestore.ErrInvalidRecord) {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	logging.Error(loggerFromContext(r, h.logger), "store operation failed", err,
		slog.String(logging.FieldResource, resource),
		slog.String("op", op),
	)
	h.writeError(w, r, http.StatusInternalServerError, err.Error())
}
