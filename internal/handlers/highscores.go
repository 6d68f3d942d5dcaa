package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sweeplab/minesweeper-server/internal/game"
	"github.com/sweeplab/minesweeper-server/internal/repository"
)

type Highscores struct {
	logger *slog.Logger
	repo   *repository.Queries
}

func NewHighscores(logger *slog.Logger, db *pgxpool.Pool) *Highscores {
	return &Highscores{
		logger: logger,
		repo:   repository.New(db),
	}
}

type highscoreQuery struct {
	Username  *string `schema:"username"`
	Width     *int    `schema:"width"`
	Height    *int    `schema:"height"`
	MineCount *int    `schema:"mine_count"`
}

func (q highscoreQuery) filter() repository.HighscoreFilter {
	filter := repository.HighscoreFilter{Username: q.Username}
	if q.Width != nil && q.Height != nil && q.MineCount != nil {
		filter.GameParams = &game.GameParams{
			Width:     *q.Width,
			Height:    *q.Height,
			MineCount: *q.MineCount,
		}
	}
	return filter
}

func (h Highscores) Get(w http.ResponseWriter, r *http.Request) {
	var query highscoreQuery
	if err := decodeQuery(&query, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	highscores, err := h.repo.GetHighscores(r.Context(), query.filter())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch highscores", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, highscores)
}
