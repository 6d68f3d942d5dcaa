package handlers

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sweeplab/minesweeper-server/internal/config"
	"github.com/sweeplab/minesweeper-server/internal/game"
	"github.com/sweeplab/minesweeper-server/internal/middleware"
	"github.com/sweeplab/minesweeper-server/internal/repository"
	"github.com/sweeplab/minesweeper-server/internal/solver"
)

type GameHandler struct {
	logger *slog.Logger
	repo   *repository.Queries
	ws     *config.WebSocket
	rnd    *rand.Rand
}

func NewGameHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		repo:   repository.New(db),
		ws:     ws,
		rnd:    rnd,
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseCreateNewGameDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	params := game.GameParams(dto)
	state, err := game.NewGame(params, pos.X, pos.Y, g.rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	var createParams repository.CreateGameSessionParams
	if claims, ok := middleware.PlayerClaims(r); ok {
		g.logger.Debug("creating player session", "username", claims.Username)
		createParams.PlayerId = &claims.PlayerId
	} else {
		g.logger.Debug("creating anonymous session")
	}

	session, err := g.repo.CreateGameSession(r.Context(), state, createParams)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to create game session", "error", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session, state))
}

func (g GameHandler) fetchSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *game.GameState, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := g.repo.FetchGameSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch session from db", "error", err)
		return nil, nil, false
	}

	state, err := game.DecodeGameState(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("db returned invalid game_session.state", "error", err)
		return nil, nil, false
	}
	return session, state, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session, state))
}

func (g GameHandler) saveMove(
	w http.ResponseWriter, r *http.Request,
	session *repository.GameSession, state *game.GameState,
) {
	buf, err := state.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to encode game state", "error", err)
		return
	}

	params := repository.UpdateGameSessionParams{
		Dead:  &state.Dead,
		Won:   &state.Won,
		State: &buf,
	}
	if (state.Dead || state.Won) && !session.EndedAt.Valid {
		endedAt := time.Now().UTC()
		params.EndedAt = &endedAt
	}

	updated, err := g.repo.UpdateGameSession(r.Context(), session.GameSessionId, params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to update game session", "error", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(updated, state))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	if state.Dead || state.Won {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.logger, NewGameSessionDTO(session, state))
		return
	}
	if !state.PointInBounds(pos.X, pos.Y) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(errors.New("invalid cell position")))
		return
	}

	switch move {
	case MoveOpen:
		state.OpenCell(pos.X, pos.Y)
	case MoveFlag:
		state.FlagCell(pos.X, pos.Y)
	case MoveChord:
		state.ChordCell(pos.X, pos.Y)
	}
	if state.Dead || state.Won {
		state.RevealPlayerGrid()
	}

	g.saveMove(w, r, session, state)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	state.Forfeit()
	g.saveMove(w, r, session, state)
}

// Hints is the learning mode: per-cell mine probabilities for the
// current position. Display-only, the game itself is untouched.
func (g GameHandler) Hints(w http.ResponseWriter, r *http.Request) {
	_, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	if state.Dead || state.Won {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.logger, wrapError(errors.New("game is over")))
		return
	}

	minesRemaining := state.MinesRemaining()
	probs := solver.CalculateProbabilities(state.PlayerGrid, state.Width, minesRemaining)
	sendJSONOrLog(w, g.logger, NewHintsDTO(probs, minesRemaining))
}
