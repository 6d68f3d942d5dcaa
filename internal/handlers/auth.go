package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweeplab/minesweeper-server/internal/config"
	"github.com/sweeplab/minesweeper-server/internal/middleware"
	"github.com/sweeplab/minesweeper-server/internal/repository"
)

type Auth struct {
	logger  *slog.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	jwt     *config.JWT
}

func NewAuth(
	logger *slog.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		logger:  logger,
		repo:    repository.New(db),
		cookies: cookies,
		jwt:     jwt,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r)
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, &Status{LoggedIn: false})
		return
	}

	token, err := a.jwt.Sign(claims)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to tokenize checked claims", "error", err)
		return
	}
	a.cookies.Refresh(w, token)

	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: true,
		Player:   &PlayerInfo{claims.PlayerId, claims.Username},
	})
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
	ErrBadCredentials     = fmt.Errorf("invalid username or password")
)

func parseCredentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", ErrBadAuthBody
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	// bcrypt refuses anything longer
	if len([]byte(password)) > 72 {
		return "", "", ErrBadPasswordTooLong
	}
	return username, password, nil
}

func (a Auth) signIn(w http.ResponseWriter, player *repository.Player) error {
	token, err := a.jwt.Sign(
		config.NewPlayerClaims(player.PlayerId, player.Username),
	)
	if err != nil {
		return fmt.Errorf("unable to create a jwt token: %w", err)
	}
	return a.cookies.Refresh(w, token)
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, a.logger, wrapError(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to hash password", "error", err)
		return
	}

	player, err := a.repo.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, a.logger, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to insert player", "error", err)
		return
	}

	if err := a.signIn(w, player); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to sign in new player", "error", err)
		return
	}
	sendJSONOrLog(w, a.logger, &PlayerInfo{player.PlayerId, player.Username})
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := parseCredentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, a.logger, wrapError(err))
		return
	}

	player, err := a.repo.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, a.logger, wrapError(ErrBadCredentials))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to fetch player", "error", err)
		return
	}

	if bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, a.logger, wrapError(ErrBadCredentials))
		return
	}

	if err := a.signIn(w, player); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to sign in player", "error", err)
		return
	}
	sendJSONOrLog(w, a.logger, &PlayerInfo{player.PlayerId, player.Username})
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
