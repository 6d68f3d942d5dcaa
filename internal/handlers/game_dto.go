package handlers

import (
	"fmt"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/sweeplab/minesweeper-server/internal/game"
	"github.com/sweeplab/minesweeper-server/internal/repository"
	"github.com/sweeplab/minesweeper-server/internal/solver"
)

func decodeQuery(dst any, src map[string][]string) error {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec.Decode(dst, src)
}

type CreateNewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	err := decodeQuery(&dto, src)
	return dto, err
}

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (Position, error) {
	var pos Position
	err := decodeQuery(&pos, src)
	return pos, err
}

type GameMove string

const (
	MoveOpen  GameMove = "open"
	MoveFlag  GameMove = "flag"
	MoveChord GameMove = "chord"
)

func ParseGameMove(s string) (GameMove, error) {
	switch move := GameMove(s); move {
	case MoveOpen, MoveFlag, MoveChord:
		return move, nil
	default:
		return "", fmt.Errorf("move must be one of open, flag, chord")
	}
}

type GameSessionDTO struct {
	GameSessionId  string    `json:"game_session_id"`
	Grid           game.Grid `json:"grid"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	MineCount      int       `json:"mine_count"`
	MinesRemaining int       `json:"mines_remaining"`
	Dead           bool      `json:"dead"`
	Won            bool      `json:"won"`
	StartedAt      int64     `json:"started_at"`
	EndedAt        *int64    `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(
	session *repository.GameSession, g *game.GameState,
) *GameSessionDTO {
	var endedAt *int64
	if session.EndedAt.Valid {
		e := session.EndedAt.Time.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId:  strconv.FormatInt(session.GameSessionId, 10),
		Grid:           g.PlayerGrid,
		Width:          g.Width,
		Height:         g.Height,
		MineCount:      g.MineCount,
		MinesRemaining: g.MinesRemaining(),
		Dead:           g.Dead,
		Won:            g.Won,
		StartedAt:      session.StartedAt.Time.UnixMilli(),
		EndedAt:        endedAt,
	}
}

// HintsDTO is the learning-mode payload: one probability per covered
// cell keyed "x:y", plus the certain subsets pulled out for clients
// that only want those.
type HintsDTO struct {
	Probabilities  map[string]float64 `json:"probabilities"`
	Safe           []string           `json:"safe"`
	Mines          []string           `json:"mines"`
	MinesRemaining int                `json:"mines_remaining"`
}

func NewHintsDTO(probs solver.ProbabilityMap, minesRemaining int) *HintsDTO {
	dto := &HintsDTO{
		Probabilities:  make(map[string]float64, len(probs)),
		Safe:           []string{},
		Mines:          []string{},
		MinesRemaining: minesRemaining,
	}
	for cell, p := range probs {
		dto.Probabilities[cell.String()] = p
	}
	safe, mined := probs.DefinitiveCells()
	for _, cell := range safe {
		dto.Safe = append(dto.Safe, cell.String())
	}
	for _, cell := range mined {
		dto.Mines = append(dto.Mines, cell.String())
	}
	return dto
}
