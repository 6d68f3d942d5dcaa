package game

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"github.com/gammazero/deque"
)

// GameState is the full state of one game: the real mine layout and the
// player's knowledge of it. Everything in here survives a gob round
// trip, which is how sessions are persisted and how undo snapshots are
// taken.
type GameState struct {
	Dead, Won  bool
	Mines      []bool /* ground truth, row-major */
	PlayerGrid Grid
	GameParams
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone deep-copies the state via a serialize/deserialize round trip.
// Undo keeps a stack of these.
func (s GameState) Clone() (*GameState, error) {
	buf, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	return DecodeGameState(buf)
}

// NewGame places mines randomly, keeping the 3x3 neighborhood of the
// first click (x, y) clear so the opening move is always safe and
// always cascades, then opens that square.
func NewGame(params GameParams, x, y int, r *rand.Rand) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !params.PointInBounds(x, y) {
		return nil, fmt.Errorf("starting cell out of bounds")
	}

	candidates := make([]int, 0, params.Width*params.Height)
	for i := range params.Width * params.Height {
		dx, dy := i%params.Width-x, i/params.Width-y
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < params.MineCount {
		return nil, fmt.Errorf("not enough room for %d mines", params.MineCount)
	}
	r.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	mines := make([]bool, params.Width*params.Height)
	for _, i := range candidates[:params.MineCount] {
		mines[i] = true
	}

	playerGrid := make(Grid, len(mines))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}

	state := &GameState{
		GameParams: params,
		Mines:      mines,
		PlayerGrid: playerGrid,
	}
	state.OpenCell(x, y)
	return state, nil
}

func (s *GameState) forEachNeighbor(i int, fn func(j int)) {
	x, y := i%s.Width, i/s.Width
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if s.PointInBounds(x+dx, y+dy) {
				fn((y+dy)*s.Width + (x + dx))
			}
		}
	}
}

func (s *GameState) adjacentMines(i int) CellState {
	var count CellState
	s.forEachNeighbor(i, func(j int) {
		if s.Mines[j] {
			count++
		}
	})
	return count
}

// OpenCell opens one square. Opening a mine kills the player but only
// exposes the mine they hit, in case they want to undo and carry on.
// Opening a zero spreads via breadth-first flood fill.
func (s *GameState) OpenCell(x, y int) {
	if s.Dead || s.Won {
		return
	}
	i := y*s.Width + x
	if s.PlayerGrid[i] != Unknown && s.PlayerGrid[i] != Question {
		return
	}
	if s.Mines[i] {
		s.Dead = true
		s.PlayerGrid[i] = ExplodedMine
		return
	}

	var todo deque.Deque[int]
	todo.PushBack(i)
	s.PlayerGrid[i] = s.adjacentMines(i)

	for todo.Len() > 0 {
		j := todo.PopFront()
		if s.PlayerGrid[j] != 0 {
			continue
		}
		s.forEachNeighbor(j, func(k int) {
			if s.PlayerGrid[k] == Unknown || s.PlayerGrid[k] == Question {
				s.PlayerGrid[k] = s.adjacentMines(k)
				todo.PushBack(k)
			}
		})
	}

	s.checkWon()
}

// The game is won once exactly as many squares are covered as there are
// mines. Covered squares are then marked as (unflagged) mines.
func (s *GameState) checkWon() {
	covered := 0
	for _, c := range s.PlayerGrid {
		if c < 0 {
			covered++
		}
	}
	if covered != s.MineCount {
		return
	}
	s.Won = true
	for i, c := range s.PlayerGrid {
		if c == Unknown || c == Question {
			s.PlayerGrid[i] = UnflaggedMine
		}
	}
}

func (s *GameState) FlagCell(x, y int) {
	if s.Dead || s.Won {
		return
	}
	i := y*s.Width + x
	switch s.PlayerGrid[i] {
	case Unknown, Question:
		s.PlayerGrid[i] = Flagged
	case Flagged:
		s.PlayerGrid[i] = Unknown
	}
}

// ChordCell opens every unflagged neighbor of an open square whose
// flag count already matches its number.
func (s *GameState) ChordCell(x, y int) {
	if s.Dead || s.Won {
		return
	}
	i := y*s.Width + x
	if !(0 <= s.PlayerGrid[i] && s.PlayerGrid[i] <= 8) {
		return
	}
	var (
		flags   CellState
		covered []int
	)
	s.forEachNeighbor(i, func(j int) {
		switch s.PlayerGrid[j] {
		case Flagged:
			flags++
		case Unknown, Question:
			covered = append(covered, j)
		}
	})
	if flags != s.PlayerGrid[i] {
		return
	}
	for _, j := range covered {
		s.OpenCell(j%s.Width, j/s.Width)
		if s.Dead || s.Won {
			return
		}
	}
}

func (s *GameState) Forfeit() {
	if !(s.Dead || s.Won) {
		s.Dead = true
	}
	s.RevealPlayerGrid()
}

// RevealPlayerGrid fills in the post-game-over view: correct and wrong
// flags, unflagged mines, and true counts for everything else.
func (s *GameState) RevealPlayerGrid() {
	if !(s.Dead || s.Won) {
		s.Dead = true
	}
	for i, c := range s.PlayerGrid {
		switch {
		case c == Flagged && s.Mines[i]:
			s.PlayerGrid[i] = CorrectlyFlagged
		case c == Flagged:
			s.PlayerGrid[i] = FalselyFlagged
		case (c == Unknown || c == Question) && s.Mines[i]:
			s.PlayerGrid[i] = UnflaggedMine
		case c == Unknown || c == Question:
			s.PlayerGrid[i] = s.adjacentMines(i)
		}
	}
}

// MinesRemaining is the number of mines not yet accounted for by
// flags. It can reach zero but never goes negative, however badly the
// player over-flags.
func (s *GameState) MinesRemaining() int {
	remaining := s.MineCount
	for _, c := range s.PlayerGrid {
		if c == Flagged {
			remaining--
		}
	}
	return max(remaining, 0)
}
