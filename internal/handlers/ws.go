package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweeplab/minesweeper-server/internal/game"
	"github.com/sweeplab/minesweeper-server/internal/repository"
	"github.com/sweeplab/minesweeper-server/internal/solver"
)

// Live play protocol: text frames of newline-separated commands.
//
//	g          fetch current state
//	o x y      open a cell
//	f x y      toggle a flag
//	c x y      chord an open cell
//	r          forfeit
//	u          undo the last move
//	p          request mine probabilities (learning mode)
//
// Every frame is answered with the session DTO; "p" additionally
// produces a hints frame before it.
type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsForfeit wsCommand = "r"
	wsUndo    wsCommand = "u"
	wsHints   wsCommand = "p"
)

type wsGame struct {
	repo    *repository.Queries
	session *repository.GameSession
	state   *game.GameState
	undo    []*game.GameState
}

func parseXY(args []string) (x, y int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected two coordinates")
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return x, y, nil
}

// snapshot pushes an undo point via the gob deep-clone.
func (g *wsGame) snapshot() error {
	clone, err := g.state.Clone()
	if err != nil {
		return fmt.Errorf("unable to snapshot game state: %w", err)
	}
	g.undo = append(g.undo, clone)
	return nil
}

func (g *wsGame) popUndo() {
	if n := len(g.undo); n > 0 {
		g.state = g.undo[n-1]
		g.undo = g.undo[:n-1]
	}
}

func (g *wsGame) move(args []string, apply func(x, y int)) error {
	x, y, err := parseXY(args)
	if err != nil {
		return err
	}
	if !g.state.PointInBounds(x, y) {
		return fmt.Errorf("invalid cell coordinates")
	}
	if g.state.Dead || g.state.Won {
		return nil
	}
	if err := g.snapshot(); err != nil {
		return err
	}
	apply(x, y)
	return nil
}

// execute runs one command line. The returned bool asks the caller to
// send a hints frame.
func (g *wsGame) execute(line string) (bool, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false, nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		return false, nil
	case wsOpen:
		return false, g.move(args, g.state.OpenCell)
	case wsFlag:
		return false, g.move(args, g.state.FlagCell)
	case wsChord:
		return false, g.move(args, g.state.ChordCell)
	case wsForfeit:
		if err := g.snapshot(); err != nil {
			return false, err
		}
		g.state.Forfeit()
		return false, nil
	case wsUndo:
		g.popUndo()
		return false, nil
	case wsHints:
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
}

func (g *wsGame) persist(ctx context.Context) error {
	buf, err := g.state.Bytes()
	if err != nil {
		return fmt.Errorf("unable to serialize game state: %w", err)
	}
	params := repository.UpdateGameSessionParams{
		State: &buf,
		Dead:  &g.state.Dead,
		Won:   &g.state.Won,
	}
	if (g.state.Dead || g.state.Won) && !g.session.EndedAt.Valid {
		endedAt := time.Now().UTC()
		params.EndedAt = &endedAt
	}
	session, err := g.repo.UpdateGameSession(ctx, g.session.GameSessionId, params)
	if err != nil {
		return fmt.Errorf("unable to update session in db: %w", err)
	}
	g.session = session
	return nil
}

func (g *wsGame) runGameLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		sendHints := false
		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			hints, err := g.execute(strings.TrimSpace(line))
			if err != nil {
				return err
			}
			sendHints = sendHints || hints
			if g.state.Won || g.state.Dead {
				g.state.RevealPlayerGrid()
				break
			}
		}

		if err := g.persist(ctx); err != nil {
			return err
		}

		if sendHints && !(g.state.Dead || g.state.Won) {
			minesRemaining := g.state.MinesRemaining()
			probs := solver.CalculateProbabilities(
				g.state.PlayerGrid, g.state.Width, minesRemaining,
			)
			if err := conn.WriteJSON(NewHintsDTO(probs, minesRemaining)); err != nil {
				return fmt.Errorf("unable to write hints frame: %w", err)
			}
		}

		if err := conn.WriteJSON(NewGameSessionDTO(g.session, g.state)); err != nil {
			return fmt.Errorf("unable to write session frame: %w", err)
		}
	}
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	g.logger.Debug(
		"established ws connection",
		slog.Int64("gameSessionId", session.GameSessionId),
	)

	ws := &wsGame{
		repo:    g.repo,
		session: session,
		state:   state,
	}
	if err := ws.runGameLoop(r.Context(), conn); err != nil &&
		!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		g.logger.Debug("ws connection closed", "error", err)
	}
}
