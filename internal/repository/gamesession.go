package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sweeplab/minesweeper-server/internal/game"
)

// GameSession mirrors the game_session row. The state column is the
// gob-encoded game.GameState blob; the scalar columns duplicate just
// enough of it to filter and rank sessions in SQL.
type GameSession struct {
	GameSessionId int64
	PlayerId      *int64
	Width         int
	Height        int
	MineCount     int
	Dead          bool
	Won           bool
	State         []byte
	StartedAt     pgtype.Timestamptz
	EndedAt       pgtype.Timestamptz
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type CreateGameSessionParams struct {
	PlayerId *int64
}

func (q Queries) CreateGameSession(
	ctx context.Context, state *game.GameState, params CreateGameSessionParams,
) (*GameSession, error) {
	buf, err := state.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"width":      state.Width,
		"height":     state.Height,
		"mine_count": state.MineCount,
		"dead":       state.Dead,
		"won":        state.Won,
		"state":      buf,
		"player_id":  nil,
	}
	if params.PlayerId != nil {
		args["player_id"] = *params.PlayerId
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, width, height, mine_count, dead, won, state
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @dead, @won, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
}

func (q Queries) FetchGameSession(
	ctx context.Context, gameSessionId int64,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Dead    *bool
	Won     *bool
	EndedAt *time.Time
	State   *[]byte
}

func (p UpdateGameSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()"}
	args := pgx.NamedArgs{}

	if p.Dead != nil {
		parts = append(parts, "dead = @dead")
		args["dead"] = *p.Dead
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}
