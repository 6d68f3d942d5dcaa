package game

import (
	"strconv"
	"strings"
)

type CellState int8

const (
	Question CellState = -3
	Unknown  CellState = -2
	Flagged  CellState = -1
	/*
	 * 0 to 8 mean the square is open and carries its surrounding
	 * mine count. Values from 64 up are only ever written when the
	 * game is over and the full grid is revealed to the player.
	 */
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
)

func (s CellState) String() string {
	switch {
	case s == Question:
		return "?"
	case s == Unknown:
		return " "
	case s == Flagged:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is the player's knowledge of the board, row-major. It never
// contains ground truth about unopened squares, which makes it safe to
// hand to the probability engine as-is.
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			b.WriteString(g[y*width+x].String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseGrid lets tests lay out board fixtures visually: digits are open
// squares, "*" a flag, anything else ("." by convention) an unknown
// square. Fields are whitespace-separated, one line per row.
func ParseGrid(s string) (Grid, int) {
	var (
		grid  Grid
		width int
	)
	for _, line := range strings.Split(strings.Trim(s, "\n"), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		for _, f := range fields {
			switch {
			case f == "?":
				grid = append(grid, Question)
			case f == "*":
				grid = append(grid, Flagged)
			case f >= "0" && f <= "8" && len(f) == 1:
				grid = append(grid, CellState(f[0]-'0'))
			default:
				grid = append(grid, Unknown)
			}
		}
		width = len(fields)
	}
	return grid, width
}
