package game

import "fmt"

type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

func (p GameParams) Validate() error {
	if p.Width < 2 || p.Height < 2 {
		return fmt.Errorf("board must be at least 2x2")
	}
	// the 3x3 neighborhood of the first click stays mine-free
	if p.MineCount < 1 || p.MineCount > p.Width*p.Height-9 {
		return fmt.Errorf(
			"mine count must be between 1 and %d for a %dx%d board",
			p.Width*p.Height-9, p.Width, p.Height,
		)
	}
	return nil
}

func (p GameParams) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}
