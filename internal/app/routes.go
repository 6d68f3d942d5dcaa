package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/sweeplab/minesweeper-server/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.logger, a.db, a.cookies, a.jwt)
	game := handlers.NewGameHandler(a.logger, a.db, a.ws, createRand())
	highscores := handlers.NewHighscores(a.logger, a.db)

	a.router.HandleFunc("GET /status", auth.Status)
	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/move", game.MakeAMove)
	a.router.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("GET /game/{id}/hints", game.Hints)
	a.router.HandleFunc("/game/{id}/connect", game.ConnectWS)

	a.router.HandleFunc("GET /highscores", highscores.Get)
}
