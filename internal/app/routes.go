package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/vancomm/buscaminas/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log, a.store, a.config.Upgrader(), createRand(),
	)

	v1 := http.NewServeMux()
	v1.HandleFunc("GET /v1/status", handlers.HandleStatus)
	v1.HandleFunc("GET /v1/records", game.Records)

	v1.HandleFunc("POST /v1/game", game.NewGame)
	v1.HandleFunc("GET /v1/game/{id}", game.Fetch)
	v1.HandleFunc("POST /v1/game/{id}/open", game.Open())
	v1.HandleFunc("POST /v1/game/{id}/flag", game.Flag())
	v1.HandleFunc("POST /v1/game/{id}/chord", game.Chord())
	v1.HandleFunc("POST /v1/game/{id}/forfeit", game.Forfeit)
	v1.HandleFunc("POST /v1/game/{id}/batch", game.Batch)
	v1.HandleFunc("POST /v1/game/{id}/claim", game.Claim)

	v1.HandleFunc("/v1/game/{id}/connect", game.ConnectWS)

	if a.config.BasePath == "" {
		a.router.Handle("/", v1)
		return
	}
	a.router.Handle(a.config.BasePath+"/", http.StripPrefix(a.config.BasePath, v1))
}
