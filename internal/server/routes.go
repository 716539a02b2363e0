package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/pairplay/memomatch/internal/room"
)

func addRoutes(r chi.Router, logger *slog.Logger, coord *room.Coordinator, db *sql.DB, rdb *redis.Client, createRatePerMin int) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Memomatch API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))

	r.Get("/api/vocabulary", handleVocabulary(coord))

	r.Route("/api/rooms", func(r chi.Router) {
		r.With(createRateLimiter(createRatePerMin)).Post("/", handleCreateRoom(coord))
		r.Get("/{code}", handleGetRoom(coord))
		r.Post("/{code}/join", handleJoinRoom(coord))
		r.Post("/{code}/answer", handleSubmitAnswer(coord))
		r.Post("/{code}/leave", handleLeaveRoom(coord))
		r.Get("/{code}/events", handleEvents(coord))
		r.Get("/{code}/ws", handleWS(logger, coord))
	})
}
