package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/config"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/hub"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, cfg config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h))
	r.Get("/rooms", ListRooms(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, cfg, log))
	return r
}
