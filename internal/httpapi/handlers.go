package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/hub"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/room"
)

// CreateRoom allocates a fresh room and returns its join code. The hub
// owns code allocation, so concurrent creates cannot collide.
func CreateRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan hub.Created, 1)
		h.Inbox() <- hub.CreateRoom{Reply: reply}
		created := <-reply

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: created.Code})
	}
}

// ListRooms returns every live room, most recently updated first.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []room.Info, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		infos := <-reply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(infos)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
