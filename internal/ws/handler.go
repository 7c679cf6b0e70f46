package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/board"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/config"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/hub"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/room"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler bridges one websocket to one room: the reader loop feeds the
// room inbox, a writer goroutine drains the snapshot outbox. Rule
// violations produce no reply at all; only transport-level decode
// failures are answered with an error envelope.
func Handler(h *hub.Hub, cfg config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "guest"
		}
		spectate := r.URL.Query().Get("spectate") == "1"

		// a room springs into being on first reference to its code
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Reply: reply}
		rm := <-reply

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: cfg.AllowedOrigins,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		handle := uuid.NewString()
		out := make(chan room.Snapshot, 8)
		joined := make(chan room.JoinResult, 1)
		select {
		case rm.Inbox() <- room.Join{Handle: handle, Name: name, Spectator: spectate, Outbox: out, Reply: joined}:
		case <-rm.Done():
			return
		}
		var res room.JoinResult
		select {
		case res = <-joined:
		case <-rm.Done():
			return
		}
		defer send(rm, room.Disconnect{Handle: handle})

		log.Debug("client joined",
			zap.String("code", code), zap.String("name", name), zap.String("role", res.Role))

		writeMsg(r.Context(), conn, types.ServerMessage{Type: "joined", Role: res.Role, Seat: &res.Seat})

		// writer goroutine: the room closes out when this client is
		// dropped or the room dismantles
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				s := snap
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				payload, _ := json.Marshal(types.ServerMessage{Type: "state", State: &s})
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// clean close or network failure: either way the seat
				// enters its reconnect grace period via the deferred
				// Disconnect
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeMsg(r.Context(), conn, types.ServerMessage{Type: "error", Error: "bad json"})
				continue
			}

			switch cm.Type {
			case "place":
				sym, ok := board.ParseSymbol(cm.Symbol)
				if !ok {
					continue // silent, same as any illegal action
				}
				send(rm, room.PlacePiece{Handle: handle, Row: cm.Row, Col: cm.Col, Symbol: sym})

			case "move_blocker":
				if cm.From == nil || cm.To == nil {
					continue
				}
				send(rm, room.MoveBlocker{
					Handle:  handle,
					FromRow: cm.From.Row, FromCol: cm.From.Col,
					ToRow: cm.To.Row, ToCol: cm.To.Col,
				})

			case "new_game":
				send(rm, room.NewGame{Handle: handle, Settings: cm.Settings})

			case "chat":
				send(rm, room.Chat{Handle: handle, Text: cm.Text})

			case "state":
				stateReply := make(chan room.Snapshot, 1)
				if !send(rm, room.GetState{Reply: stateReply}) {
					return
				}
				select {
				case snap := <-stateReply:
					writeMsg(r.Context(), conn, types.ServerMessage{Type: "state", State: &snap})
				case <-rm.Done():
					return
				}

			case "leave":
				send(rm, room.Leave{Handle: handle})
				return

			default:
				writeMsg(r.Context(), conn, types.ServerMessage{Type: "error", Error: "unknown type"})
			}
		}
	}
}

// send delivers a message unless the room has already dismantled.
func send(rm *room.Room, msg room.Msg) bool {
	select {
	case rm.Inbox() <- msg:
		return true
	case <-rm.Done():
		return false
	}
}

func writeMsg(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) {
	payload, _ := json.Marshal(msg)
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
