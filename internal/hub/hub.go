package hub

import (
	"context"
	"crypto/rand"
	"math/big"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

// CreateRoom allocates a fresh collision-free code and starts a room
// under it. Allocation happens inside the hub loop, so two concurrent
// creates can never race on the same code.
type CreateRoom struct {
	Reply chan Created
}

type Created struct {
	Code string
	Room *room.Room
}

// EnsureRoom returns the room under Code, creating it on first
// reference.
type EnsureRoom struct {
	Code  string
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ListRooms struct {
	Reply chan []room.Info
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	grace  time.Duration
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, grace time.Duration, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		grace:  grace,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				code := h.allocateCode()
				rm := h.startRoom(code)
				msg.Reply <- Created{Code: code, Room: rm}

			case EnsureRoom:
				rm := h.rooms[msg.Code]
				if rm == nil {
					rm = h.startRoom(msg.Code)
				}
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				delete(h.rooms, msg.Code)

			case ListRooms:
				msg.Reply <- h.listRooms()

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

func (h *Hub) startRoom(code string) *room.Room {
	// onEmpty runs on the room's goroutine; hop to a fresh one so a
	// busy hub inbox can never stall a dismantling room.
	onEmpty := func(code string) {
		go func() {
			select {
			case h.inbox <- RemoveRoom{Code: code}:
			case <-h.ctx.Done():
			}
		}()
	}
	rm := room.New(h.ctx, code, room.DefaultConfig(), h.grace, onEmpty, h.log)
	h.rooms[code] = rm
	h.log.Info("room created", zap.String("code", code))
	return rm
}

// listRooms gathers per-room info, most recently updated first. Room
// loops reply promptly (no handler blocks), so gathering synchronously
// is fine.
func (h *Hub) listRooms() []room.Info {
	infos := make([]room.Info, 0, len(h.rooms))
	for _, rm := range h.rooms {
		reply := make(chan room.Info, 1)
		select {
		case rm.Inbox() <- room.GetInfo{Reply: reply}:
		case <-rm.Done():
			continue // dismantling; its RemoveRoom is already on the way
		}
		select {
		case info := <-reply:
			infos = append(infos, info)
		case <-rm.Done():
		}
	}
	slices.SortFunc(infos, func(a, b room.Info) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return infos
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

func (h *Hub) allocateCode() string {
	for {
		code := generateCode()
		if _, taken := h.rooms[code]; !taken {
			return code
		}
		h.log.Debug("room code collision, regenerating", zap.String("code", code))
	}
}

func generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			// crypto/rand only fails if the platform source is broken
			panic(err)
		}
		code[i] = codeCharset[n.Int64()]
	}
	return string(code)
}
