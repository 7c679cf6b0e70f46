package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/room"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(context.Background(), time.Second, zap.NewNop())
	t.Cleanup(func() {
		select {
		case h.inbox <- ShutdownHub{}:
		case <-h.ctx.Done():
		}
	})
	return h
}

func getRoom(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("timed out getting room")
		return nil
	}
}

func TestCreateRoomAllocatesUniqueCodes(t *testing.T) {
	h := testHub(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		reply := make(chan Created, 1)
		h.Inbox() <- CreateRoom{Reply: reply}
		created := <-reply
		require.Len(t, created.Code, codeLength)
		require.NotNil(t, created.Room)
		assert.False(t, seen[created.Code], "duplicate code %s", created.Code)
		seen[created.Code] = true
	}
}

func TestCreateThenGetSamePointer(t *testing.T) {
	h := testHub(t)
	reply := make(chan Created, 1)
	h.Inbox() <- CreateRoom{Reply: reply}
	created := <-reply

	rm := getRoom(t, h, created.Code)
	assert.Same(t, created.Room, rm)
}

func TestEnsureRoomCreatesOnFirstReference(t *testing.T) {
	h := testHub(t)
	assert.Nil(t, getRoom(t, h, "NEW001"))

	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Code: "NEW001", Reply: reply}
	rm1 := <-reply
	require.NotNil(t, rm1)

	h.Inbox() <- EnsureRoom{Code: "NEW001", Reply: reply}
	rm2 := <-reply
	assert.Same(t, rm1, rm2)
}

func TestRemoveRoomForgetsTheCode(t *testing.T) {
	h := testHub(t)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Code: "DROP01", Reply: reply}
	require.NotNil(t, <-reply)

	h.Inbox() <- RemoveRoom{Code: "DROP01"}
	assert.Nil(t, getRoom(t, h, "DROP01"))
}

func TestListRoomsSortedByFreshness(t *testing.T) {
	h := testHub(t)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Code: "OLD001", Reply: reply}
	<-reply
	time.Sleep(10 * time.Millisecond)
	h.Inbox() <- EnsureRoom{Code: "FRESH1", Reply: reply}
	<-reply

	listReply := make(chan []room.Info, 1)
	h.Inbox() <- ListRooms{Reply: listReply}
	infos := <-listReply

	require.Len(t, infos, 2)
	assert.Equal(t, "FRESH1", infos[0].Code)
	assert.Equal(t, "OLD001", infos[1].Code)
	assert.False(t, infos[0].Started)
	assert.Zero(t, infos[0].Players)
}

func TestEmptyRoomDismantlesItselfOutOfTheHub(t *testing.T) {
	h := testHub(t)
	reply := make(chan *room.Room, 1)
	h.Inbox() <- EnsureRoom{Code: "BYE001", Reply: reply}
	rm := <-reply

	out := make(chan room.Snapshot, 8)
	joined := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{Handle: "h0", Name: "alice", Outbox: out, Reply: joined}
	<-joined
	rm.Inbox() <- room.Leave{Handle: "h0"}

	assert.Eventually(t, func() bool {
		return getRoom(t, h, "BYE001") == nil
	}, time.Second, 10*time.Millisecond)
}
