package room

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ricpacsoe/ric-pac-soe-backend/internal/board"
	"github.com/ricpacsoe/ric-pac-soe-backend/internal/rules"
)

const (
	MaxPlayers  = 4
	chatCap     = 50
	inboxBuffer = 64
)

// seatColors is the display palette, indexed by seat.
var seatColors = [MaxPlayers]string{"#e63946", "#457b9d", "#2a9d8f", "#e9c46a"}

type player struct {
	handle string // "" while disconnected
	name   string
	score  int
	stock  map[board.Symbol]int
	last   board.Symbol
	outbox chan Snapshot
}

type spectator struct {
	handle string
	name   string
	outbox chan Snapshot
}

// Room is one independent game. All mutations flow through the inbox
// and are applied by the single loop goroutine, which keeps the
// turn-based invariants without locking.
type Room struct {
	inbox      chan Msg
	code       string
	cfg        Config
	board      board.Board
	players    []*player
	spectators []*spectator
	turn       int
	started    bool
	gameOver   bool
	message    string
	chat       []ChatEntry
	updated    time.Time

	grace   time.Duration
	onEmpty func(code string)
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts a room actor. onEmpty is invoked (once, from the loop
// goroutine) when the last player seat goes away; it must not block.
func New(parent context.Context, code string, cfg Config, grace time.Duration, onEmpty func(code string), log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:   make(chan Msg, inboxBuffer),
		code:    code,
		cfg:     cfg.clamped(),
		board:   board.New(),
		updated: time.Now(),
		grace:   grace,
		onEmpty: onEmpty,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has dismantled; senders must select on
// it so a dead room's inbox can never wedge them.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				if r.handleLeave(msg.Handle) {
					return
				}
			case Disconnect:
				r.handleDisconnect(msg.Handle)
			case vacate:
				if r.handleVacate(msg.name) {
					return
				}
			case NewGame:
				r.handleNewGame(msg)
			case PlacePiece:
				r.handlePlace(msg)
			case MoveBlocker:
				r.handleMoveBlocker(msg)
			case Chat:
				r.handleChat(msg)
			case GetState:
				msg.Reply <- r.snapshot(nil)
			case GetInfo:
				msg.Reply <- Info{
					Code:       r.code,
					Players:    len(r.players),
					Spectators: len(r.spectators),
					Started:    r.started,
					UpdatedAt:  r.updated,
				}
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for _, p := range r.players {
		if p.outbox != nil {
			close(p.outbox)
			p.outbox = nil
		}
	}
	for _, s := range r.spectators {
		close(s.outbox)
	}
	r.players = nil
	r.spectators = nil
	r.cancel()
}

func (r *Room) handleJoin(msg Join) {
	// reclaim a disconnected seat held under the same name
	if !msg.Spectator {
		for i, p := range r.players {
			if p.handle == "" && p.name == msg.Name {
				p.handle = msg.Handle
				p.outbox = msg.Outbox
				msg.Reply <- JoinResult{Role: "player", Seat: i}
				r.touch()
				r.broadcast(nil)
				return
			}
		}
	}

	if !msg.Spectator && !r.started && len(r.players) < MaxPlayers {
		p := &player{
			handle: msg.Handle,
			name:   msg.Name,
			stock:  freshStock(r.cfg),
			outbox: msg.Outbox,
		}
		r.players = append(r.players, p)
		msg.Reply <- JoinResult{Role: "player", Seat: len(r.players) - 1}
	} else {
		r.spectators = append(r.spectators, &spectator{
			handle: msg.Handle,
			name:   msg.Name,
			outbox: msg.Outbox,
		})
		msg.Reply <- JoinResult{Role: "spectator", Seat: -1}
	}
	r.touch()
	r.broadcast(nil)
}

// handleLeave reports whether the room dismantled itself.
func (r *Room) handleLeave(handle string) bool {
	for i, p := range r.players {
		if p.handle == handle {
			if p.outbox != nil {
				close(p.outbox)
				p.outbox = nil
			}
			r.removeSeat(i)
			if len(r.players) == 0 {
				r.dismantle()
				return true
			}
			r.touch()
			r.broadcast(nil)
			return false
		}
	}
	r.removeSpectator(handle)
	return false
}

func (r *Room) handleDisconnect(handle string) {
	for _, p := range r.players {
		if p.handle == handle {
			p.handle = ""
			if p.outbox != nil {
				close(p.outbox)
				p.outbox = nil
			}
			name := p.name
			time.AfterFunc(r.grace, func() {
				select {
				case r.inbox <- vacate{name: name}:
				case <-r.ctx.Done():
				}
			})
			r.touch()
			r.broadcast(nil)
			return
		}
	}
	r.removeSpectator(handle)
}

func (r *Room) handleVacate(name string) bool {
	for i, p := range r.players {
		if p.name == name && p.handle == "" {
			r.removeSeat(i)
			if len(r.players) == 0 {
				r.dismantle()
				return true
			}
			r.touch()
			r.broadcast(nil)
			return false
		}
	}
	return false
}

// removeSeat frees seat i: the leaver's pieces come off the board and
// every higher seat index (roster, cell owners, turn cursor) shifts
// down one so the owner indices stay aligned with the roster.
func (r *Room) removeSeat(i int) {
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			cell := r.board[row][col]
			if cell.Kind != board.KindPiece {
				continue
			}
			if cell.Owner == i {
				r.board[row][col] = board.Cell{Kind: board.KindEmpty}
			} else if cell.Owner > i {
				r.board[row][col].Owner--
			}
		}
	}
	r.players = append(r.players[:i], r.players[i+1:]...)
	if r.turn > i {
		r.turn--
	}
	if len(r.players) > 0 && r.turn >= len(r.players) {
		r.turn = 0
	}
}

func (r *Room) removeSpectator(handle string) {
	for i, s := range r.spectators {
		if s.handle == handle {
			close(s.outbox)
			r.spectators = append(r.spectators[:i], r.spectators[i+1:]...)
			return
		}
	}
}

func (r *Room) dismantle() {
	r.log.Info("room empty, dismantling", zap.String("code", r.code))
	if r.onEmpty != nil {
		r.onEmpty(r.code)
	}
	r.shutdown()
}

func (r *Room) handleNewGame(msg NewGame) {
	if !r.isMember(msg.Handle) || len(r.players) == 0 {
		return
	}
	if msg.Settings != nil {
		r.cfg = msg.Settings.clamped()
	}
	r.board = board.New()
	r.board.PlaceRandomBlockers(r.cfg.BlockerCount)
	for _, p := range r.players {
		p.score = 0
		p.stock = freshStock(r.cfg)
		p.last = ""
	}
	r.turn = 0
	r.started = true
	r.gameOver = false
	r.message = ""
	r.log.Info("new game", zap.String("code", r.code), zap.Int("players", len(r.players)))
	r.touch()
	r.broadcast(nil)
}

func (r *Room) handlePlace(msg PlacePiece) {
	if !r.started || r.gameOver {
		return
	}
	seat := r.seatOf(msg.Handle)
	if seat < 0 || seat != r.turn {
		return
	}
	if _, ok := board.ParseSymbol(string(msg.Symbol)); !ok {
		return
	}
	if !board.InBounds(msg.Row, msg.Col) {
		return
	}
	if r.board[msg.Row][msg.Col].Kind != board.KindEmpty {
		return
	}
	p := r.players[seat]
	if p.stock[msg.Symbol] <= 0 {
		return
	}

	p.stock[msg.Symbol]--
	p.last = msg.Symbol
	r.board[msg.Row][msg.Col] = board.Cell{Kind: board.KindPiece, Owner: seat, Symbol: msg.Symbol}

	eff := rules.Evaluate(&r.board, msg.Row, msg.Col)
	for s, pts := range eff.Points {
		if s >= 0 && s < len(r.players) {
			r.players[s].score += pts
		}
	}

	switch {
	case p.score >= r.cfg.PointsToWin:
		r.endGame(fmt.Sprintf("%s wins!", p.name))
	case r.stockExhausted():
		r.endGame(r.maxScoreResult())
	case r.board.IsFull():
		r.endGame(r.maxScoreResult())
	default:
		r.turn = (r.turn + 1) % len(r.players)
	}
	r.touch()
	r.broadcast(eff.Highlights)
}

func (r *Room) handleMoveBlocker(msg MoveBlocker) {
	if !r.started || r.gameOver {
		return
	}
	seat := r.seatOf(msg.Handle)
	if seat < 0 || seat != r.turn {
		return
	}
	if !board.InBounds(msg.FromRow, msg.FromCol) || !board.InBounds(msg.ToRow, msg.ToCol) {
		return
	}
	if r.board[msg.FromRow][msg.FromCol].Kind != board.KindBlocker {
		return
	}
	if r.board[msg.ToRow][msg.ToCol].Kind != board.KindEmpty {
		return
	}
	if !oneStep(msg.FromRow, msg.FromCol, msg.ToRow, msg.ToCol) {
		return
	}
	r.board[msg.FromRow][msg.FromCol] = board.Cell{Kind: board.KindEmpty}
	r.board[msg.ToRow][msg.ToCol] = board.Cell{Kind: board.KindBlocker}
	r.turn = (r.turn + 1) % len(r.players)
	r.touch()
	r.broadcast(nil)
}

// oneStep is Chebyshev distance exactly 1: any of the 8 neighbours.
func oneStep(fr, fc, tr, tc int) bool {
	dr, dc := abs(tr-fr), abs(tc-fc)
	if dr == 0 && dc == 0 {
		return false
	}
	return dr <= 1 && dc <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (r *Room) handleChat(msg Chat) {
	name, ok := r.memberName(msg.Handle)
	if !ok || strings.TrimSpace(msg.Text) == "" {
		return
	}
	r.chat = append(r.chat, ChatEntry{From: name, Text: msg.Text, At: time.Now()})
	if len(r.chat) > chatCap {
		r.chat = r.chat[len(r.chat)-chatCap:]
	}
	r.touch()
	r.broadcast(nil)
}

func (r *Room) endGame(message string) {
	r.gameOver = true
	r.message = message
	r.log.Info("game over", zap.String("code", r.code), zap.String("result", message))
}

func (r *Room) stockExhausted() bool {
	for _, p := range r.players {
		total := 0
		for _, n := range p.stock {
			total += n
		}
		if total == 0 {
			return true
		}
	}
	return false
}

// maxScoreResult names the player(s) holding the maximum score.
func (r *Room) maxScoreResult() string {
	max := 0
	for _, p := range r.players {
		if p.score > max {
			max = p.score
		}
	}
	var names []string
	for _, p := range r.players {
		if p.score == max {
			names = append(names, p.name)
		}
	}
	if len(names) == 1 {
		return fmt.Sprintf("%s wins!", names[0])
	}
	if len(names) == 2 {
		return fmt.Sprintf("Tie between %s and %s", names[0], names[1])
	}
	return fmt.Sprintf("Tie between %s and %s",
		strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
}

func (r *Room) seatOf(handle string) int {
	if handle == "" {
		return -1
	}
	for i, p := range r.players {
		if p.handle == handle {
			return i
		}
	}
	return -1
}

func (r *Room) isMember(handle string) bool {
	_, ok := r.memberName(handle)
	return ok
}

func (r *Room) memberName(handle string) (string, bool) {
	if handle == "" {
		return "", false
	}
	for _, p := range r.players {
		if p.handle == handle {
			return p.name, true
		}
	}
	for _, s := range r.spectators {
		if s.handle == handle {
			return s.name, true
		}
	}
	return "", false
}

func (r *Room) touch() { r.updated = time.Now() }

// broadcast sends one snapshot to every connected member. Highlights
// ride this snapshot only; they are never stored, so a later state
// request sees none. Members too slow to drain their outbox are dropped
// the way a disconnect would drop them.
func (r *Room) broadcast(highlights []rules.Highlight) {
	snap := r.snapshot(highlights)
	for _, p := range r.players {
		if p.outbox == nil {
			continue
		}
		select {
		case p.outbox <- snap:
		default:
			close(p.outbox)
			p.outbox = nil
			p.handle = ""
			r.log.Warn("dropping slow player", zap.String("code", r.code), zap.String("name", p.name))
			name := p.name
			time.AfterFunc(r.grace, func() {
				select {
				case r.inbox <- vacate{name: name}:
				case <-r.ctx.Done():
				}
			})
		}
	}
	for i := len(r.spectators) - 1; i >= 0; i-- {
		s := r.spectators[i]
		select {
		case s.outbox <- snap:
		default:
			close(s.outbox)
			r.spectators = append(r.spectators[:i], r.spectators[i+1:]...)
		}
	}
}

func freshStock(cfg Config) map[board.Symbol]int {
	stock := make(map[board.Symbol]int, len(board.Symbols))
	for _, s := range board.Symbols {
		stock[s] = cfg.TilesPerSymbol
	}
	return stock
}
