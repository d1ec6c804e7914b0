package net

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
	"PixelBoard/internal/tiles"
	"PixelBoard/internal/tool"
)

// Editor is what the bridge drives on behalf of the parent page.
type Editor interface {
	Entries() []state.Entry
	SetColor(c palette.Color) error
	SetTool(t tool.Tool)
	LoadTile(ctx context.Context, req tiles.Request) (tiles.Result, error)
	PanToPixel(p geom.Point)
	Close()
}

const (
	writeWait = 5 * time.Second
	// sendQueue holds a few full bucket fills of pixel updates.
	sendQueue = 4096
)

// ErrSlowPeer is returned when a peer's send queue is full. The peer is
// disconnected.
var ErrSlowPeer = errors.New("peer send queue full")

var errPeerClosed = errors.New("peer closed")

// Peer is one connected parent page. Messages are queued and written by
// the peer's own writer goroutine, so Send never blocks the caller.
type Peer struct {
	conn      *websocket.Conn
	send      chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(conn *websocket.Conn) *Peer {
	return &Peer{
		conn: conn,
		send: make(chan Message, sendQueue),
		done: make(chan struct{}),
	}
}

// Send queues msg for the peer. A peer that cannot keep up is closed.
func (p *Peer) Send(msg Message) error {
	select {
	case <-p.done:
		return errPeerClosed
	default:
	}
	select {
	case p.send <- msg:
		return nil
	default:
		log.Printf("[BRIDGE] Dropping slow peer %s", p.conn.RemoteAddr())
		p.close()
		return ErrSlowPeer
	}
}

// writeLoop drains the send queue until the peer closes.
func (p *Peer) writeLoop() {
	for {
		select {
		case <-p.done:
			return
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				log.Printf("[BRIDGE] Write to %s failed: %v", p.conn.RemoteAddr(), err)
				p.close()
				return
			}
		}
	}
}

// close stops the writer and closes the connection, which also ends the
// read loop.
func (p *Peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

func (p *Peer) sendError(err error) {
	msg, _ := NewMessage(TypeError, ErrorPayload{Message: err.Error()})
	if werr := p.Send(msg); werr != nil {
		log.Printf("[BRIDGE] Failed to report error to %s: %v", p.conn.RemoteAddr(), werr)
	}
}

// Bridge is the websocket endpoint the browser extension talks to. It is
// an http.Handler; every connection is a peer that receives editor
// events and may send commands.
type Bridge struct {
	editor   Editor
	session  *state.Session
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	peers map[*Peer]struct{}
	mu    sync.RWMutex
}

// NewBridge creates a bridge driving editor.
func NewBridge(editor Editor, session *state.Session) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		editor:  editor,
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The extension connects from the map site's origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
		peers:  make(map[*Peer]struct{}),
	}
}

func (b *Bridge) add(p *Peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peers[p] = struct{}{}
	log.Printf("[BRIDGE] Peer connected from %s", p.conn.RemoteAddr())
}

func (b *Bridge) remove(p *Peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.peers, p)
	log.Printf("[BRIDGE] Peer %s disconnected", p.conn.RemoteAddr())
}

// PeerCount returns the number of connected peers.
func (b *Bridge) PeerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.peers)
}

// Broadcast sends a message to every peer.
func (b *Bridge) Broadcast(msgType string, payload any) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("[BRIDGE] %v", err)
		return
	}

	b.mu.RLock()
	peers := make([]*Peer, 0, len(b.peers))
	for p := range b.peers {
		peers = append(peers, p)
	}
	b.mu.RUnlock()

	for _, p := range peers {
		if err := p.Send(msg); err != nil && !errors.Is(err, errPeerClosed) {
			log.Printf("[BRIDGE] Error sending to %s: %v", p.conn.RemoteAddr(), err)
		}
	}
}

// PublishChange forwards a user pixel change as editor:pixel:update. It
// runs on the drawing goroutine and only queues the message.
func (b *Bridge) PublishChange(ch state.Change) {
	op, ok := state.OpFromChange(ch)
	if !ok || op.Type != state.OpSetPixel {
		return
	}
	op = b.session.Stamp(op)
	b.Broadcast(TypePixelUpdate, pixelUpdate(op))
}

func pixelUpdate(op state.Op) PixelUpdatePayload {
	tileX, x := floorDiv(op.X, tiles.Size)
	tileY, y := floorDiv(op.Y, tiles.Size)
	return PixelUpdatePayload{
		X:     x,
		Y:     y,
		Color: op.Color.String(),
		TileX: tileX,
		TileY: tileY,
		Seq:   op.Seq,
	}
}

// floorDiv returns the floored quotient and the non-negative remainder.
func floorDiv(a, b int) (q, r int) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// NotifySaved tells peers the user grid was persisted.
func (b *Bridge) NotifySaved(pixels int) {
	b.Broadcast(TypeSave, SavePayload{PixelCount: pixels})
}

// Close disconnects every peer and cancels pending tile loads.
func (b *Bridge) Close() {
	b.cancel()
	b.mu.Lock()
	defer b.mu.Unlock()
	for p := range b.peers {
		p.close()
	}
}

// ServeHTTP upgrades the request and runs the peer's read loop.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[BRIDGE] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	peer := newPeer(conn)
	b.add(peer)
	defer func() {
		b.remove(peer)
		peer.close()
	}()
	go peer.writeLoop()

	ready, _ := NewMessage(TypeReady, ReadyPayload{Session: b.session.ID()})
	if err := peer.Send(ready); err != nil {
		log.Printf("[BRIDGE] Failed to greet %s: %v", r.RemoteAddr, err)
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[BRIDGE] Read from %s ended: %v", r.RemoteAddr, err)
			}
			return
		}
		log.Printf("[BRIDGE] Received '%s' from %s", msg.Type, r.RemoteAddr)
		b.handle(peer, msg)
	}
}

// ErrUnknownColor is returned by editors for colours outside the palette.
var ErrUnknownColor = errors.New("color is not in the palette")

func (b *Bridge) handle(peer *Peer, msg Message) {
	switch msg.Type {
	case TypeLoadTile:
		var p LoadTilePayload
		if err := msg.Decode(&p); err != nil {
			peer.sendError(err)
			return
		}
		if p.PixelX != nil && p.PixelY != nil {
			b.editor.PanToPixel(geom.Pt(*p.PixelX, *p.PixelY))
		}
		req := tiles.Request{Source: p.TileURL, TileX: p.TileX, TileY: p.TileY}
		go b.loadTile(peer, req)

	case TypeSetColor:
		var p SetColorPayload
		if err := msg.Decode(&p); err != nil {
			peer.sendError(err)
			return
		}
		c, ok := palette.ParseRGB(p.Color)
		if !ok {
			peer.sendError(errors.New("invalid color " + p.Color))
			return
		}
		if err := b.editor.SetColor(c); err != nil {
			peer.sendError(err)
		}

	case TypeSetTool:
		var p SetToolPayload
		if err := msg.Decode(&p); err != nil {
			peer.sendError(err)
			return
		}
		t, err := tool.Parse(p.Tool)
		if err != nil {
			peer.sendError(err)
			return
		}
		b.editor.SetTool(t)

	case TypeGetGrid:
		entries := b.editor.Entries()
		grid := GridPayload{Entries: make([][2]string, len(entries))}
		for i, e := range entries {
			grid.Entries[i] = [2]string{e.Key, e.Color}
		}
		reply, err := NewMessage(TypeGrid, grid)
		if err != nil {
			peer.sendError(err)
			return
		}
		if err := peer.Send(reply); err != nil {
			log.Printf("[BRIDGE] Failed to send grid: %v", err)
		}

	case TypeClose:
		b.editor.Close()

	default:
		log.Printf("[BRIDGE] Ignoring unknown message type %q", msg.Type)
	}
}

func (b *Bridge) loadTile(peer *Peer, req tiles.Request) {
	res, err := b.editor.LoadTile(b.ctx, req)
	if err != nil {
		log.Printf("[BRIDGE] Tile load failed: %v", err)
		peer.sendError(err)
		return
	}
	b.Broadcast(TypeTileChanged, TileChangedPayload{TileX: req.TileX, TileY: req.TileY, Pixels: res.Pixels})
}
