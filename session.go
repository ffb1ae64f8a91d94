/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"crypto/rand"
	"sync"
	"time"
)

const (
	sessionIDLength  = 8
	sessionIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type actionKind int

const (
	actionSnapshot actionKind = iota
	actionAdd
	actionRemove
	actionSearch
)

func (k actionKind) String() string {
	switch k {
	case actionAdd:
		return "add"
	case actionRemove:
		return "remove"
	case actionSearch:
		return "search"
	default:
		return "snapshot"
	}
}

// request is one event for a Hub. HTTP callers set reply and wait on it;
// websocket clients fire and forget.
type request struct {
	kind     actionKind
	playerID int
	query    string
	client   *Client
	reply    chan snapshot
}

// snapshot is the watchlist state right after a request ran.
type snapshot struct {
	players []Player
	watched map[int]bool
	changed bool
}

// Hub is a single watchlist session. Its run loop is the only goroutine
// that touches the watchlist or the client set, and it finishes each event
// before taking the next.
type Hub struct {
	id        string
	path      string
	catalog   *Catalog
	renderer  *Renderer
	watchlist *Watchlist
	clients   map[*Client]bool

	register chan *Client
	unreg    chan *Client
	requests chan request
	done     chan struct{}
	stop     sync.Once

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time
	connected  int
}

func newHub(id, path string, catalog *Catalog, renderer *Renderer) *Hub {
	now := time.Now()

	return &Hub{
		id:         id,
		path:       path,
		catalog:    catalog,
		renderer:   renderer,
		watchlist:  newWatchlist(catalog),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		requests:   make(chan request),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.setConnected()

			return

		case c := <-h.register:
			h.clients[c] = true
			h.touch()
			h.setConnected()

			h.sendWatchlist(cfg, c)
			h.sendCatalog(cfg, c)

		case c := <-h.unreg:
			h.drop(c)
			h.touch()

		case req := <-h.requests:
			h.touch()
			h.handle(cfg, req)
		}
	}
}

func (h *Hub) handle(cfg *Config, req request) {
	changed := false

	switch req.kind {
	case actionAdd:
		changed = h.watchlist.Add(req.playerID)
	case actionRemove:
		changed = h.watchlist.Remove(req.playerID)
	case actionSearch:
		if req.client != nil && h.clients[req.client] {
			req.client.query = req.query
			h.sendCatalog(cfg, req.client)
		}
	}

	if changed {
		logf(cfg, "SESSIONS: %s %s player %d (%d watched)", h.id, req.kind, req.playerID, h.watchlist.Len())

		for c := range h.clients {
			h.sendWatchlist(cfg, c)
			h.sendCatalog(cfg, c)
		}
	}

	if req.reply != nil {
		req.reply <- snapshot{
			players: h.watchlist.List(),
			watched: h.watchlist.IDs(),
			changed: changed,
		}
	}
}

func (h *Hub) sendCatalog(cfg *Config, c *Client) {
	players := filterPlayers(h.catalog.Players(), c.query)

	html, err := h.renderer.catalogString(newCatalogView(h.path, c.query, players, h.watchlist.IDs()))
	if err != nil {
		logf(cfg, "ERROR: rendering catalog for %s: %v", h.id, err)

		return
	}

	h.send(c, FragmentMessage{Type: "catalog", HTML: html, Count: len(players)})
}

func (h *Hub) sendWatchlist(cfg *Config, c *Client) {
	players := h.watchlist.List()

	html, err := h.renderer.watchlistString(newWatchlistView(h.path, c.query, players))
	if err != nil {
		logf(cfg, "ERROR: rendering watchlist for %s: %v", h.id, err)

		return
	}

	h.send(c, FragmentMessage{Type: "watchlist", HTML: html, Count: len(players)})
}

// send queues msg for c, dropping the client if its buffer is full.
func (h *Hub) send(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)
	h.setConnected()
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) setConnected() {
	h.mu.Lock()
	h.connected = len(h.clients)
	h.mu.Unlock()
}

// idleSince reports when the hub last saw activity, and whether any
// clients are still connected.
func (h *Hub) idleSince() (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive, h.connected > 0
}

func (h *Hub) closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// submit runs req on the hub's loop and waits for the resulting state.
func (h *Hub) submit(ctx context.Context, req request) (snapshot, error) {
	if h.closed() {
		return snapshot{}, errSessionClosed
	}

	req.reply = make(chan snapshot, 1)

	select {
	case h.requests <- req:
	case <-h.done:
		return snapshot{}, errSessionClosed
	case <-ctx.Done():
		return snapshot{}, ctx.Err()
	}

	select {
	case s := <-req.reply:
		return s, nil
	case <-h.done:
		select {
		case s := <-req.reply:
			return s, nil
		default:
			return snapshot{}, errSessionClosed
		}
	case <-ctx.Done():
		return snapshot{}, ctx.Err()
	}
}

// post hands a websocket event to the loop without waiting for it to run.
func (h *Hub) post(req request) bool {
	if h.closed() {
		return false
	}

	select {
	case h.requests <- req:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) join(c *Client) bool {
	if h.closed() {
		return false
	}

	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.done:
	}
}

func (h *Hub) close() {
	h.stop.Do(func() {
		close(h.done)
	})
}

// SessionManager holds the live hubs keyed by session ID, so each
// $path/$id is its own isolated watchlist.
type SessionManager struct {
	cfg      *Config
	catalog  *Catalog
	renderer *Renderer
	path     string

	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
}

func newSessionManager(ctx context.Context, cfg *Config, path string, catalog *Catalog, renderer *Renderer) *SessionManager {
	sm := &SessionManager{
		cfg:         cfg,
		catalog:     catalog,
		renderer:    renderer,
		path:        path,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
	}

	if sm.idleTimeout > 0 {
		go sm.reaperLoop(ctx)
	}

	return sm
}

func validSessionID(id string) bool {
	if len(id) != sessionIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}

	return true
}

// randomSessionID draws from crypto/rand, rejecting bytes that would bias
// the alphabet.
func randomSessionID() string {
	const max = byte(255 - (256 % len(sessionIDLetters)))

	out := make([]byte, 0, sessionIDLength)
	buf := make([]byte, sessionIDLength*2)

	for len(out) < sessionIDLength {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, sessionIDLetters[int(b)%len(sessionIDLetters)])
				if len(out) == sessionIDLength {
					break
				}
			}
		}
	}

	return string(out)
}

// newSession starts a hub under a fresh ID that collides with no live session.
func (sm *SessionManager) newSession() *Hub {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for {
		id := randomSessionID()
		if _, exists := sm.hubs[id]; exists {
			continue
		}

		return sm.startLocked(id)
	}
}

// getHub returns the hub for id, starting one if needed. Malformed IDs are
// rejected.
func (sm *SessionManager) getHub(id string) (*Hub, bool) {
	if !validSessionID(id) {
		return nil, false
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if hub, ok := sm.hubs[id]; ok {
		return hub, true
	}

	return sm.startLocked(id), true
}

// lookup returns a live hub without starting one.
func (sm *SessionManager) lookup(id string) (*Hub, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	hub, ok := sm.hubs[id]

	return hub, ok
}

func (sm *SessionManager) startLocked(id string) *Hub {
	hub := newHub(id, sm.cfg.prefix+sm.path+"/"+id, sm.catalog, sm.renderer)
	sm.hubs[id] = hub

	go hub.run(sm.cfg)

	logf(sm.cfg, "SESSIONS: Created session %s%s/%s", sm.cfg.prefix, sm.path, id)

	return hub
}

func (sm *SessionManager) count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return len(sm.hubs)
}

// reap closes hubs idle since before cutoff that have no connected clients.
func (sm *SessionManager) reap(cutoff time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	reaped := 0

	for id, hub := range sm.hubs {
		last, connected := hub.idleSince()
		if connected || !last.Before(cutoff) {
			continue
		}

		delete(sm.hubs, id)
		hub.close()
		reaped++

		logf(sm.cfg, "SESSIONS: Reaped idle session %s after %s", id, time.Since(hub.createdAt).Round(time.Second))
	}

	return reaped
}

func (sm *SessionManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sm.closeAll()

			return
		case now := <-ticker.C:
			sm.reap(now.Add(-sm.idleTimeout))
		}
	}
}

func (sm *SessionManager) closeAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id, hub := range sm.hubs {
		delete(sm.hubs, id)
		hub.close()
	}
}
