/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// redirectNewSession handles GET /path by starting a new watchlist session
// and redirecting to /path/:id.
func redirectNewSession(cfg *Config, sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		hub := sm.newSession()

		http.Redirect(w, r, hub.path, http.StatusTemporaryRedirect)
	}
}

func serveWatchlistPage(cfg *Config, sm *SessionManager, renderer *Renderer, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		hub, ok := sm.getHub(ps.ByName("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		snap, err := hub.submit(r.Context(), request{kind: actionSnapshot})
		if errors.Is(err, errSessionClosed) {
			http.Redirect(w, r, r.URL.RequestURI(), http.StatusTemporaryRedirect)
			return
		}
		if err != nil {
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		players := filterPlayers(sm.catalog.Players(), query)

		var buf bytes.Buffer

		err = renderer.Page(&buf, pageView{
			Prefix:      cfg.prefix,
			SessionPath: hub.path,
			Query:       query,
			Version:     releaseVersion,
			Catalog:     newCatalogView(hub.path, query, players, snap.watched),
			Watchlist:   newWatchlistView(hub.path, query, snap.players),
		})
		if err != nil {
			panic(err)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		writeBody(cfg, w, r, errs, http.StatusOK, "Watchlist page "+hub.id, startTime, buf.Bytes())
	}
}

// serveMutation applies a form post from a row button, then sends the
// browser back to the page it came from.
func serveMutation(cfg *Config, sm *SessionManager, kind actionKind) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		hub, ok := sm.getHub(ps.ByName("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		playerID, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("player_id")))
		if err != nil {
			http.Error(w, "invalid player id", http.StatusBadRequest)
			return
		}

		_, err = hub.submit(r.Context(), request{kind: kind, playerID: playerID})
		switch {
		case errors.Is(err, errSessionClosed):
			http.Error(w, "watchlist session expired", http.StatusGone)
			return
		case err != nil:
			return
		}

		logf(cfg, "SERVE: %s player %d in session %s for %s", kind, playerID, hub.id, realIP(r))

		target := hub.path
		if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
			target += "?" + url.Values{"q": {query}}.Encode()
		}

		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// QR handler: generates a PNG QR code for the current session URL using go-qrcode.
func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		id := ps.ByName("id")
		if !validSessionID(id) {
			http.NotFound(w, r)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		// We are at /.../:id/qr; strip trailing "/qr" to get the session URL.
		target := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(cfg, w)

		writeBody(cfg, w, r, errs, http.StatusOK, "QR code for "+id, startTime, png)
	}
}

// registerWatchlist sets up routes so that:
//   - $path                  → redirects to a new session (8-char ID)
//   - $path/:id              → server-rendered page, ?q= filters the catalog
//   - $path/:id/add, remove  → form posts from row buttons
//   - $path/:id/ws           → WebSocket for that session
//   - $path/:id/qr           → PNG QR code for that session URL
func registerWatchlist(cfg *Config, path string, mux *httprouter.Router, sm *SessionManager, renderer *Renderer, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewSession(cfg, sm))

	mux.GET(cfg.prefix+path+"/:id", serveWatchlistPage(cfg, sm, renderer, errs))

	mux.POST(cfg.prefix+path+"/:id/add", serveMutation(cfg, sm, actionAdd))
	mux.POST(cfg.prefix+path+"/:id/remove", serveMutation(cfg, sm, actionRemove))

	mux.GET(cfg.prefix+path+"/:id/ws", serveSocket(cfg, sm))

	mux.GET(cfg.prefix+path+"/:id/qr", serveQR(cfg, errs))
}
