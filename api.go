/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

type playersResponse struct {
	Query   string   `json:"query,omitempty"`
	Count   int      `json:"count"`
	Players []Player `json:"players"`
}

type watchlistResponse struct {
	Session string   `json:"session"`
	Count   int      `json:"count"`
	Players []Player `json:"players"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, r *http.Request, errs chan<- error, status int, what string, startTime time.Time, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(cfg, w)

	writeBody(cfg, w, r, errs, status, what, startTime, data)
}

func serveAPIPlayers(cfg *Config, catalog *Catalog, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		query := r.URL.Query().Get("q")
		players := filterPlayers(catalog.Players(), query)

		writeJSON(cfg, w, r, errs, http.StatusOK, "Player list", startTime, playersResponse{
			Query:   query,
			Count:   len(players),
			Players: players,
		})
	}
}

func serveAPIPlayer(cfg *Config, catalog *Catalog, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		id, err := strconv.Atoi(ps.ByName("player"))
		if err != nil {
			writeJSON(cfg, w, r, errs, http.StatusBadRequest, "Player error", startTime, errorResponse{Error: "invalid player id"})
			return
		}

		player, ok := catalog.Lookup(id)
		if !ok {
			writeJSON(cfg, w, r, errs, http.StatusNotFound, "Player error", startTime, errorResponse{Error: "player not found"})
			return
		}

		writeJSON(cfg, w, r, errs, http.StatusOK, "Player "+strconv.Itoa(id), startTime, player)
	}
}

func serveAPIWatchlist(cfg *Config, sm *SessionManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		id := ps.ByName("id")

		hub, ok := sm.lookup(id)
		if !ok {
			writeJSON(cfg, w, r, errs, http.StatusNotFound, "Watchlist error", startTime, errorResponse{Error: "session not found"})
			return
		}

		snap, err := hub.submit(r.Context(), request{kind: actionSnapshot})
		switch {
		case errors.Is(err, errSessionClosed):
			writeJSON(cfg, w, r, errs, http.StatusNotFound, "Watchlist error", startTime, errorResponse{Error: "session not found"})
			return
		case err != nil:
			return
		}

		writeJSON(cfg, w, r, errs, http.StatusOK, "Watchlist "+id, startTime, watchlistResponse{
			Session: id,
			Count:   len(snap.players),
			Players: snap.players,
		})
	}
}

func registerAPI(cfg *Config, mux *httprouter.Router, catalog *Catalog, sm *SessionManager, errs chan<- error) {
	mux.GET(cfg.prefix+"/api/players", serveAPIPlayers(cfg, catalog, errs))
	mux.GET(cfg.prefix+"/api/players/:player", serveAPIPlayer(cfg, catalog, errs))
	mux.GET(cfg.prefix+"/api/watchlist/:id", serveAPIWatchlist(cfg, sm, errs))
}
