/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
)

const watchlistPlaceholder = "Your watchlist is empty."

type catalogRow struct {
	Player
	Watched bool
}

type catalogView struct {
	Action string
	Rows   []catalogRow
}

type watchlistView struct {
	Action      string
	Players     []Player
	Placeholder string
}

type pageView struct {
	Prefix      string
	SessionPath string
	Query       string
	Version     string
	Catalog     catalogView
	Watchlist   watchlistView
}

func newCatalogView(sessionPath, query string, players []Player, watched map[int]bool) catalogView {
	rows := make([]catalogRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, catalogRow{Player: p, Watched: watched[p.ID]})
	}

	return catalogView{
		Action: actionURL(sessionPath, "add", query),
		Rows:   rows,
	}
}

func newWatchlistView(sessionPath, query string, players []Player) watchlistView {
	return watchlistView{
		Action:      actionURL(sessionPath, "remove", query),
		Players:     players,
		Placeholder: watchlistPlaceholder,
	}
}

// actionURL is the form target for a row button. The current query rides
// along so the redirect after a post lands on the same filtered view.
func actionURL(sessionPath, verb, query string) string {
	target := sessionPath + "/" + verb

	if query = strings.TrimSpace(query); query != "" {
		target += "?" + url.Values{"q": {query}}.Encode()
	}

	return target
}

// Renderer projects catalog and watchlist state into HTML. Every call
// writes the complete content of its container, so output depends only on
// the view passed in.
type Renderer struct {
	tmpl *template.Template
}

func newRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "assets/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Catalog(w io.Writer, v catalogView) error {
	return r.tmpl.ExecuteTemplate(w, "catalog", v)
}

func (r *Renderer) Watchlist(w io.Writer, v watchlistView) error {
	return r.tmpl.ExecuteTemplate(w, "watchlist", v)
}

func (r *Renderer) Page(w io.Writer, v pageView) error {
	return r.tmpl.ExecuteTemplate(w, "page", v)
}

func (r *Renderer) catalogString(v catalogView) (string, error) {
	var sb strings.Builder
	if err := r.Catalog(&sb, v); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (r *Renderer) watchlistString(v watchlistView) (string, error) {
	var sb strings.Builder
	if err := r.Watchlist(&sb, v); err != nil {
		return "", err
	}

	return sb.String(), nil
}
