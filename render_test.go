/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const testSessionPath = "/watchlist/AbCd1234"

func testRenderer(t *testing.T) *Renderer {
	t.Helper()

	r, err := newRenderer()
	if err != nil {
		t.Fatalf("newRenderer: %v", err)
	}

	return r
}

func parseFragment(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return doc
}

func TestRenderCatalogRows(t *testing.T) {
	r := testRenderer(t)
	players := sampleCatalog().Players()

	html, err := r.catalogString(newCatalogView(testSessionPath, "", players, map[int]bool{3: true}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := parseFragment(t, html)

	rows := doc.Find("li.player")
	if rows.Length() != len(players) {
		t.Fatalf("got %d rows, want %d", rows.Length(), len(players))
	}

	rows.Each(func(i int, row *goquery.Selection) {
		p := players[i]

		if id, _ := row.Attr("data-player-id"); id != strconv.Itoa(p.ID) {
			t.Errorf("row %d data-player-id = %q, want %d", i, id, p.ID)
		}

		if text := row.Find(".player-text").Text(); text != p.DisplayText() {
			t.Errorf("row %d text = %q, want %q", i, text, p.DisplayText())
		}

		buttons := row.Find("button")
		if buttons.Length() != 1 {
			t.Fatalf("row %d has %d buttons, want 1", i, buttons.Length())
		}

		if action, _ := buttons.Attr("data-action"); action != "add" {
			t.Errorf("row %d action = %q, want add", i, action)
		}

		if v, _ := buttons.Attr("value"); v != strconv.Itoa(p.ID) {
			t.Errorf("row %d button value = %q, want %d", i, v, p.ID)
		}

		if form, _ := row.Find("form").Attr("action"); form != testSessionPath+"/add" {
			t.Errorf("row %d form action = %q", i, form)
		}

		_, disabled := buttons.Attr("disabled")
		label := strings.TrimSpace(buttons.Text())

		if p.ID == 3 {
			if !disabled || label != "Added to Watchlist" {
				t.Errorf("watched row: disabled=%v label=%q", disabled, label)
			}
		} else if disabled || label != "Add" {
			t.Errorf("row %d: disabled=%v label=%q", i, disabled, label)
		}
	})

	if doc.Find("li.placeholder").Length() != 0 {
		t.Fatal("placeholder rendered alongside rows")
	}
}

func TestRenderCatalogNoMatches(t *testing.T) {
	r := testRenderer(t)

	html, err := r.catalogString(newCatalogView(testSessionPath, "zzz", []Player{}, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := parseFragment(t, html)

	if doc.Find("li.player").Length() != 0 {
		t.Fatal("rows rendered for empty result")
	}
	if doc.Find("li.placeholder").Length() != 1 {
		t.Fatal("missing no-match placeholder")
	}
}

func TestRenderCatalogKeepsQueryInAction(t *testing.T) {
	r := testRenderer(t)
	players := filterPlayers(sampleCatalog().Players(), "kevin d")

	html, err := r.catalogString(newCatalogView(testSessionPath, "kevin d", players, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	action, _ := parseFragment(t, html).Find("form").Attr("action")
	if action != testSessionPath+"/add?q=kevin+d" {
		t.Fatalf("form action = %q", action)
	}
}

func TestRenderWatchlistEmptyShowsPlaceholder(t *testing.T) {
	r := testRenderer(t)

	html, err := r.watchlistString(newWatchlistView(testSessionPath, "", newWatchlist(sampleCatalog()).List()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := parseFragment(t, html)

	placeholder := doc.Find("li.placeholder")
	if placeholder.Length() != 1 {
		t.Fatalf("got %d placeholders, want 1 in %q", placeholder.Length(), html)
	}
	if got := placeholder.Text(); got != watchlistPlaceholder {
		t.Fatalf("placeholder = %q, want %q", got, watchlistPlaceholder)
	}
	if doc.Find("li.player, button").Length() != 0 {
		t.Fatal("empty watchlist rendered rows")
	}
}

func TestRenderWatchlistRows(t *testing.T) {
	r := testRenderer(t)

	w := newWatchlist(sampleCatalog())
	w.Add(3)
	w.Add(1)

	html, err := r.watchlistString(newWatchlistView(testSessionPath, "", w.List()))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := parseFragment(t, html)

	var got []string
	doc.Find("li.player").Each(func(i int, row *goquery.Selection) {
		id, _ := row.Attr("data-player-id")
		got = append(got, id)

		buttons := row.Find("button")
		if buttons.Length() != 1 {
			t.Fatalf("row %d has %d buttons", i, buttons.Length())
		}
		if action, _ := buttons.Attr("data-action"); action != "remove" {
			t.Errorf("row %d action = %q", i, action)
		}
		if label := strings.TrimSpace(buttons.Text()); label != "Remove" {
			t.Errorf("row %d label = %q", i, label)
		}
		if form, _ := row.Find("form").Attr("action"); form != testSessionPath+"/remove" {
			t.Errorf("row %d form action = %q", i, form)
		}
	})

	if strings.Join(got, ",") != "3,1" {
		t.Fatalf("row order = %v, want [3 1]", got)
	}
	if doc.Find("li.placeholder").Length() != 0 {
		t.Fatal("placeholder rendered with rows")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r := testRenderer(t)

	w := newWatchlist(sampleCatalog())
	w.Add(2)
	w.Add(7)

	players := sampleCatalog().Players()

	render := func() []byte {
		var buf bytes.Buffer
		if err := r.Catalog(&buf, newCatalogView(testSessionPath, "", players, w.IDs())); err != nil {
			t.Fatalf("catalog: %v", err)
		}
		if err := r.Watchlist(&buf, newWatchlistView(testSessionPath, "", w.List())); err != nil {
			t.Fatalf("watchlist: %v", err)
		}
		return buf.Bytes()
	}

	first := render()
	second := render()

	if !bytes.Equal(first, second) {
		t.Fatal("rendering the same state twice differed")
	}
}

func TestRenderEscapesPlayerText(t *testing.T) {
	r := testRenderer(t)

	players := []Player{{ID: 1, Name: `<script>alert("x")</script>`, Team: "T&T", Position: "C", Stats: "1 PTS"}}

	html, err := r.catalogString(newCatalogView(testSessionPath, "", players, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Fatalf("unescaped markup in %q", html)
	}

	doc := parseFragment(t, html)
	if doc.Find("script").Length() != 0 {
		t.Fatal("player name produced a script element")
	}
	if got := doc.Find(".player-text").Text(); got != players[0].DisplayText() {
		t.Fatalf("text = %q, want %q", got, players[0].DisplayText())
	}
}

func TestRenderPage(t *testing.T) {
	r := testRenderer(t)

	w := newWatchlist(sampleCatalog())
	players := filterPlayers(sampleCatalog().Players(), "durant")

	var buf bytes.Buffer
	err := r.Page(&buf, pageView{
		SessionPath: testSessionPath,
		Query:       "durant",
		Version:     releaseVersion,
		Catalog:     newCatalogView(testSessionPath, "durant", players, w.IDs()),
		Watchlist:   newWatchlistView(testSessionPath, "durant", w.List()),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := parseFragment(t, buf.String())

	if v, _ := doc.Find("input[name=q]").Attr("value"); v != "durant" {
		t.Fatalf("search input value = %q", v)
	}
	if doc.Find("#search button").Length() != 1 {
		t.Fatal("missing search button")
	}
	if n := doc.Find("#catalog li.player").Length(); n != 1 {
		t.Fatalf("catalog rows = %d, want 1", n)
	}
	if doc.Find("#watchlist li.placeholder").Length() != 1 {
		t.Fatal("watchlist placeholder missing")
	}
	if src, _ := doc.Find("script").Attr("src"); src != "/assets/app.js" {
		t.Fatalf("script src = %q", src)
	}
	if session, _ := doc.Find("body").Attr("data-session"); session != testSessionPath {
		t.Fatalf("data-session = %q", session)
	}
}
