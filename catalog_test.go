/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}

	return p
}

func TestSampleCatalog(t *testing.T) {
	c := sampleCatalog()

	if c.Len() == 0 {
		t.Fatal("sample catalog is empty")
	}

	seen := make(map[int]bool)
	for _, p := range c.Players() {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true

		got, ok := c.Lookup(p.ID)
		if !ok || got != p {
			t.Fatalf("Lookup(%d) = %+v, %v; want %+v", p.ID, got, ok, p)
		}
	}

	if _, ok := c.Lookup(0); ok {
		t.Fatal("Lookup(0) found a player")
	}
}

func TestCatalogPlayersIsCopy(t *testing.T) {
	c := sampleCatalog()

	players := c.Players()
	players[0].Name = "Changed"

	if p, _ := c.Lookup(players[0].ID); p.Name == "Changed" {
		t.Fatal("mutating Players() result changed the catalog")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		players []Player
		wantErr error
	}{
		{
			name:    "zero id",
			players: []Player{{ID: 0, Name: "A", Position: "PG"}},
			wantErr: errInvalidPlayer,
		},
		{
			name:    "blank name",
			players: []Player{{ID: 1, Name: "  ", Position: "PG"}},
			wantErr: errInvalidPlayer,
		},
		{
			name:    "unknown position",
			players: []Player{{ID: 1, Name: "A", Position: "QB"}},
			wantErr: errInvalidPlayer,
		},
		{
			name:    "duplicate id",
			players: []Player{{ID: 1, Name: "A", Position: "PG"}, {ID: 1, Name: "B", Position: "C"}},
			wantErr: errDuplicatePlayer,
		},
		{
			name:    "lowercase position accepted",
			players: []Player{{ID: 1, Name: "A", Position: "sf"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newCatalog(tt.players)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("newCatalog() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	c, err := loadCatalog("")
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}

	if c.Len() != sampleCatalog().Len() {
		t.Fatalf("got %d players, want the sample catalog", c.Len())
	}
}

func TestLoadCatalogFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "players.json",
			content: `{"players": [
				{"id": 10, "name": "Ja Morant", "team": "Memphis Grizzlies", "position": "PG", "stats": "25.1 PTS"},
				{"id": 20, "name": "Victor Wembanyama", "team": "San Antonio Spurs", "position": "c", "stats": "21.4 PTS"}
			]}`,
		},
		{
			name: "yaml",
			file: "players.yaml",
			content: `players:
  - id: 10
    name: Ja Morant
    team: Memphis Grizzlies
    position: PG
    stats: 25.1 PTS
  - id: 20
    name: Victor Wembanyama
    team: San Antonio Spurs
    position: c
    stats: 21.4 PTS
`,
		},
		{
			name: "toml",
			file: "players.toml",
			content: `[[players]]
id = 10
name = "Ja Morant"
team = "Memphis Grizzlies"
position = "PG"
stats = "25.1 PTS"

[[players]]
id = 20
name = "Victor Wembanyama"
team = "San Antonio Spurs"
position = "c"
stats = "21.4 PTS"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := loadCatalog(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("loadCatalog: %v", err)
			}

			players := c.Players()
			if len(players) != 2 {
				t.Fatalf("got %d players, want 2", len(players))
			}

			if players[0].ID != 10 || players[1].ID != 20 {
				t.Fatalf("order not preserved: %+v", players)
			}

			if players[1].Position != "C" {
				t.Fatalf("position = %q, want normalised C", players[1].Position)
			}
		})
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := loadCatalog(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty players", func(t *testing.T) {
		_, err := loadCatalog(writeFile(t, "empty.json", `{"players": []}`))
		if !errors.Is(err, errEmptyCatalog) {
			t.Fatalf("error = %v, want %v", err, errEmptyCatalog)
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := loadCatalog(writeFile(t, "dup.json", `{"players": [
			{"id": 1, "name": "A", "position": "PG"},
			{"id": 1, "name": "B", "position": "PG"}
		]}`))
		if !errors.Is(err, errDuplicatePlayer) {
			t.Fatalf("error = %v, want %v", err, errDuplicatePlayer)
		}
	})
}

func TestDisplayText(t *testing.T) {
	p := Player{ID: 3, Name: "Kevin Durant", Team: "Phoenix Suns", Position: "PF", Stats: "27.1 PTS"}

	if got, want := p.DisplayText(), "Kevin Durant (Phoenix Suns, PF) - 27.1 PTS"; got != want {
		t.Fatalf("DisplayText() = %q, want %q", got, want)
	}
}
