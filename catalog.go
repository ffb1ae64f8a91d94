/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Player is a single catalog entry. Players are never modified after the
// catalog is built.
type Player struct {
	ID       int    `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Team     string `json:"team" mapstructure:"team"`
	Position string `json:"position" mapstructure:"position"`
	Stats    string `json:"stats" mapstructure:"stats"`
}

// DisplayText is the row label shown for a player.
func (p Player) DisplayText() string {
	return fmt.Sprintf("%s (%s, %s) - %s", p.Name, p.Team, p.Position, p.Stats)
}

var knownPositions = map[string]bool{
	"PG":  true,
	"SG":  true,
	"SF":  true,
	"PF":  true,
	"G":   true,
	"F":   true,
	"C":   true,
	"G-F": true,
	"F-C": true,
}

// Catalog is the ordered, read-only set of players known at start-up.
type Catalog struct {
	players []Player
	byID    map[int]int
}

func newCatalog(players []Player) (*Catalog, error) {
	c := &Catalog{
		players: make([]Player, 0, len(players)),
		byID:    make(map[int]int, len(players)),
	}

	for i, p := range players {
		p.Name = strings.TrimSpace(p.Name)
		p.Position = strings.ToUpper(strings.TrimSpace(p.Position))

		switch {
		case p.ID <= 0:
			return nil, fmt.Errorf("%w: entry %d has non-positive id %d", errInvalidPlayer, i, p.ID)
		case p.Name == "":
			return nil, fmt.Errorf("%w: player %d has no name", errInvalidPlayer, p.ID)
		case !knownPositions[p.Position]:
			return nil, fmt.Errorf("%w: player %d has unknown position %q", errInvalidPlayer, p.ID, p.Position)
		}

		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: id %d", errDuplicatePlayer, p.ID)
		}

		c.byID[p.ID] = len(c.players)
		c.players = append(c.players, p)
	}

	return c, nil
}

// Players returns a copy of the catalog in catalog order.
func (c *Catalog) Players() []Player {
	out := make([]Player, len(c.players))
	copy(out, c.players)

	return out
}

func (c *Catalog) Lookup(id int) (Player, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Player{}, false
	}

	return c.players[i], true
}

func (c *Catalog) Len() int {
	return len(c.players)
}

func sampleCatalog() *Catalog {
	c, err := newCatalog([]Player{
		{ID: 1, Name: "LeBron James", Team: "Los Angeles Lakers", Position: "SF", Stats: "25.7 PTS, 7.3 REB, 8.3 AST"},
		{ID: 2, Name: "Stephen Curry", Team: "Golden State Warriors", Position: "PG", Stats: "26.4 PTS, 4.5 REB, 5.1 AST"},
		{ID: 3, Name: "Kevin Durant", Team: "Phoenix Suns", Position: "PF", Stats: "27.1 PTS, 6.6 REB, 5.0 AST"},
		{ID: 4, Name: "Giannis Antetokounmpo", Team: "Milwaukee Bucks", Position: "PF", Stats: "30.4 PTS, 11.5 REB, 6.5 AST"},
		{ID: 5, Name: "Nikola Jokic", Team: "Denver Nuggets", Position: "C", Stats: "26.4 PTS, 12.4 REB, 9.0 AST"},
		{ID: 6, Name: "Luka Doncic", Team: "Dallas Mavericks", Position: "PG", Stats: "33.9 PTS, 9.2 REB, 9.8 AST"},
		{ID: 7, Name: "Jayson Tatum", Team: "Boston Celtics", Position: "SF", Stats: "26.9 PTS, 8.1 REB, 4.9 AST"},
		{ID: 8, Name: "Joel Embiid", Team: "Philadelphia 76ers", Position: "C", Stats: "34.7 PTS, 11.0 REB, 5.6 AST"},
		{ID: 9, Name: "Anthony Davis", Team: "Los Angeles Lakers", Position: "F-C", Stats: "24.7 PTS, 12.6 REB, 3.5 AST"},
		{ID: 10, Name: "Devin Booker", Team: "Phoenix Suns", Position: "SG", Stats: "27.1 PTS, 4.5 REB, 6.9 AST"},
	})
	if err != nil {
		panic(err)
	}

	return c
}

// loadCatalog reads a players list from path, or returns the sample catalog
// when path is empty. The file type is taken from its extension.
func loadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return sampleCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var file struct {
		Players []Player `mapstructure:"players"`
	}

	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}

	if len(file.Players) == 0 {
		return nil, fmt.Errorf("%w: %s", errEmptyCatalog, path)
	}

	c, err := newCatalog(file.Players)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	return c, nil
}
