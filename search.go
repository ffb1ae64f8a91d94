/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"

	"golang.org/x/text/cases"
)

// filterPlayers returns the players whose name contains query, compared
// with Unicode case folding. A blank query matches every player. Order is
// preserved and the result is never nil.
func filterPlayers(players []Player, query string) []Player {
	query = strings.TrimSpace(query)

	out := make([]Player, 0, len(players))

	if query == "" {
		return append(out, players...)
	}

	fold := cases.Fold()
	needle := fold.String(query)

	for _, p := range players {
		if strings.Contains(fold.String(p.Name), needle) {
			out = append(out, p)
		}
	}

	return out
}
