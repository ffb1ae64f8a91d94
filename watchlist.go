/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Watchlist is an ordered set of catalog players, keyed by id. It is not
// safe for concurrent use; each one is owned by a single Hub goroutine.
type Watchlist struct {
	catalog *Catalog
	order   []int
	members map[int]bool
}

func newWatchlist(catalog *Catalog) *Watchlist {
	return &Watchlist{
		catalog: catalog,
		members: make(map[int]bool),
	}
}

// Add appends the player to the end of the list. Unknown or already
// watched ids are ignored. It reports whether the list changed.
func (w *Watchlist) Add(id int) bool {
	if w.members[id] {
		return false
	}

	if _, ok := w.catalog.Lookup(id); !ok {
		return false
	}

	w.members[id] = true
	w.order = append(w.order, id)

	return true
}

// Remove drops the player if present and reports whether the list changed.
func (w *Watchlist) Remove(id int) bool {
	if !w.members[id] {
		return false
	}

	delete(w.members, id)

	for i, v := range w.order {
		if v == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	return true
}

// List returns the watched players in insertion order.
func (w *Watchlist) List() []Player {
	out := make([]Player, 0, len(w.order))

	for _, id := range w.order {
		if p, ok := w.catalog.Lookup(id); ok {
			out = append(out, p)
		}
	}

	return out
}

func (w *Watchlist) Contains(id int) bool {
	return w.members[id]
}

func (w *Watchlist) Len() int {
	return len(w.order)
}

// IDs returns a snapshot of the watched ids.
func (w *Watchlist) IDs() map[int]bool {
	out := make(map[int]bool, len(w.members))
	for id := range w.members {
		out[id] = true
	}

	return out
}
