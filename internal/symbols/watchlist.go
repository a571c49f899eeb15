package symbols

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Watchlist is an ordered symbol list read from a JSON array
type Watchlist struct {
	Symbols []string
}

// LoadWatchlist reads a JSON array of symbols, normalized and deduplicated
// in file order. A missing file yields an empty watchlist.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Watchlist{}, nil
		}
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing watchlist %s: %w", path, err)
	}

	w := &Watchlist{Symbols: make([]string, 0, len(raw))}
	seen := make(map[string]bool, len(raw))
	for _, s := range raw {
		s = Normalize(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		w.Symbols = append(w.Symbols, s)
	}
	return w, nil
}
