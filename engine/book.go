package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// Book is an immutable opening-knowledge table mapping canonical board keys
// to a cell index. A nil or empty Book misses every lookup. Book is safe for
// concurrent use.
type Book struct {
	entries map[string]int
}

// NewBook validates every entry and copies the map.
func NewBook(entries map[string]int) (*Book, error) {
	b := &Book{entries: make(map[string]int, len(entries))}
	for key, idx := range entries {
		if _, err := ParseBoard(key); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= Size*Size {
			return nil, fmt.Errorf("%w: %q maps to %d", ErrInvalidIndex, key, idx)
		}
		b.entries[key] = idx
	}
	return b, nil
}

// EmptyBook returns a book with no entries.
func EmptyBook() *Book {
	return &Book{entries: map[string]int{}}
}

// LoadBook decodes a JSON object of key → index.
func LoadBook(r io.Reader) (*Book, error) {
	var raw map[string]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode opening book: %w", err)
	}
	return NewBook(raw)
}

// LoadBookFile reads a book from path. Any failure is logged once and yields
// an empty book, so callers always get a usable table.
func LoadBookFile(path string, logger zerolog.Logger) *Book {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("opening book not found; using search only")
		} else {
			logger.Warn().Err(err).Str("path", path).Msg("failed to open opening book; using search only")
		}
		return EmptyBook()
	}
	defer file.Close()
	book, err := LoadBook(file)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to load opening book; using search only")
		return EmptyBook()
	}
	logger.Info().Str("path", path).Int("entries", book.Len()).Msg("opening book loaded")
	return book
}

// Lookup returns the stored move for b, if any.
func (bk *Book) Lookup(b Board) (Move, bool) {
	if bk == nil {
		return Move{}, false
	}
	idx, ok := bk.entries[b.Key()]
	if !ok {
		return Move{}, false
	}
	return MoveFromIndex(idx), true
}

func (bk *Book) Len() int {
	if bk == nil {
		return 0
	}
	return len(bk.entries)
}

// Keys returns the stored keys in sorted order.
func (bk *Book) Keys() []string {
	if bk == nil {
		return nil
	}
	keys := make([]string, 0, len(bk.entries))
	for key := range bk.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteJSON encodes the book in the same format LoadBook reads.
func (bk *Book) WriteJSON(w io.Writer) error {
	entries := map[string]int{}
	if bk != nil {
		entries = bk.entries
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
