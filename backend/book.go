package main

import (
	"bytes"
	_ "embed"

	"github.com/Befador/tictactoe/engine"
)

// seedBookJSON covers the first reply to every opening. It is used when no
// book file is configured.
//
//go:embed book_seed.json
var seedBookJSON []byte

func loadOpeningBook(cfg Config) *engine.Book {
	if cfg.AiBookPath != "" {
		return engine.LoadBookFile(resolveDataPath(cfg.AiBookPath), bookLogger)
	}
	book, err := engine.LoadBook(bytes.NewReader(seedBookJSON))
	if err != nil {
		bookLogger.Warn().Err(err).Msg("embedded opening book unreadable; using search only")
		return engine.EmptyBook()
	}
	bookLogger.Info().Int("entries", book.Len()).Msg("embedded opening book loaded")
	return book
}
