package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Befador/tictactoe/engine"
)

// trainer builds the opening book by solving every reachable position with
// the same search the backend uses, or checks an existing book against it.
type trainer struct {
	logger   zerolog.Logger
	mode     string
	bookPath string
	workers  int
	includeX bool
}

type bookMismatch struct {
	Key      string
	Stored   int
	Searched int
	Illegal  bool
}

func main() {
	logger, closeLog, err := buildLogger(getenv("TRAINER_LOG_PATH", ""), getenv("TRAINER_LOG_FORMAT", "console"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	t := &trainer{
		logger:   logger,
		mode:     strings.ToLower(getenv("TRAINER_MODE", "build")),
		bookPath: getenv("TRAINER_BOOK_PATH", "book.json"),
		workers:  getenvInt("TRAINER_WORKERS", runtime.NumCPU()),
		includeX: getenvBool("TRAINER_INCLUDE_X", false),
	}
	t.logger.Info().
		Str("mode", t.mode).
		Str("book", t.bookPath).
		Int("workers", t.workers).
		Bool("include_x", t.includeX).
		Msg("book trainer started")

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if err := t.run(sigCtx); err != nil {
		t.logger.Error().Err(err).Msg("book trainer failed")
		closeLog()
		os.Exit(1)
	}
}

func (t *trainer) run(ctx context.Context) error {
	if t.mode == "verify" {
		book, err := readBookFile(t.bookPath)
		if err != nil {
			return err
		}
		mismatches, err := t.verifyBook(ctx, book)
		if err != nil {
			return err
		}
		for _, m := range mismatches {
			t.logger.Warn().
				Str("board", m.Key).
				Int("stored", m.Stored).
				Int("searched", m.Searched).
				Bool("illegal", m.Illegal).
				Msg("book entry disagrees with search")
		}
		t.logger.Info().Int("entries", book.Len()).Int("mismatches", len(mismatches)).Msg("book verified")
		if len(mismatches) > 0 {
			return fmt.Errorf("%d book entries disagree with search", len(mismatches))
		}
		return nil
	}

	start := time.Now()
	book, err := t.buildBook(ctx)
	if err != nil {
		return err
	}
	if err := writeBookFile(t.bookPath, book); err != nil {
		return err
	}
	t.logger.Info().
		Int("entries", book.Len()).
		Str("path", t.bookPath).
		Dur("elapsed", time.Since(start)).
		Msg("opening book written")
	return nil
}

// sideToMove follows the X-moves-first convention.
func sideToMove(b engine.Board) engine.Player {
	if b.Count(engine.CellX) > b.Count(engine.CellO) {
		return engine.PlayerO
	}
	return engine.PlayerX
}

// collectPositions walks every position reachable from the empty board and
// keeps the undecided ones where O is to move, plus X-to-move ones when
// includeX is set. The result is ordered by key.
func collectPositions(includeX bool) []engine.Board {
	seen := map[engine.Board]bool{}
	var keep []engine.Board
	var walk func(b engine.Board)
	walk = func(b engine.Board) {
		if seen[b] {
			return
		}
		seen[b] = true
		if engine.IsTerminal(b) {
			return
		}
		player := sideToMove(b)
		if player == engine.PlayerO || includeX {
			keep = append(keep, b)
		}
		for _, m := range engine.LegalMoves(b) {
			next := b
			next.Set(m.Row, m.Col, player.Cell())
			walk(next)
		}
	}
	walk(engine.Board{})
	sortBoards(keep)
	return keep
}

func sortBoards(boards []engine.Board) {
	sort.Slice(boards, func(i, j int) bool {
		return boards[i].Key() < boards[j].Key()
	})
}

// buildBook solves every collected position on a bounded worker pool. Each
// worker owns its searcher.
func (t *trainer) buildBook(ctx context.Context) (*engine.Book, error) {
	positions := collectPositions(t.includeX)
	moves := make([]int, len(positions))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(t.workers, 1))
	for i, b := range positions {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			move, ok := engine.NewSearcher(sideToMove(b)).BestMove(b)
			if !ok {
				moves[i] = -1
				return nil
			}
			moves[i] = move.Index()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("build opening book: %w", err)
	}

	entries := make(map[string]int, len(positions))
	for i, b := range positions {
		if moves[i] < 0 {
			continue
		}
		entries[b.Key()] = moves[i]
	}
	t.logger.Debug().Int("positions", len(positions)).Int("entries", len(entries)).Msg("positions solved")
	return engine.NewBook(entries)
}

// verifyBook reports every entry whose move is illegal or differs from the
// searched move for the side to move.
func (t *trainer) verifyBook(ctx context.Context, book *engine.Book) ([]bookMismatch, error) {
	keys := book.Keys()
	results := make([]*bookMismatch, len(keys))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(t.workers, 1))
	for i, key := range keys {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := engine.ParseBoard(key)
			if err != nil {
				return err
			}
			stored, _ := book.Lookup(b)
			searched, ok := engine.NewSearcher(sideToMove(b)).BestMove(b)
			searchedIdx := -1
			if ok {
				searchedIdx = searched.Index()
			}
			illegal := !b.IsEmpty(stored.Row, stored.Col)
			if illegal || stored.Index() != searchedIdx {
				results[i] = &bookMismatch{Key: key, Stored: stored.Index(), Searched: searchedIdx, Illegal: illegal}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("verify opening book: %w", err)
	}

	var mismatches []bookMismatch
	for _, m := range results {
		if m != nil {
			mismatches = append(mismatches, *m)
		}
	}
	return mismatches, nil
}

// readBookFile loads path strictly. Unlike the backend, a missing or corrupt
// book is an error here.
func readBookFile(path string) (*engine.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	defer f.Close()
	book, err := engine.LoadBook(f)
	if err != nil {
		return nil, fmt.Errorf("read book %s: %w", path, err)
	}
	return book, nil
}

// writeBookFile replaces path atomically with the JSON form of book.
func writeBookFile(path string, book *engine.Book) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create book directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create book file: %w", err)
	}
	if err := book.WriteJSON(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode book: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("flush book: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace book: %w", err)
	}
	return nil
}

func buildLogger(path, format string) (zerolog.Logger, func(), error) {
	var out io.Writer = os.Stdout
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	}
	closeLog := func() {}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		out = zerolog.MultiLevelWriter(out, f)
		closeLog = func() { _ = f.Close() }
	}
	logger := zerolog.New(out).With().Timestamp().Str("component", "trainer").Logger()
	return logger, closeLog, nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
