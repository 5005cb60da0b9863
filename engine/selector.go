package engine

// RandSource is the randomness the selector draws from. *math/rand.Rand
// satisfies it.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// MoveSearcher picks the best move for its maximizing side.
type MoveSearcher interface {
	BestMove(b Board) (Move, bool)
}

type Source int

const (
	SourceNone Source = iota
	SourceRandom
	SourceBook
	SourceSearch
)

func (s Source) String() string {
	switch s {
	case SourceRandom:
		return "random"
	case SourceBook:
		return "book"
	case SourceSearch:
		return "search"
	default:
		return "none"
	}
}

type Decision struct {
	Move   Move
	Source Source
}

// Selector chooses a move through a strict fallback chain: a random override
// with probability Randomness, then the opening book, then Searcher. Exactly
// one source decides each call. With a nil Rand the random gate is skipped.
type Selector struct {
	Book         *Book
	Searcher     MoveSearcher
	Randomness   float64
	Rand         RandSource
	ValidateBook bool
}

func NewSelector(book *Book, searcher MoveSearcher, randomness float64, rng RandSource) *Selector {
	return &Selector{
		Book:         book,
		Searcher:     searcher,
		Randomness:   randomness,
		Rand:         rng,
		ValidateBook: true,
	}
}

// ChooseMove returns ok=false when the board has no legal move or the game on
// it is already decided. Boards where both sides hold a line are rejected
// with ErrMalformedBoard.
func (s *Selector) ChooseMove(b Board) (Decision, bool, error) {
	if err := Validate(b); err != nil {
		return Decision{}, false, err
	}
	if HasWon(b, PlayerX) || HasWon(b, PlayerO) {
		return Decision{}, false, nil
	}
	if s.Rand != nil && s.Rand.Float64() < s.Randomness {
		moves := LegalMoves(b)
		if len(moves) == 0 {
			return Decision{}, false, nil
		}
		return Decision{Move: moves[s.Rand.Intn(len(moves))], Source: SourceRandom}, true, nil
	}
	if move, ok := s.Book.Lookup(b); ok {
		if !s.ValidateBook || (move.IsValid() && b[move.Row][move.Col] == CellEmpty) {
			return Decision{Move: move, Source: SourceBook}, true, nil
		}
	}
	if s.Searcher == nil {
		return Decision{}, false, nil
	}
	move, ok := s.Searcher.BestMove(b)
	if !ok {
		return Decision{}, false, nil
	}
	return Decision{Move: move, Source: SourceSearch}, true, nil
}
