package engine

// movePriority is center, corners, then edges. The order decides which of
// several equal-valued moves the search returns.
var movePriority = [Size * Size]Move{
	{1, 1},
	{0, 0}, {0, 2}, {2, 0}, {2, 2},
	{0, 1}, {1, 0}, {1, 2}, {2, 1},
}

// LegalMoves returns every empty cell once, in priority order.
func LegalMoves(b Board) []Move {
	moves := make([]Move, 0, len(movePriority))
	for _, m := range movePriority {
		if b[m.Row][m.Col] == CellEmpty {
			moves = append(moves, m)
		}
	}
	return moves
}
