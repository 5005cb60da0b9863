// Package engine selects moves for an automated tic-tac-toe player.
//
// A Selector chains three sources: an optional random override, an opening
// book keyed by the canonical board string, and an exhaustive minimax search
// with alpha-beta pruning. Search values favour the Searcher's maximizer and
// are depth adjusted so faster wins and slower losses rank higher.
package engine
