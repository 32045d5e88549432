// internal/game/board.go
//
// Board generation for a Codenames game.
// Responsibilities:
//   - Build the card-type multiset for a width×height board:
//     one assassin, floor((w*h-1)/3) cards per team, innocents for the rest.
//   - Shuffle types and words independently (Fisher–Yates via rand.Shuffle),
//     pair them position-for-position, and lay out row-major.
//
// The word pool must cover the whole board; a short pool is a hard error
// rather than undefined behavior.

package game

import (
	"fmt"
	"math/rand/v2"
)

// TeamCardCount returns the number of cards each team gets on a
// width×height board: floor((w*h - 1) / 3).
func TeamCardCount(width, height int) int {
	return (width*height - 1) / 3
}

// BuildBoard generates a randomized board. The supplied word pool is not
// mutated; exactly width*height words are drawn from it at random.
func BuildBoard(width, height int, words []string) (Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("board: invalid dimensions %dx%d", width, height)
	}
	total := width * height
	if len(words) < total {
		return nil, fmt.Errorf("board: need %d words for a %dx%d board, have %d", total, width, height, len(words))
	}

	teamCount := TeamCardCount(width, height)
	innocentCount := total - 1 - 2*teamCount

	types := make([]CardType, 0, total)
	for i := 0; i < teamCount; i++ {
		types = append(types, CardRed, CardBlue)
	}
	for i := 0; i < innocentCount; i++ {
		types = append(types, CardInnocent)
	}
	types = append(types, CardAssassin)
	rand.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})

	pool := make([]string, len(words))
	copy(pool, words)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	board := make(Board, height)
	for row := 0; row < height; row++ {
		board[row] = make([]Cell, width)
		for col := 0; col < width; col++ {
			i := row*width + col
			board[row][col] = Cell{Word: pool[i], Type: types[i]}
		}
	}
	return board, nil
}

// countCards counts all cells of the given type, revealed or not.
func (b Board) countCards(t CardType) int {
	n := 0
	for _, row := range b {
		for _, c := range row {
			if c.Type == t {
				n++
			}
		}
	}
	return n
}
