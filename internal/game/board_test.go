package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordPool(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("word%03d", i)
	}
	return out
}

func countTypes(b Board) map[CardType]int {
	counts := make(map[CardType]int)
	for _, row := range b {
		for _, c := range row {
			counts[c.Type]++
		}
	}
	return counts
}

func TestBuildBoardComposition(t *testing.T) {
	cases := []struct {
		width, height int
	}{
		{5, 5},
		{4, 4},
		{5, 4},
		{3, 3},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dx%d", tc.width, tc.height), func(t *testing.T) {
			board, err := BuildBoard(tc.width, tc.height, wordPool(tc.width*tc.height))
			require.NoError(t, err)

			total := tc.width * tc.height
			teamCount := (total - 1) / 3
			counts := countTypes(board)

			assert.Equal(t, 1, counts[CardAssassin], "exactly one assassin")
			assert.Equal(t, teamCount, counts[CardRed])
			assert.Equal(t, teamCount, counts[CardBlue])
			assert.Equal(t, total-1-2*teamCount, counts[CardInnocent])

			require.Len(t, board, tc.height)
			for _, row := range board {
				require.Len(t, row, tc.width)
			}
		})
	}
}

func TestBuildBoardUniqueWordsUnrevealed(t *testing.T) {
	board, err := BuildBoard(5, 5, wordPool(100))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, row := range board {
		for _, c := range row {
			assert.False(t, c.Revealed)
			assert.NotEmpty(t, c.Word)
			assert.False(t, seen[c.Word], "word %q placed twice", c.Word)
			seen[c.Word] = true
		}
	}
}

func TestBuildBoardShortPool(t *testing.T) {
	_, err := BuildBoard(5, 5, wordPool(24))
	require.Error(t, err)
}

func TestBuildBoardBadDimensions(t *testing.T) {
	_, err := BuildBoard(0, 5, wordPool(30))
	require.Error(t, err)
	_, err = BuildBoard(5, -1, wordPool(30))
	require.Error(t, err)
}

func TestBuildBoardDoesNotMutatePool(t *testing.T) {
	pool := wordPool(30)
	snapshot := append([]string(nil), pool...)
	_, err := BuildBoard(5, 5, pool)
	require.NoError(t, err)
	assert.Equal(t, snapshot, pool)
}
