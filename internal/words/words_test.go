package words

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenames-live/go-server/internal/store"
)

func TestInitLoadsEmbeddedLists(t *testing.T) {
	require.NoError(t, Init())
	assert.Contains(t, Languages(), "english")
	assert.Contains(t, Languages(), "spanish")

	for _, lang := range []string{"english", "spanish"} {
		list, ok := ByLanguage(lang)
		require.True(t, ok, lang)
		assert.GreaterOrEqual(t, len(list), 25, "%s must cover a 5x5 board", lang)
		for _, w := range list {
			assert.NotEmpty(t, w)
		}
	}
}

func TestByLanguageIsCaseInsensitive(t *testing.T) {
	require.NoError(t, Init())
	a, ok := ByLanguage("English")
	require.True(t, ok)
	b, ok := ByLanguage("english")
	require.True(t, ok)
	assert.Equal(t, b, a)
}

func TestByLanguageReturnsCopy(t *testing.T) {
	require.NoError(t, Init())
	a, ok := ByLanguage("english")
	require.True(t, ok)
	a[0] = "mutated"

	b, _ := ByLanguage("english")
	assert.NotEqual(t, "mutated", b[0])
}

func TestCatalog(t *testing.T) {
	require.NoError(t, Init())
	cat := NewCatalog()

	list, err := cat.GetWordsByLanguage(context.Background(), "english")
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	_, err = cat.GetWordsByLanguage(context.Background(), "klingon")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
