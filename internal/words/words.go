// internal/words/words.go
//
// Word list management for the board generator.
//
// Responsibilities:
//   - Load per-language word pools from an environment-provided directory or
//     fall back to embedded defaults.
//   - Serve lists for board generation via ByLanguage / the Catalog adapter.
//
// Word lists:
//   - one file per language, one word per line, normalized to lowercase.
//   - embedded defaults: english.txt, spanish.txt.
//
// Initialization behavior (Init):
//   1. Load the embedded lists.
//   2. If WORDS_DIR is set, every *.txt file in it is loaded as the language
//      named by the file (e.g. WORDS_DIR/french.txt → "french"), replacing
//      an embedded list of the same name.
//
// Environment variables:
//   WORDS_DIR=/path/to/lists
//
// Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codenames-live/go-server/internal/store"
)

//go:embed english.txt
var embeddedEnglish string

//go:embed spanish.txt
var embeddedSpanish string

var (
	initOnce   sync.Once
	byLanguage map[string][]string
	initialErr error
)

// Init loads word lists exactly once.
// Returns an error if no language ends up with any words.
func Init() error {
	initOnce.Do(func() {
		byLanguage = map[string][]string{
			"english": normalizeLines(embeddedEnglish),
			"spanish": normalizeLines(embeddedSpanish),
		}

		if dir := os.Getenv("WORDS_DIR"); dir != "" {
			entries, err := os.ReadDir(dir)
			if err != nil {
				initialErr = err
				return
			}
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
					continue
				}
				lang := strings.TrimSuffix(e.Name(), ".txt")
				list, err := readWordFile(filepath.Join(dir, e.Name()))
				if err != nil {
					initialErr = err
					return
				}
				if len(list) > 0 {
					byLanguage[strings.ToLower(lang)] = list
				}
			}
		}

		for lang, list := range byLanguage {
			if len(list) == 0 {
				delete(byLanguage, lang)
			}
		}
		if len(byLanguage) == 0 {
			initialErr = errors.New("words: no word lists loaded")
		}
	})
	return initialErr
}

// readWordFile loads one word per line from a file, lowercased and trimmed.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := normalizeWord(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalizeLines processes an embedded multiline string into a word list.
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w := normalizeWord(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// normalizeWord trims and lowercases a single entry; comment lines are
// dropped.
func normalizeWord(s string) string {
	w := strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(w, "#") {
		return ""
	}
	return w
}

// Languages returns the loaded language names.
func Languages() []string {
	out := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		out = append(out, lang)
	}
	return out
}

// ByLanguage returns a copy of the word list for a language.
func ByLanguage(lang string) ([]string, bool) {
	list, ok := byLanguage[strings.ToLower(lang)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// Catalog adapts the loaded lists to the store.WordStore interface.
type Catalog struct{}

// NewCatalog returns the word store backed by the loaded lists.
// Init must have been called first.
func NewCatalog() Catalog { return Catalog{} }

// GetWordsByLanguage implements store.WordStore.
func (Catalog) GetWordsByLanguage(ctx context.Context, language string) ([]string, error) {
	list, ok := ByLanguage(language)
	if !ok {
		return nil, store.ErrNotFound
	}
	return list, nil
}
