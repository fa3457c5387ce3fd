// Package corpus holds the local reference documents and their embedding
// index. The corpus is loaded at most once per process and is read-only
// afterwards.
package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/schemadrift/schemadrift/internal/embedding"
	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/logging"
)

// Match is one retrieval hit: the corpus position of the document and its
// similarity score in [-1, 1].
type Match struct {
	Index int
	Score float64
}

// Store loads documents from a fixed directory and answers nearest-neighbor
// queries over their embeddings.
type Store struct {
	dir      string
	provider embedding.Provider

	once    sync.Once
	loadErr error
	texts   []string
	vectors [][]float32
}

// NewStore creates a corpus store over the given directory. Nothing is read
// until the first Ensure or Query call.
func NewStore(dir string, provider embedding.Provider) *Store {
	return &Store{
		dir:      dir,
		provider: provider,
	}
}

// Ensure loads and embeds the corpus exactly once. Subsequent calls are
// no-ops returning the outcome of the first load; the corpus is never
// reloaded or invalidated within the process lifetime.
func (s *Store) Ensure(ctx context.Context) error {
	s.once.Do(func() {
		s.loadErr = s.load(ctx)
	})

	return s.loadErr
}

// load reads the document files sorted by filename, so corpus indices are
// deterministic across runs, then embeds them in one batch.
func (s *Store) load(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			// No docs directory means an empty corpus, not a failure.
			return nil
		}

		return errors.Wrapf(err, errors.ErrTypeFileSystem,
			"failed to read corpus directory %s", s.dir)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".md", ".txt", ".html":
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	var texts []string

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			logging.Warnf("Skipping unreadable corpus document %s: %v", name, err)
			continue
		}

		text := string(data)

		if strings.ToLower(filepath.Ext(name)) == ".html" {
			converted, err := htmltomarkdown.ConvertString(text)
			if err != nil {
				logging.Warnf("Skipping unconvertible HTML document %s: %v", name, err)
				continue
			}

			text = converted
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return nil
	}

	vectors, err := s.provider.Embed(ctx, texts)
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeRetrieval, "failed to embed corpus documents")
	}

	s.texts = texts
	s.vectors = vectors

	logging.Infof("Loaded %d corpus documents from %s", len(texts), s.dir)

	return nil
}

// Len returns the number of loaded documents.
func (s *Store) Len() int {
	return len(s.texts)
}

// Text returns the raw text of the document at the given corpus index.
func (s *Store) Text(i int) string {
	if i < 0 || i >= len(s.texts) {
		return ""
	}

	return s.texts[i]
}

// Query embeds the query text and returns up to k matches in descending
// score order. Both sides are unit vectors, so the dot product is the cosine
// similarity. Ties keep corpus order. An empty corpus yields an empty result
// and no error.
func (s *Store) Query(ctx context.Context, text string, k int) ([]Match, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	if len(s.texts) == 0 || k <= 0 {
		return nil, nil
	}

	queryVecs, err := s.provider.Embed(ctx, []string{text})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeRetrieval, "failed to embed query")
	}

	if len(queryVecs) != 1 {
		return nil, errors.Newf(errors.ErrTypeRetrieval,
			"expected 1 query embedding, got %d", len(queryVecs))
	}

	matches := make([]Match, len(s.vectors))
	for i, vec := range s.vectors {
		matches[i] = Match{Index: i, Score: dot(queryVecs[0], vec)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float64
	for i := range n {
		sum += float64(a[i]) * float64(b[i])
	}

	return sum
}
