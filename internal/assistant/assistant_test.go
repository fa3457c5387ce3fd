package assistant

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemadrift/schemadrift/internal/corpus"
	"github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/llm"
	"github.com/schemadrift/schemadrift/internal/schema"
)

// stubBackend records every Generate call and replies from a canned queue.
type stubBackend struct {
	prompts []string
	systems []string
	replies []string
	err     error
}

func (s *stubBackend) Generate(_ context.Context, prompt, system string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.systems = append(s.systems, system)

	if s.err != nil {
		return "", s.err
	}

	if len(s.replies) == 0 {
		return "stub reply", nil
	}

	reply := s.replies[0]
	s.replies = s.replies[1:]

	return reply, nil
}

func (s *stubBackend) Configure(llm.Config) error { return nil }

// stubEmbedder implements embedding.Provider for corpus fixtures.
type stubEmbedder struct {
	err error
}

func (p *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}

	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}

	return out, nil
}

func (p *stubEmbedder) Dimensions() int { return 3 }
func (p *stubEmbedder) Enabled() bool   { return true }
func (p *stubEmbedder) Name() string    { return "stub" }

// recordingLog captures query log appends.
type recordingLog struct {
	records [][3]string
	err     error
}

func (l *recordingLog) Append(user, question, answer string) error {
	l.records = append(l.records, [3]string{user, question, answer})
	return l.err
}

func corpusWithDocs(t *testing.T, embedder *stubEmbedder, docs map[string]string) *corpus.Store {
	t.Helper()

	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return corpus.NewStore(dir, embedder)
}

func TestAnswerWithExtraContextOnly(t *testing.T) {
	backend := &stubBackend{replies: []string{"the answer"}}
	log := &recordingLog{}
	a := New(backend, nil, log, "guest")

	answer, err := a.Answer(context.Background(), "what changed?", "Existing: ...\nSQL: ...")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "Existing: ...\nSQL: ...")
	assert.Contains(t, backend.prompts[0], "Question: what changed?")
	assert.Contains(t, backend.systems[0], "Prefer any provided context")

	require.Len(t, log.records, 1)
	assert.Equal(t, [3]string{"guest", "what changed?", "the answer"}, log.records[0])
}

func TestAnswerAttachesRetrievedSnippets(t *testing.T) {
	backend := &stubBackend{replies: []string{"ok"}}
	store := corpusWithDocs(t, &stubEmbedder{}, map[string]string{
		"a.md": "first document body",
		"b.md": "second document body",
		"c.md": "third document body",
	})

	a := New(backend, store, nil, "guest")

	_, err := a.Answer(context.Background(), "question", "")
	require.NoError(t, err)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "[Doc 0]\nfirst document body")
	assert.Contains(t, backend.prompts[0], "[Doc 1]\nsecond document body")
	// Top-2 retrieval: the third document is not attached.
	assert.NotContains(t, backend.prompts[0], "third document body")
}

func TestAnswerTruncatesLongSnippets(t *testing.T) {
	backend := &stubBackend{replies: []string{"ok"}}
	long := strings.Repeat("x", SnippetMaxLen+500)
	store := corpusWithDocs(t, &stubEmbedder{}, map[string]string{"a.md": long})

	a := New(backend, store, nil, "guest")

	_, err := a.Answer(context.Background(), "question", "")
	require.NoError(t, err)

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "[Doc 0]\n"+strings.Repeat("x", SnippetMaxLen))
	assert.NotContains(t, backend.prompts[0], strings.Repeat("x", SnippetMaxLen+1))
}

func TestAnswerTruncatesMultibyteSnippetsByCharacter(t *testing.T) {
	backend := &stubBackend{replies: []string{"ok"}}
	// Each rune is three bytes; a byte-based cut would land mid-sequence.
	long := strings.Repeat("概", SnippetMaxLen+500)
	store := corpusWithDocs(t, &stubEmbedder{}, map[string]string{"a.md": long})

	a := New(backend, store, nil, "guest")

	_, err := a.Answer(context.Background(), "question", "")
	require.NoError(t, err)

	require.Len(t, backend.prompts, 1)
	assert.True(t, utf8.ValidString(backend.prompts[0]))
	assert.Contains(t, backend.prompts[0], "[Doc 0]\n"+strings.Repeat("概", SnippetMaxLen))
	assert.NotContains(t, backend.prompts[0], strings.Repeat("概", SnippetMaxLen+1))
}

func TestAnswerDegradesWhenRetrievalFails(t *testing.T) {
	backend := &stubBackend{replies: []string{"still answered"}}
	embedder := &stubEmbedder{err: errors.New(errors.ErrTypeRetrieval, "backend down")}
	store := corpusWithDocs(t, embedder, map[string]string{"a.md": "doc"})

	a := New(backend, store, nil, "guest")

	answer, err := a.Answer(context.Background(), "question", "carryover context")
	require.NoError(t, err)
	assert.Equal(t, "still answered", answer)

	// Only the extra context made it into the prompt.
	assert.Contains(t, backend.prompts[0], "carryover context")
	assert.NotContains(t, backend.prompts[0], "[Doc 0]")
}

func TestAnswerBackendFailurePropagates(t *testing.T) {
	backend := &stubBackend{err: errors.New(errors.ErrTypeGeneration, "503")}
	log := &recordingLog{}
	a := New(backend, nil, log, "guest")

	_, err := a.Answer(context.Background(), "question", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeGeneration))
	assert.Empty(t, log.records)
}

func TestAnswerLogFailureDoesNotFailAnswer(t *testing.T) {
	backend := &stubBackend{replies: []string{"fine"}}
	log := &recordingLog{err: errors.New(errors.ErrTypeFileSystem, "disk full")}
	a := New(backend, nil, log, "guest")

	answer, err := a.Answer(context.Background(), "question", "")
	require.NoError(t, err)
	assert.Equal(t, "fine", answer)
}

func TestAnalyzeChanges(t *testing.T) {
	backend := &stubBackend{replies: []string{"the explanation", "```sql\nALTER TABLE t ADD COLUMN c VARCHAR;\n```"}}
	a := New(backend, nil, nil, "guest")

	baseline := schema.Schema{"a": schema.TypeVarchar, "b": schema.TypeInteger}
	candidate := schema.Schema{"b": schema.TypeFloat, "c": schema.TypeVarchar}

	analysis, err := a.AnalyzeChanges(context.Background(), baseline, candidate, "employee")
	require.NoError(t, err)

	assert.Equal(t, []string{"c"}, analysis.Diff.Added)
	assert.Equal(t, []string{"a"}, analysis.Diff.Removed)
	assert.Equal(t, "the explanation", analysis.Explanation)
	assert.Contains(t, analysis.SQL, "ALTER TABLE")

	require.Len(t, backend.prompts, 2)
	assert.Contains(t, backend.prompts[0], "Table: employee")
	assert.Contains(t, backend.prompts[1], "`employee`")

	summary := analysis.ContextSummary()
	assert.Contains(t, summary, "Existing: - a: VARCHAR")
	assert.Contains(t, summary, "SQL: ```sql")
}

func TestDraftSQL(t *testing.T) {
	backend := &stubBackend{replies: []string{"ALTER TABLE orders ADD COLUMN email VARCHAR;"}}
	a := New(backend, nil, nil, "guest")

	baseline := schema.Schema{"id": schema.TypeInteger}
	candidate := schema.Schema{"id": schema.TypeInteger, "email": schema.TypeVarchar}

	sql, err := a.DraftSQL(context.Background(), baseline, candidate, "orders")
	require.NoError(t, err)
	assert.Contains(t, sql, "ALTER TABLE orders")

	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "`orders`")
}

func TestAnalyzeChangesGenerationFailureKeepsDiff(t *testing.T) {
	backend := &stubBackend{err: errors.New(errors.ErrTypeGeneration, "down")}
	a := New(backend, nil, nil, "guest")

	baseline := schema.Schema{"a": schema.TypeVarchar}
	candidate := schema.Schema{"b": schema.TypeVarchar}

	analysis, err := a.AnalyzeChanges(context.Background(), baseline, candidate, "t")
	require.Error(t, err)
	require.NotNil(t, analysis)

	// The structural diff stays visible even when generation fails.
	assert.Equal(t, []string{"b"}, analysis.Diff.Added)
	assert.Equal(t, []string{"a"}, analysis.Diff.Removed)
	assert.Empty(t, analysis.Explanation)
}
