package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/repositories"
)

type memCandidates struct {
	mu      sync.Mutex
	rows    map[string]models.Candidate
	order   []string
	findErr error
}

func newMemCandidates(rows ...models.Candidate) *memCandidates {
	m := &memCandidates{rows: map[string]models.Candidate{}}
	for _, r := range rows {
		_ = m.Upsert(context.Background(), &r)
	}
	return m
}

func (m *memCandidates) Upsert(_ context.Context, c *models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCandidates) FindByID(_ context.Context, id string) (*models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", id, repositories.ErrNotFound)
	}
	return &c, nil
}

func (m *memCandidates) FindByIDs(_ context.Context, ids []string) ([]models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.Candidate
	for _, id := range ids {
		if c, ok := m.rows[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCandidates) ListIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...), nil
}

func (m *memCandidates) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("candidate %s: %w", id, repositories.ErrNotFound)
	}
	delete(m.rows, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type memJobs struct {
	rows map[string]models.Job
}

func (m *memJobs) Upsert(_ context.Context, job *models.Job) error {
	if m.rows == nil {
		m.rows = map[string]models.Job{}
	}
	m.rows[job.ID] = *job
	return nil
}

func (m *memJobs) FindByID(_ context.Context, id string) (*models.Job, error) {
	j, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, repositories.ErrNotFound)
	}
	return &j, nil
}

type memVectors struct {
	mu      sync.Mutex
	vectors map[string][]float32
	getErr  error
	onGet   func()
}

func newMemVectors() *memVectors {
	return &memVectors{vectors: map[string][]float32{}}
}

func (m *memVectors) key(kind VectorKind, id string) string {
	return string(kind) + ":" + id
}

func (m *memVectors) InitCollection(context.Context) error { return nil }

func (m *memVectors) UpsertVector(_ context.Context, kind VectorKind, id string, v []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[m.key(kind, id)] = v
	return nil
}

func (m *memVectors) GetVector(ctx context.Context, kind VectorKind, id string) ([]float32, error) {
	if m.onGet != nil {
		m.onGet()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.vectors[m.key(kind, id)]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrVectorNotFound)
	}
	return v, nil
}

func (m *memVectors) SearchSimilar(_ context.Context, kind VectorKind, query []float32, limit int) ([]SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := string(kind) + ":"
	var results []SearchResult
	for k, v := range m.vectors {
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		score, err := matching.CosineSimilarity(query, v)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{EntityID: k[len(prefix):], Kind: kind, Score: float32(score)})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *memVectors) DeleteVector(_ context.Context, kind VectorKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vectors, m.key(kind, id))
	return nil
}

type fakeEmbedder struct {
	mu     sync.Mutex
	calls  []string
	vector func(text string) []float32
	errs   []error
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.vector != nil {
		return f.vector(text), nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return f.GenerateEmbedding(ctx, text)
}

type fakeParser struct {
	texts map[string]string
}

func (f *fakeParser) ExtractText(path string) (*PDFContent, error) {
	text, ok := f.texts[path]
	if !ok {
		return nil, fmt.Errorf("failed to open PDF: %s", path)
	}
	return &PDFContent{Text: text, PageCount: 1, FilePath: path}, nil
}

// memRuns rejects every call on a cancelled context, like a database client.
type memRuns struct {
	mu        sync.Mutex
	runs      map[uuid.UUID]*models.MatchRun
	findErr   error
	resultErr error
}

func newMemRuns() *memRuns {
	return &memRuns{runs: map[uuid.UUID]*models.MatchRun{}}
}

func (m *memRuns) Create(ctx context.Context, run *models.MatchRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memRuns) FindByID(ctx context.Context, id uuid.UUID) (*models.MatchRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("match run %s: %w", id, repositories.ErrNotFound)
	}
	cp := *run
	return &cp, nil
}

func (m *memRuns) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok || run.Status != models.StatusQueued {
		return false, nil
	}
	run.Status = models.StatusProcessing
	return true, nil
}

func (m *memRuns) UpdateResult(ctx context.Context, id uuid.UUID, result *matching.MatchResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if m.resultErr != nil {
		return m.resultErr
	}
	run.Status = models.StatusCompleted
	run.Result = result
	return nil
}

func (m *memRuns) UpdateError(ctx context.Context, id uuid.UUID, code matching.Code, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	run.Status = models.StatusFailed
	run.ErrorCode = string(code)
	run.ErrorMessage = msg
	return nil
}

func (m *memRuns) Requeue(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[id]; ok && run.Status == models.StatusProcessing {
		run.Status = models.StatusQueued
	}
	return nil
}

func (m *memRuns) FindPendingRuns(ctx context.Context, limit int) ([]models.MatchRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MatchRun
	for _, run := range m.runs {
		if run.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (m *memRuns) status(id uuid.UUID) models.MatchStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id].Status
}
