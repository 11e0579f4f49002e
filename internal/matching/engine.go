package matching

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EmbeddingStore is the read-only source of job and candidate embeddings.
//
// GetJobEmbedding wraps ErrNotFound when the job has no embedding.
// GetCandidateEmbeddings returns every known candidate when candidateIDs is empty;
// candidates without an embedding are left out of the result.
type EmbeddingStore interface {
	GetJobEmbedding(ctx context.Context, jobID string) ([]float32, error)
	GetCandidateEmbeddings(ctx context.Context, candidateIDs []string) ([]CandidateProfile, error)
}

type Engine struct {
	store       EmbeddingStore
	extractor   *RequirementExtractor
	scorer      *Scorer
	concurrency int
	logger      *zap.Logger
}

type EngineOption func(*Engine)

func WithPatterns(p *Patterns) EngineOption {
	return func(e *Engine) {
		e.extractor = NewRequirementExtractor(p)
		e.scorer = NewScorer(p, e.scorer.weights)
	}
}

func WithWeights(w Weights) EngineOption {
	return func(e *Engine) {
		e.scorer = NewScorer(e.scorer.patterns, w)
	}
}

// WithConcurrency bounds the number of candidates scored at once.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(store EmbeddingStore, opts ...EngineOption) *Engine {
	patterns := DefaultPatterns()
	e := &Engine{
		store:       store,
		extractor:   NewRequirementExtractor(patterns),
		scorer:      NewScorer(patterns, DefaultWeights()),
		concurrency: 8,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match scores every requested candidate against the job and returns them ranked by overall score.
// Candidates that cannot be scored because data is missing are skipped; any other failure aborts the call.
func (e *Engine) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	if strings.TrimSpace(req.JobID) == "" {
		return nil, newError(CodeInvalidArgument, "job_id is required", nil)
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, newError(CodeInvalidArgument, "job_description is required", nil)
	}

	jobEmbedding, err := e.store.GetJobEmbedding(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeNotFound, "job embedding not found for "+req.JobID, err)
		}
		return nil, newError(CodeInternal, "failed to load job embedding", err)
	}

	candidates, err := e.store.GetCandidateEmbeddings(ctx, req.CandidateIDs)
	if err != nil {
		return nil, newError(CodeInternal, "failed to load candidate embeddings", err)
	}

	requirements := e.extractor.Extract(req.JobDescription)

	scores := make([]*MatchScore, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, candidate := range candidates {
		if len(candidate.Embedding) == 0 {
			e.logger.Warn("skipping candidate without embedding", zap.String("candidate_id", candidate.CandidateID))
			continue
		}
		if candidate.Fields.IsEmpty() {
			e.logger.Warn("skipping candidate without extracted fields", zap.String("candidate_id", candidate.CandidateID))
			continue
		}

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			score, err := e.scorer.Score(candidate, requirements, jobEmbedding)
			if err != nil {
				return err
			}
			scores[i] = &score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, newError(CodeInternal, "failed to score candidates", err)
	}

	results := make([]MatchScore, 0, len(scores))
	for _, s := range scores {
		if s != nil {
			results = append(results, *s)
		}
	}
	Rank(results)

	e.logger.Info("match completed",
		zap.String("job_id", req.JobID),
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", len(results)),
	)

	return &MatchResponse{
		Results:         results,
		JobRequirements: requirements,
		TotalCandidates: len(results),
	}, nil
}

// Rank sorts scores by overall score, highest first. Ties keep their input order.
func Rank(scores []MatchScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})
}
