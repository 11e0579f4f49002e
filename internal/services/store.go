package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/talent-matcher/internal/logger"
	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/repositories"
)

type embeddingStore struct {
	candidates  repositories.CandidateRepository
	vectors     VectorStore
	concurrency int
	logger      *zap.Logger
}

// NewEmbeddingStore joins candidate rows from Postgres with their Qdrant vectors.
func NewEmbeddingStore(
	candidates repositories.CandidateRepository,
	vectors VectorStore,
	concurrency int,
	logger *zap.Logger,
) matching.EmbeddingStore {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &embeddingStore{
		candidates:  candidates,
		vectors:     vectors,
		concurrency: concurrency,
		logger:      logger,
	}
}

// GetJobEmbedding implements matching.EmbeddingStore.
func (s *embeddingStore) GetJobEmbedding(ctx context.Context, jobID string) ([]float32, error) {
	vec, err := s.vectors.GetVector(ctx, KindJob, jobID)
	if err != nil {
		if errors.Is(err, ErrVectorNotFound) {
			return nil, fmt.Errorf("job %s has no embedding: %w", jobID, matching.ErrNotFound)
		}
		return nil, err
	}
	return vec, nil
}

// GetCandidateEmbeddings implements matching.EmbeddingStore. Unknown ids and
// candidates without a vector are logged and left out.
func (s *embeddingStore) GetCandidateEmbeddings(ctx context.Context, candidateIDs []string) ([]matching.CandidateProfile, error) {
	ids := candidateIDs
	if len(ids) == 0 {
		all, err := s.candidates.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		ids = all
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.candidates.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Candidate, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	profiles := make([]*matching.CandidateProfile, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, id := range ids {
		row, ok := byID[id]
		if !ok {
			s.logger.Warn("candidate not found, skipping", zap.String(logger.FieldCandidateID, id))
			continue
		}

		g.Go(func() error {
			vec, err := s.vectors.GetVector(gctx, KindCandidate, id)
			if err != nil {
				if errors.Is(err, ErrVectorNotFound) {
					s.logger.Warn("candidate has no embedding, skipping", zap.String(logger.FieldCandidateID, id))
					return nil
				}
				return err
			}

			profiles[i] = &matching.CandidateProfile{
				CandidateID: id,
				Embedding:   vec,
				Fields:      row.ExtractedFields(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]matching.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}
