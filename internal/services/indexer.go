package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/talent-matcher/internal/logger"
	"alfredoptarigan/talent-matcher/internal/models"
	"alfredoptarigan/talent-matcher/internal/repositories"
)

type ResumeInput struct {
	CandidateID string
	Name        string
	// Filename and FilePath name the resume as recorded on the candidate.
	Filename string
	FilePath string
	// StagedPath, when set, holds the uploaded bytes. It is parsed and then
	// promoted to Filename only after the resume has been embedded.
	StagedPath string
}

// IndexerService keeps Postgres rows and Qdrant vectors of candidates and jobs in step.
type IndexerService interface {
	IngestResume(ctx context.Context, input ResumeInput) (*models.Candidate, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error
	IndexJob(ctx context.Context, job *models.Job) (int, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	SimilarCandidates(ctx context.Context, jobID string, limit int) ([]models.SimilarCandidate, error)
}

type indexerService struct {
	candidates repositories.CandidateRepository
	jobs       repositories.JobRepository
	vectors    VectorStore
	embedder   DocumentEmbedder
	parser     PDFParserService
	extractor  *ProfileExtractor
	storage    StorageService
	logger     *zap.Logger
}

func NewIndexerService(
	candidates repositories.CandidateRepository,
	jobs repositories.JobRepository,
	vectors VectorStore,
	embedder DocumentEmbedder,
	parser PDFParserService,
	extractor *ProfileExtractor,
	storage StorageService,
	logger *zap.Logger,
) IndexerService {
	return &indexerService{
		candidates: candidates,
		jobs:       jobs,
		vectors:    vectors,
		embedder:   embedder,
		parser:     parser,
		extractor:  extractor,
		storage:    storage,
		logger:     logger,
	}
}

// IngestResume implements IndexerService. Re-ingesting an id replaces the
// previous profile, vector and file; a failed ingest leaves them untouched.
func (s *indexerService) IngestResume(ctx context.Context, input ResumeInput) (*models.Candidate, error) {
	log := s.logger.With(zap.String(logger.FieldCandidateID, input.CandidateID))

	source := input.FilePath
	if input.StagedPath != "" {
		source = input.StagedPath
	}

	content, err := s.parser.ExtractText(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}

	fields := s.extractor.Extract(content.Text)
	if fields.IsEmpty() {
		log.Warn("no structured fields found in resume", zap.Int("pages", content.PageCount))
	}

	embedding, err := s.embedder.EmbedDocument(ctx, content.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = input.CandidateID
	}

	filename := input.Filename
	if filename == "" {
		filename = filepath.Base(input.FilePath)
	}

	if input.StagedPath != "" {
		if err := s.storage.Promote(input.StagedPath, filename); err != nil {
			return nil, err
		}
	}

	candidate := &models.Candidate{
		ID:             input.CandidateID,
		Name:           name,
		ResumeFilename: filename,
		ResumePath:     input.FilePath,
	}
	candidate.SetExtractedFields(fields)

	if err := s.candidates.Upsert(ctx, candidate); err != nil {
		return nil, err
	}

	if err := s.vectors.UpsertVector(ctx, KindCandidate, candidate.ID, embedding); err != nil {
		return nil, fmt.Errorf("failed to store candidate embedding: %w", err)
	}

	log.Info("candidate indexed",
		zap.Int("skills", len(fields.Skills)),
		zap.Int("pages", content.PageCount),
		zap.Int("dimensions", len(embedding)),
	)

	return candidate, nil
}

// GetCandidate implements IndexerService.
func (s *indexerService) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	return s.candidates.FindByID(ctx, id)
}

// DeleteCandidate implements IndexerService.
func (s *indexerService) DeleteCandidate(ctx context.Context, id string) error {
	candidate, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.vectors.DeleteVector(ctx, KindCandidate, id); err != nil {
		return err
	}

	if err := s.candidates.Delete(ctx, id); err != nil {
		return err
	}

	if candidate.ResumeFilename != "" {
		if err := s.storage.DeleteFile(candidate.ResumeFilename); err != nil {
			s.logger.Warn("failed to remove resume file",
				zap.String(logger.FieldCandidateID, id),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("candidate deleted", zap.String(logger.FieldCandidateID, id))
	return nil
}

// IndexJob implements IndexerService and returns the embedding dimension.
func (s *indexerService) IndexJob(ctx context.Context, job *models.Job) (int, error) {
	embedding, err := s.embedder.EmbedDocument(ctx, job.Description)
	if err != nil {
		return 0, fmt.Errorf("failed to embed job description: %w", err)
	}

	if err := s.jobs.Upsert(ctx, job); err != nil {
		return 0, err
	}

	if err := s.vectors.UpsertVector(ctx, KindJob, job.ID, embedding); err != nil {
		return 0, fmt.Errorf("failed to store job embedding: %w", err)
	}

	s.logger.Info("job indexed",
		zap.String(logger.FieldJobID, job.ID),
		zap.Int("dimensions", len(embedding)),
	)

	return len(embedding), nil
}

// GetJob implements IndexerService.
func (s *indexerService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

// SimilarCandidates implements IndexerService using vector similarity only.
func (s *indexerService) SimilarCandidates(ctx context.Context, jobID string, limit int) ([]models.SimilarCandidate, error) {
	vec, err := s.vectors.GetVector(ctx, KindJob, jobID)
	if err != nil {
		if errors.Is(err, ErrVectorNotFound) {
			return nil, fmt.Errorf("job %s: %w", jobID, repositories.ErrNotFound)
		}
		return nil, err
	}

	results, err := s.vectors.SearchSimilar(ctx, KindCandidate, vec, limit)
	if err != nil {
		return nil, err
	}

	similar := make([]models.SimilarCandidate, 0, len(results))
	for _, r := range results {
		similar = append(similar, models.SimilarCandidate{
			CandidateID: r.EntityID,
			Score:       r.Score,
		})
	}
	return similar, nil
}
