package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/talent-matcher/internal/config"
	"alfredoptarigan/talent-matcher/internal/logger"
	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/repositories"
	"alfredoptarigan/talent-matcher/internal/services"
)

// Bulk-ingests every PDF in a directory. The file name without extension becomes the candidate id.
func main() {
	dir := flag.String("dir", "./resumes", "directory containing resume PDFs")
	flag.Parse()

	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		zl.Fatal("failed to initialize gemini", zap.Error(err))
	}

	vectors, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize, zl)
	if err != nil {
		zl.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := vectors.InitCollection(ctx); err != nil {
		zl.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	storage := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storage.EnsureUploadDir(); err != nil {
		zl.Fatal("failed to create upload directory", zap.Error(err))
	}

	indexer := services.NewIndexerService(
		repositories.NewCandidateRepository(db),
		repositories.NewJobRepository(db),
		vectors,
		services.NewDocumentEmbedder(
			services.WithRetry(gemini, cfg.Worker.RetryMaxAttempts, cfg.Worker.RetryInitialDelay, zl),
			services.NewTextChunker(),
		),
		services.NewPDFParserService(),
		services.NewProfileExtractor(matching.DefaultPatterns()),
		storage,
		zl,
	)

	paths, err := filepath.Glob(filepath.Join(*dir, "*.pdf"))
	if err != nil {
		zl.Fatal("failed to list resumes", zap.Error(err))
	}
	if len(paths) == 0 {
		zl.Warn("no resumes found", zap.String("dir", *dir))
		return
	}

	successCount := 0
	failCount := 0

	for _, path := range paths {
		candidateID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		log := zl.With(zap.String(logger.FieldCandidateID, candidateID), zap.String("path", path))

		resume, err := storage.ImportResume(path, candidateID)
		if err != nil {
			log.Error("failed to copy resume", zap.Error(err))
			failCount++
			continue
		}

		_, err = indexer.IngestResume(ctx, services.ResumeInput{
			CandidateID: candidateID,
			Filename:    resume.Filename,
			FilePath:    resume.Path,
			StagedPath:  resume.StagedPath,
		})
		_ = storage.Discard(resume.StagedPath)
		if err != nil {
			log.Error("failed to ingest resume", zap.Error(err))
			failCount++
			continue
		}

		successCount++
	}

	zl.Info("ingestion finished", zap.Int("succeeded", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		_ = zl.Sync()
		os.Exit(1)
	}
}
