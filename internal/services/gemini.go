package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// maxEmbedInput keeps a single request under the model's token limit.
const maxEmbedInput = 40000

type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	embedModel string
	logger     *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, embedModel string, logger *zap.Logger) (EmbeddingService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		embedModel: embedModel,
		logger:     logger,
	}, nil
}

// GenerateEmbedding implements EmbeddingService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedInput {
		text = text[:maxEmbedInput]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	g.logger.Debug("embedding generated",
		zap.String("model", g.embedModel),
		zap.Int("dimensions", len(result.Embeddings[0].Values)),
	)

	return result.Embeddings[0].Values, nil
}

type retryingEmbedder struct {
	next         EmbeddingService
	maxAttempts  int
	initialDelay time.Duration
	logger       *zap.Logger
}

// WithRetry wraps an EmbeddingService so transient failures are retried with
// exponential backoff starting at initialDelay.
func WithRetry(next EmbeddingService, maxAttempts int, initialDelay time.Duration, logger *zap.Logger) EmbeddingService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryingEmbedder{
		next:         next,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		logger:       logger,
	}
}

// GenerateEmbedding implements EmbeddingService.
func (r *retryingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	delay := r.initialDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		embedding, err := r.next.GenerateEmbedding(ctx, text)
		if err == nil {
			return embedding, nil
		}

		lastErr = err
		if attempt == r.maxAttempts {
			break
		}

		r.logger.Warn("embedding attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", r.maxAttempts, lastErr)
}
