package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 2000
	defaultChunkOverlap = 200
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. Paragraphs are packed into chunks of at most
// maxChunkSize runes; oversized paragraphs are split on sentence boundaries.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			b.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			for _, piece := range splitRunes(sentence, maxChunkSize) {
				b.add(piece, " ")
			}
		}
	}

	return b.finish()
}

type chunkBuilder struct {
	max     int
	overlap int
	current strings.Builder
	chunks  []string
}

func (b *chunkBuilder) add(piece, sep string) {
	if b.current.Len() > 0 && !b.fits(piece, sep) {
		b.flush()
		if !b.fits(piece, sep) {
			b.current.Reset()
		}
	}

	if b.current.Len() > 0 {
		b.current.WriteString(sep)
	}
	b.current.WriteString(piece)
}

func (b *chunkBuilder) fits(piece, sep string) bool {
	size := utf8.RuneCountInString(b.current.String())
	if size == 0 {
		return utf8.RuneCountInString(piece) <= b.max
	}
	return size+utf8.RuneCountInString(sep)+utf8.RuneCountInString(piece) <= b.max
}

func (b *chunkBuilder) flush() {
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()

	if tail := getLastNChars(prev, b.overlap); tail != "" && tail != prev {
		b.current.WriteString(tail)
	}
}

func (b *chunkBuilder) finish() []string {
	if b.current.Len() > 0 {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

// splitRunes cuts a single run-on sentence that alone exceeds the chunk size.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var parts []string
	for len(runes) > size {
		parts = append(parts, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}

// DocumentEmbedder turns arbitrarily long text into a single vector.
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

type chunkedEmbedder struct {
	embeddings EmbeddingService
	chunker    TextChunker
	chunkSize  int
	overlap    int
}

// NewDocumentEmbedder embeds each chunk of a document and mean-pools the chunk
// vectors, normalising the result to unit length.
func NewDocumentEmbedder(embeddings EmbeddingService, chunker TextChunker) DocumentEmbedder {
	return &chunkedEmbedder{
		embeddings: embeddings,
		chunker:    chunker,
		chunkSize:  defaultChunkSize,
		overlap:    defaultChunkOverlap,
	}
}

// EmbedDocument implements DocumentEmbedder.
func (e *chunkedEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	chunks := e.chunker.ChunkText(text, e.chunkSize, e.overlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to embed")
	}

	if len(chunks) == 1 {
		return e.embeddings.GenerateEmbedding(ctx, chunks[0])
	}

	var sum []float64
	for i, chunk := range chunks {
		vec, err := e.embeddings.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		if sum == nil {
			sum = make([]float64, len(vec))
		}
		if len(vec) != len(sum) {
			return nil, fmt.Errorf("chunk %d has %d dimensions, expected %d", i, len(vec), len(sum))
		}
		for j, v := range vec {
			sum[j] += float64(v)
		}
	}

	return normalize(sum), nil
}

func normalize(v []float64) []float32 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	for i, x := range v {
		if norm == 0 {
			out[i] = 0
			continue
		}
		out[i] = float32(x / norm)
	}
	return out
}
