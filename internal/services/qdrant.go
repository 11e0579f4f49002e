package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

type VectorKind string

const (
	KindJob       VectorKind = "job"
	KindCandidate VectorKind = "candidate"
)

var ErrVectorNotFound = errors.New("vector not found")

type VectorStore interface {
	InitCollection(ctx context.Context) error
	UpsertVector(ctx context.Context, kind VectorKind, entityID string, embedding []float32) error
	GetVector(ctx context.Context, kind VectorKind, entityID string) ([]float32, error)
	SearchSimilar(ctx context.Context, kind VectorKind, query []float32, limit int) ([]SearchResult, error)
	DeleteVector(ctx context.Context, kind VectorKind, entityID string) error
}

type SearchResult struct {
	EntityID string
	Kind     VectorKind
	Score    float32
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, vectorSize uint64, logger *zap.Logger) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		logger:         logger,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Info("qdrant collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if _, err := q.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: q.collectionName,
		FieldName:      "kind",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	}); err != nil {
		return fmt.Errorf("failed to index kind field: %w", err)
	}

	q.logger.Info("qdrant collection created",
		zap.String("collection", q.collectionName),
		zap.Uint64("vector_size", q.vectorSize),
	)
	return nil
}

// UpsertVector implements VectorStore. Re-indexing an entity overwrites its previous vector.
func (q *qdrantService) UpsertVector(ctx context.Context, kind VectorKind, entityID string, embedding []float32) error {
	if uint64(len(embedding)) != q.vectorSize {
		return fmt.Errorf("embedding has %d dimensions, collection expects %d", len(embedding), q.vectorSize)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID(kind, entityID)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"entity_id": entityID,
			"kind":      string(kind),
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// GetVector implements VectorStore.
func (q *qdrantService) GetVector(ctx context.Context, kind VectorKind, entityID string) ([]float32, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewID(pointID(kind, entityID))},
		WithVectors:    qdrant.NewWithVectors(true),
		WithPayload:    qdrant.NewWithPayload(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s vector %s: %w", kind, entityID, err)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%s %s: %w", kind, entityID, ErrVectorNotFound)
	}

	values := denseValues(points[0].GetVectors().GetVector())
	if len(values) == 0 {
		return nil, fmt.Errorf("%s %s: %w", kind, entityID, ErrVectorNotFound)
	}

	return values, nil
}

// SearchSimilar implements VectorStore.
func (q *qdrantService) SearchSimilar(ctx context.Context, kind VectorKind, query []float32, limit int) ([]SearchResult, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("kind", string(kind)),
		},
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(query...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		result := SearchResult{
			Kind:  kind,
			Score: point.Score,
		}

		if id, ok := point.Payload["entity_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				result.EntityID = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// DeleteVector implements VectorStore.
func (q *qdrantService) DeleteVector(ctx context.Context, kind VectorKind, entityID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(pointID(kind, entityID))),
	})
	if err != nil {
		return fmt.Errorf("failed to delete vector: %w", err)
	}

	return nil
}

// pointID derives a stable point id so every entity owns exactly one point per kind.
func pointID(kind VectorKind, entityID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(kind)+":"+entityID)).String()
}

func denseValues(v *qdrant.VectorOutput) []float32 {
	if v == nil {
		return nil
	}
	if dense := v.GetDense(); dense != nil {
		return dense.GetData()
	}
	return v.GetData()
}
