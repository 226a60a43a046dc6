package vectorindex

import (
	"context"
	"fmt"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"github.com/pinecone-io/go-pinecone/pinecone"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

// PineconeIndex is a data-plane connection to one Pinecone index.
type PineconeIndex struct {
	conn   *pinecone.IndexConnection
	name   string
	logger *zap.Logger
}

type PineconeConfig struct {
	APIKey      string
	IndexName   string
	Host        string // skips DescribeIndex when set
	Environment string // legacy pod environment; informational only
}

func NewPineconeIndex(ctx context.Context, cfg PineconeConfig, logger *zap.Logger) (*PineconeIndex, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing PINECONE_API_KEY")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	host := cfg.Host
	if host == "" {
		idx, err := pc.DescribeIndex(ctx, cfg.IndexName)
		if err != nil {
			return nil, fmt.Errorf("describe pinecone index %s: %w", cfg.IndexName, err)
		}
		host = idx.Host
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: host})
	if err != nil {
		return nil, fmt.Errorf("connect pinecone index %s: %w", cfg.IndexName, err)
	}

	logger.Info("connected to pinecone",
		zap.String("index", cfg.IndexName),
		zap.String("host", host),
		zap.String("environment", cfg.Environment),
	)

	return &PineconeIndex{conn: conn, name: cfg.IndexName, logger: logger}, nil
}

func (p *PineconeIndex) Upsert(ctx context.Context, entries []rag.IndexEntry) error {
	vectors := make([]*pinecone.Vector, 0, len(entries))
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return rag.ErrEmptyEmbedding
		}
		md, err := structpb.NewStruct(toAnyMap(e.Metadata))
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", e.ID, err)
		}
		vectors = append(vectors, &pinecone.Vector{
			Id:       e.ID,
			Values:   e.Vector,
			Metadata: md,
		})
	}

	n, err := p.conn.UpsertVectors(ctx, vectors)
	if err != nil {
		return fmt.Errorf("pinecone upsert: %w", err)
	}
	p.logger.Debug("pinecone upsert", zap.String("index", p.name), zap.Uint32("count", n))
	return nil
}

func (p *PineconeIndex) Query(ctx context.Context, vector []float32, k int) ([]rag.Match, error) {
	if len(vector) == 0 {
		return nil, rag.ErrEmptyEmbedding
	}
	if k <= 0 {
		k = rag.DefaultTopK
	}

	res, err := p.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(k),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}

	matches := make([]rag.Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		matches = append(matches, rag.Match{
			ID:       m.Vector.Id,
			Score:    float64(m.Score),
			Metadata: fromStruct(m.Vector.Metadata),
		})
	}
	return matches, nil
}

func (p *PineconeIndex) Close() error {
	return p.conn.Close()
}

func toAnyMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func fromStruct(s *structpb.Struct) map[string]string {
	if s == nil {
		return nil
	}
	out := make(map[string]string, len(s.GetFields()))
	for k, v := range s.GetFields() {
		if sv, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			out[k] = sv.StringValue
			continue
		}
		out[k] = fmt.Sprint(v.AsInterface())
	}
	return out
}

var _ rag.VectorIndex = (*PineconeIndex)(nil)
