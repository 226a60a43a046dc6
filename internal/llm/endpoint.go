package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/josinaldojr/gemini-rag/internal/rag"
	"go.uber.org/zap"
)

// EndpointClient talks to an embedding endpoint and a generation endpoint
// that both accept {"contents":[{"parts":[{"text":...}]}]}.
//
// Embedding responses must carry a top-level numeric "embedding" array.
// Generation responses are read from candidates[0].content.parts[0].text,
// falling back to contents[0].parts[0].text.
type EndpointClient struct {
	embedURL    string
	generateURL string
	apiKey      string
	client      *http.Client
	logger      *zap.Logger
}

type EndpointOption func(*EndpointClient)

func WithHTTPClient(c *http.Client) EndpointOption {
	return func(e *EndpointClient) {
		if c != nil {
			e.client = c
		}
	}
}

func WithLogger(l *zap.Logger) EndpointOption {
	return func(e *EndpointClient) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEndpointClient(embedURL, generateURL, apiKey string, opts ...EndpointOption) *EndpointClient {
	c := &EndpointClient{
		embedURL:    embedURL,
		generateURL: generateURL,
		apiKey:      apiKey,
		client:      &http.Client{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type contentsRequest struct {
	Contents []content `json:"contents"`
}

type embedResponse struct {
	Embedding json.RawMessage `json:"embedding"`
}

type responsePart struct {
	Text *string `json:"text"`
}

type responseContent struct {
	Parts []responsePart `json:"parts"`
}

type generateResponse struct {
	Candidates []struct {
		Content responseContent `json:"content"`
	} `json:"candidates"`
	Contents []responseContent `json:"contents"`
}

func (c *EndpointClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, rag.ErrEmptyText
	}

	body, err := c.post(ctx, c.embedURL, text)
	if err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &rag.MalformedResponseError{Field: "embedding", Reason: err.Error()}
	}
	if len(resp.Embedding) == 0 || string(resp.Embedding) == "null" {
		return nil, &rag.MalformedResponseError{Field: "embedding"}
	}

	var values []float32
	if err := json.Unmarshal(resp.Embedding, &values); err != nil {
		return nil, &rag.MalformedResponseError{Field: "embedding", Reason: "not a numeric list"}
	}
	if len(values) == 0 {
		return nil, &rag.MalformedResponseError{Field: "embedding", Reason: "empty list"}
	}

	return values, nil
}

func (c *EndpointClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := c.post(ctx, c.generateURL, prompt)
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &rag.MalformedResponseError{Field: "candidates", Reason: err.Error()}
	}

	if len(resp.Candidates) > 0 {
		if txt, ok := firstText(resp.Candidates[0].Content); ok {
			return strings.TrimSpace(txt), nil
		}
	}
	if len(resp.Contents) > 0 {
		if txt, ok := firstText(resp.Contents[0]); ok {
			return strings.TrimSpace(txt), nil
		}
	}

	return "", &rag.MalformedResponseError{Field: "candidates[0].content.parts[0].text"}
}

func firstText(c responseContent) (string, bool) {
	if len(c.Parts) == 0 || c.Parts[0].Text == nil {
		return "", false
	}
	return *c.Parts[0].Text, true
}

func (c *EndpointClient) post(ctx context.Context, url, text string) ([]byte, error) {
	payload, err := json.Marshal(contentsRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("model endpoint response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &rag.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

var _ rag.Embedder = (*EndpointClient)(nil)
var _ rag.Generator = (*EndpointClient)(nil)
