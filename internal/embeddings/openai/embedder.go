// Package openai implements the embeddings contract on top of any
// OpenAI-compatible embedding endpoint, such as a local server hosting a
// sentence-transformers model.
package openai

import (
	"context"
	"errors"
	"strings"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultModel = "all-MiniLM-L6-v2"

// Config holds connection settings for the embedding endpoint.
type Config struct {
	// BaseURL is the OpenAI-compatible API root, e.g. http://localhost:8081/v1.
	BaseURL string
	// Model is the embedding model name. Defaults to all-MiniLM-L6-v2.
	Model string
	// Token is the API token. Local services usually don't need one, in which
	// case "none" is sent.
	Token string
}

// Embedder calls an OpenAI-compatible embeddings API through langchaingo.
type Embedder struct {
	embedder lcembeddings.Embedder
	logger   *zap.Logger
}

// NewEmbedder creates an embedder for the configured endpoint.
func NewEmbedder(cfg Config, logger *zap.Logger) (*Embedder, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("embeddings base url is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		// langchaingo requires a token even for unauthenticated services.
		token = "none"
	}

	client, err := lcopenai.New(
		lcopenai.WithBaseURL(baseURL),
		lcopenai.WithToken(token),
		lcopenai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := lcembeddings.NewEmbedder(client, lcembeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   logger.With(zap.String("component", "openai-embedder"), zap.String("model", model)),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("generating embedding failed", zap.Int("text_length", len(text)), zap.Error(err))
		return nil, err
	}

	if len(vectors) == 0 {
		return nil, errors.New("embedding endpoint returned empty result")
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple texts in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", zap.Int("count", len(texts)))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("generating embeddings failed", zap.Int("count", len(texts)), zap.Error(err))
		return nil, err
	}

	return vectors, nil
}
