package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/ai"
	"github.com/talentsift/shl-recommender/internal/ai/gemini"
	"github.com/talentsift/shl-recommender/internal/catalog"
	"github.com/talentsift/shl-recommender/internal/embeddings/openai"
	"github.com/talentsift/shl-recommender/internal/recommender"
	"github.com/talentsift/shl-recommender/internal/secrets"
)

// newService loads the catalog, embeds it and wires the recommendation
// pipeline. Enrichment is optional: when it cannot be configured the service
// still runs on plain similarity scoring.
func newService(ctx context.Context, config *Config, logger *zap.Logger) (*recommender.Service, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Catalog == nil || config.Catalog.Path == "" {
		return nil, errors.New("catalog path is required under catalog.path")
	}
	if config.Embeddings == nil || config.Embeddings.BaseURL == "" {
		return nil, errors.New("embeddings endpoint is required under embeddings.base-url")
	}

	embedder, err := openai.NewEmbedder(openai.Config{
		BaseURL: config.Embeddings.BaseURL,
		Model:   config.Embeddings.Model,
		Token:   config.Embeddings.Token,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	assessments, err := catalog.Load(config.Catalog.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	store, err := catalog.Build(ctx, assessments, embedder, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog store: %w", err)
	}

	enricher, err := newEnricher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("query enrichment disabled", zap.Error(err))
		enricher = nil
	}

	defaults := recommender.Defaults{}
	if config.Ranking != nil {
		defaults.TopK = config.Ranking.TopK
		defaults.MaxDuration = config.Ranking.MaxDuration
	}

	return recommender.New(catalog.NewHolder(store), embedder, enricher, defaults, logger), nil
}

func newEnricher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Enricher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai enrichment is not enabled")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai enrichment is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	enricherLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second

	return gemini.NewEnricher(generator, timeout, cfg.Gemini.MaxLogLength, enricherLogger), nil
}
