package catalog

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/embeddings"
)

// embedBatchSize is the number of descriptions sent to the embedder per call.
const embedBatchSize = 32

// ErrEmptyCatalog is returned when a store would be built from zero records.
var ErrEmptyCatalog = errors.New("catalog contains no assessments")

// Store is an immutable snapshot of the embedded catalog. It is safe for
// concurrent readers; nothing mutates it after construction.
type Store struct {
	assessments []Assessment
	dimension   int
}

// NewStore builds a snapshot from records that already carry embeddings.
// All embeddings must share one dimension.
func NewStore(assessments []Assessment) (*Store, error) {
	if len(assessments) == 0 {
		return nil, ErrEmptyCatalog
	}

	dimension := len(assessments[0].Embedding)
	if dimension == 0 {
		return nil, errors.New("first assessment has no embedding")
	}
	for _, a := range assessments {
		if len(a.Embedding) != dimension {
			return nil, fmt.Errorf("embedding dimension mismatch for %q: got %d, want %d",
				a.Link, len(a.Embedding), dimension)
		}
	}

	return &Store{assessments: assessments, dimension: dimension}, nil
}

// Assessments returns the snapshot's records. Callers must treat the slice as
// read-only.
func (s *Store) Assessments() []Assessment {
	return s.assessments
}

func (s *Store) Len() int {
	return len(s.assessments)
}

// Dimension returns the embedding dimensionality shared by all records.
func (s *Store) Dimension() int {
	return s.dimension
}

// BuildOptions tune the bulk embedding pass.
type BuildOptions struct {
	// Workers bounds concurrent embedding calls. Defaults to half the CPUs.
	Workers int
}

// Build embeds every assessment description and returns an immutable store.
// Descriptions are embedded in batches through a bounded worker pool.
func Build(ctx context.Context, assessments []Assessment, embedder embeddings.Embedder, logger *zap.Logger, opts *BuildOptions) (*Store, error) {
	if len(assessments) == 0 {
		return nil, ErrEmptyCatalog
	}

	workers := 0
	if opts != nil {
		workers = opts.Workers
	}
	if workers < 1 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating embedding pool: %w", err)
	}
	defer pool.Release()

	records := make([]Assessment, len(assessments))
	copy(records, assessments)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Description
			}

			vectors, err := embedder.EmbedTexts(ctx, texts)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submitting embedding batch: %w", submitErr)
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("embedding catalog: %w", firstErr)
	}

	store, err := NewStore(records)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("catalog embedded",
			zap.Int("assessments", store.Len()),
			zap.Int("dimension", store.Dimension()),
		)
	}

	return store, nil
}

// Holder publishes the active catalog snapshot. Swapping installs a fully
// built store atomically so in-flight requests never observe a partial one.
type Holder struct {
	current atomic.Pointer[Store]
}

func NewHolder(store *Store) *Holder {
	h := &Holder{}
	if store != nil {
		h.current.Store(store)
	}
	return h
}

// Current returns the active snapshot, or nil when none is installed yet.
func (h *Holder) Current() *Store {
	return h.current.Load()
}

// Swap installs a new snapshot and returns the previous one.
func (h *Holder) Swap(store *Store) *Store {
	return h.current.Swap(store)
}
