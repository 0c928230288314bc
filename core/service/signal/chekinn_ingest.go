package signal

import (
	"context"
	"time"

	"chekinn_server/core/domain"
	"chekinn_server/pkg/logger"

	"github.com/google/uuid"
)

// Ingestor wraps the classifiers with idempotency and persistence. Each post
// is consumed at most once per user; a post yielding zero signals is still
// marked processed.
type Ingestor struct {
	classifier *Classifier
	llm        *LLMExtractor
	signals    domain.SignalRepository
	processed  domain.ProcessedSourceStore
	log        *logger.Logger
}

// NewIngestor creates an ingestor. llm may be nil, in which case LLM-based
// ingestion degrades to the pattern classifier.
func NewIngestor(classifier *Classifier, llm *LLMExtractor, signals domain.SignalRepository, processed domain.ProcessedSourceStore) *Ingestor {
	return &Ingestor{
		classifier: classifier,
		llm:        llm,
		signals:    signals,
		processed:  processed,
		log:        logger.Default().WithField("component", "signal-ingest"),
	}
}

// Ingest classifies unprocessed posts and stores the resulting signals. One
// post's failure never aborts the batch.
func (i *Ingestor) Ingest(ctx context.Context, userID uuid.UUID, posts []domain.PostSource, useLLM bool) ([]*domain.Signal, error) {
	now := time.Now().UTC()
	var emitted []*domain.Signal

	for _, post := range posts {
		if post.SourceID == "" {
			continue
		}

		done, err := i.processed.IsProcessed(ctx, userID, post.SourceID)
		if err != nil {
			i.log.WithError(err).Warn("idempotency check failed for post %s", post.SourceID)
			continue
		}
		if done {
			continue
		}

		signals := i.classify(ctx, userID, post, now, useLLM)
		if len(signals) > 0 {
			if err := i.signals.CreateBatch(signals); err != nil {
				i.log.WithError(err).Warn("storing %d signals failed for post %s", len(signals), post.SourceID)
				continue
			}
			emitted = append(emitted, signals...)
		}

		if err := i.processed.MarkProcessed(ctx, userID, post.SourceID); err != nil {
			i.log.WithError(err).Warn("marking post %s processed failed", post.SourceID)
		}
	}

	if emitted == nil {
		emitted = []*domain.Signal{}
	}
	return emitted, nil
}

func (i *Ingestor) classify(ctx context.Context, userID uuid.UUID, post domain.PostSource, now time.Time, useLLM bool) []*domain.Signal {
	if useLLM && i.llm != nil {
		return i.llm.Extract(ctx, userID, post, now)
	}
	return i.classifier.Classify(userID, post, now)
}
