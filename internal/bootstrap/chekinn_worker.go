package bootstrap

import (
	"context"
	"os"
	"sync"

	"chekinn_server/adapter/in/worker"
	"chekinn_server/adapter/out/messaging"
	"chekinn_server/config"
	"chekinn_server/pkg/logger"

	"github.com/rs/zerolog"
)

type Worker struct {
	consumer  *messaging.Consumer
	scheduler *worker.DecayScheduler
	deps      *Dependencies
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	zlog      zerolog.Logger
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "worker").Logger()

	scrapeProcessor := worker.NewScrapeProcessor(deps.Scraper)
	reputationProcessor := worker.NewReputationProcessor(deps.ReputationService)
	handler := worker.NewHandler(scrapeProcessor, reputationProcessor)

	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		zlog:   zlog,
	}

	streams := []string{
		messaging.StreamScrape,
		messaging.StreamReputation,
	}
	w.consumer = messaging.NewConsumer(deps.Redis, &messaging.ConsumerConfig{
		Group:    "chekinn-workers",
		Consumer: cfg.WorkerID,
		Streams:  streams,
		Handler:  handler,
		Logger:   zlog,
	})
	logger.Info("Redis Stream Consumer configured for %d streams", len(streams))

	if cfg.SchedulerEnabled {
		w.scheduler = worker.NewDecayScheduler(
			deps.ReputationService,
			deps.Producer,
			cfg.DecayInterval,
			cfg.DecayGraceDays,
			100,
		)
		logger.Info("Decay scheduler configured (interval: %v)", cfg.DecayInterval)
	}

	return w, cleanup, nil
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.zlog.Info().Msg("Starting Redis Stream Consumer...")
		if err := w.consumer.Run(w.ctx); err != nil && err != context.Canceled {
			w.zlog.Error().Err(err).Msg("Redis Stream Consumer error")
		}
	}()

	if w.scheduler != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.zlog.Info().Msg("Starting decay scheduler...")
			w.scheduler.Run(w.ctx)
		}()
	}

	<-w.ctx.Done()
}

func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) Dependencies() *Dependencies {
	return w.deps
}
