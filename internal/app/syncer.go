package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/branch-sync/internal/config"
	"github.com/samvad-hq/branch-sync/internal/logger"
	"github.com/samvad-hq/branch-sync/internal/poller"
	"github.com/samvad-hq/branch-sync/internal/storage"
	"github.com/samvad-hq/branch-sync/pkg/coroutine"
	"github.com/samvad-hq/branch-sync/pkg/publishers"
	"github.com/samvad-hq/branch-sync/pkg/serialization"
	"github.com/samvad-hq/branch-sync/pkg/webclient"
)

// Syncer represents the branch sync runtime. It drives the frame scheduler,
// starts a poll pass over every configured resource on each interval, and
// owns the snapshot store and publishers.
type Syncer struct {
	cfg           *config.Config
	client        *webclient.Client
	sched         *coroutine.Scheduler
	pollService   *poller.Service
	fanout        *publishers.Fanout
	store         storage.Store
	pollInterval  time.Duration
	frameInterval time.Duration
	log           logger.Logger
}

// NewClient builds the request executor described by cfg.
func NewClient(cfg *config.Config, log logger.Logger) (*webclient.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	opt, err := serialization.ForName(cfg.Serialization, log)
	if err != nil {
		return nil, err
	}

	opts := []webclient.ClientOption{
		webclient.WithLogger(log),
		webclient.WithTimeout(cfg.RequestTimeout),
	}
	if cfg.HasAuthToken() {
		opts = append(opts, webclient.WithBearerToken(strings.TrimSpace(cfg.AuthToken)))
	}
	return webclient.New(cfg.BaseURL, opt, opts...)
}

// NewSyncer builds a syncer runtime from config.
func NewSyncer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}
	log.InfoObj("client initialized", "client_config", map[string]any{
		"base_url":        client.BaseURL(),
		"serialization":   cfg.Serialization,
		"authorized":      cfg.HasAuthToken(),
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
		"resources":       cfg.Resources,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		SnapshotTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"snapshot_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	sched := coroutine.NewScheduler()
	processor := poller.NewProcessor(store, fanout, log)

	return &Syncer{
		cfg:           cfg,
		client:        client,
		sched:         sched,
		pollService:   poller.NewService(client, sched, processor, log),
		fanout:        fanout,
		store:         store,
		pollInterval:  cfg.PollInterval,
		frameInterval: cfg.FrameInterval,
		log:           log,
	}, nil
}

// buildFanout loads the optional publishers file. Without one the fanout is empty.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		log.InfoObj("no publishers file configured", "publishers_meta", map[string]any{"count": 0})
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run drives frames and poll passes until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if s == nil || s.pollService == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.shutdown()

	resources := s.cfg.Resources
	if len(resources) == 0 {
		s.log.WarnObj("no resources configured; syncer idle", "resources", resources)
		<-ctx.Done()
		return nil
	}

	s.log.InfoObj("syncer loop starting", "syncer_state", map[string]any{
		"resources_count":  len(resources),
		"publishers_count": s.fanout.Size(),
		"poll_interval":    s.pollInterval.String(),
		"frame_interval":   s.frameInterval.String(),
	})

	s.pollOnce(ctx, resources)

	frames := time.NewTicker(s.frameInterval)
	defer frames.Stop()
	polls := time.NewTicker(s.pollInterval)
	defer polls.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("syncer loop exiting", "reason", ctx.Err())
			return nil
		case <-frames.C:
			s.sched.Tick()
		case <-polls.C:
			s.pollOnce(ctx, resources)
		}
	}
}

// pollOnce starts one request per resource; completions arrive on later frames.
func (s *Syncer) pollOnce(ctx context.Context, resources []string) {
	handles, err := s.pollService.Run(ctx, resources)
	if err != nil {
		s.log.ErrorObj("poll pass failed to start", "error", err)
	}
	stats := s.pollService.Stats()
	s.log.DebugObj("poll pass started", "poll_meta", map[string]any{
		"started":   len(handles),
		"pending":   s.sched.Pending(),
		"delivered": stats.Delivered,
		"failed":    stats.Failed,
		"empty":     stats.Empty,
	})
}

// shutdown stops the scheduler and releases the store and publishers, logging any errors encountered.
func (s *Syncer) shutdown() {
	s.sched.Close()
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	if err := s.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("publishers close: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		s.log.ErrorObj("syncer shutdown failed", "error", err)
	}
}
