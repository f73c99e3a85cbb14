package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"astroview/internal/maprender"
	"astroview/internal/providers"
	"astroview/internal/refresh/interfaces"
	"astroview/internal/services"
	"astroview/internal/structures"
)

// Scheduler drives the periodic poll cycle: fetch, change-detect, and on a
// material change replace the store and reconcile markers. Timer ticks and
// the manual refresh action share the same entry point; the in-flight
// guard keeps at most one poll running and coalesces extra triggers.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.SiteServiceInterface
	detector    ChangeDetectorInterface
	fetcher     FetcherInterface
	markers     *maprender.MarkerManager
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	inFlight    atomic.Bool
	persistMu   sync.Mutex
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	service services.SiteServiceInterface,
	detector ChangeDetectorInterface,
	fetcher FetcherInterface,
	markers *maprender.MarkerManager,
	fileManager *FileManager,
	metrics providers.MetricsProviderInterface,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		detector:    detector,
		fetcher:     fetcher,
		markers:     markers,
		fileManager: fileManager,
		metrics:     metrics,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Refresh.Interval), func() {
		if _, err := s.Refresh(); err != nil {
			// transient: the map stays usable with last-good data and the
			// next tick retries naturally
			s.logger.Errorf(providers.TypeSync, "Poll cycle skipped: %s", err)
		}
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		if err := s.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Bootstrap runs one poll and then renders the marker set explicitly. The
// first-ever poll stores a fingerprint but never counts as "changed", so
// the initial render has to be requested here rather than left to the
// detector.
func (s *Scheduler) Bootstrap() {
	if _, err := s.Refresh(); err != nil {
		s.logger.Warnf(providers.TypeSync, "Bootstrap poll failed, serving restored data: %s", err)
	}
	s.markers.Reconcile(s.service.Records())
	s.metrics.SetMarkersRendered(s.markers.Count())
}

// Refresh is the shared entry point for timer ticks and the manual
// refresh action. A trigger that arrives while a poll is in flight is
// coalesced, never queued.
func (s *Scheduler) Refresh() (interfaces.RefreshOutcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.IncPollsTotal("coalesced")
		s.logger.Debugf(providers.TypeSync, "Poll already in flight, trigger coalesced")
		return interfaces.RefreshCoalesced, nil
	}
	defer s.inFlight.Store(false)

	return s.poll()
}

func (s *Scheduler) poll() (interfaces.RefreshOutcome, error) {
	ctx := context.Background()
	if s.config.Feed.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Feed.Timeout)
		defer cancel()
	}

	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx)
	s.metrics.ObserveFetchDuration(time.Since(start))
	if err != nil {
		s.metrics.IncPollsTotal("error")
		return "", err
	}

	token, err := s.detector.Fingerprint(doc.Observatories)
	if err != nil {
		s.metrics.IncPollsTotal("error")
		return "", err
	}

	prev := s.service.Token()
	if !s.detector.HasChanged(prev, token) {
		if prev == "" {
			// first observation: populate the store, remember the token,
			// no reconciliation
			s.service.Replace(doc.Observatories, token, doc.LastUpdated, doc.Source)
			s.logger.Infof(providers.TypeSync, "Loaded %d sites (initial observation)", len(doc.Observatories))
		} else {
			s.logger.Debugf(providers.TypeSync, "Feed unchanged, %d sites", len(doc.Observatories))
		}
		s.metrics.IncPollsTotal("unchanged")
		return interfaces.RefreshUnchanged, nil
	}

	s.service.Replace(doc.Observatories, token, doc.LastUpdated, doc.Source)
	s.markers.Reconcile(s.service.Records())
	s.metrics.SetMarkersRendered(s.markers.Count())
	s.metrics.IncPollsTotal("changed")
	s.logger.Infof(providers.TypeSync, "Feed changed, reloaded %d sites", len(doc.Observatories))

	return interfaces.RefreshChanged, nil
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Persisted snapshot to %s", s.config.Persistence.FilePath)
	return nil
}
