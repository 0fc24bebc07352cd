package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"CornTicker/internal/collector"
	"CornTicker/internal/model"
	"CornTicker/internal/notifier"
	"CornTicker/internal/recorder"
	"CornTicker/internal/series"
)

// PollSpec is the fixed polling cadence.
const PollSpec = "@every 60s"

// Renderer draws the buffered prices. recent supplies axis labels.
type Renderer interface {
	Render(prices []float64, lo, hi float64, recent []model.PriceObservation) error
}

// Alerter delivers operator alerts.
type Alerter interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler drives the poll-store-render loop.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Buffer    *series.Buffer
	Renderer  Renderer
	Alerter   Alerter // optional
	Symbol    string
	Now       func() time.Time
	Ctx       context.Context

	log          zerolog.Logger
	loginAlerted bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, buf *series.Buffer, r Renderer, logger zerolog.Logger) *Scheduler {
	cronLog := cron.PrintfLogger(&logger)
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		Collector: col,
		Recorder:  rec,
		Buffer:    buf,
		Renderer:  r,
		Now:       time.Now,
		Ctx:       ctx,
		log:       logger,
	}
}

// Register adds the polling task to cron.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(PollSpec, func() { s.Tick() }); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Str("spec", PollSpec).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for an in-flight tick.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// Run ticks once immediately, then on the poll cadence until Ctx is cancelled.
func (s *Scheduler) Run() error {
	if err := s.Register(); err != nil {
		return err
	}
	s.Tick()
	s.Start()
	<-s.Ctx.Done()
	s.Stop()
	return nil
}

// Tick runs one poll-store-render pass and reports whether a price was stored.
// Every failure is logged and absorbed here.
func (s *Scheduler) Tick() bool {
	stored := false
	now := s.Now()
	if IsBlackout(now) {
		s.log.Debug().Time("now", now).Msg("blackout window, skipping fetch")
	} else {
		stored = s.collect()
	}
	s.render()
	return stored
}

func (s *Scheduler) collect() bool {
	obs, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false
		}
		s.log.Warn().Err(err).Msg("no price this tick")
		if collector.NeedsLogin(err) {
			s.alertLogin(err)
		}
		return false
	}
	s.loginAlerted = false

	stored := true
	if err := s.Recorder.Append(obs); err != nil {
		s.log.Error().Err(err).Float64("price", obs.Price).Msg("record price")
		stored = false
	}
	s.Buffer.Push(obs.Price)

	lo, hi := s.Buffer.Range()
	s.log.Info().
		Str("timestamp", obs.Timestamp()).
		Float64("price", obs.Price).
		Float64("range_min", lo).
		Float64("range_max", hi).
		Msg("price observed")
	return stored
}

func (s *Scheduler) render() {
	if s.Renderer == nil {
		return
	}
	recent, err := s.Recorder.Recent(s.Buffer.Capacity())
	if err != nil {
		s.log.Warn().Err(err).Msg("load recent prices for render")
	}
	lo, hi := s.Buffer.Range()
	if err := s.Renderer.Render(s.Buffer.Prices(), lo, hi, recent); err != nil {
		s.log.Error().Err(err).Msg("render chart")
	}
}

// alertLogin sends one alert per failure streak; a successful fetch re-arms it.
func (s *Scheduler) alertLogin(cause error) {
	if s.Alerter == nil || s.loginAlerted {
		return
	}
	s.loginAlerted = true
	if err := s.Alerter.SendWithRetry(s.Ctx, notifier.FormatLoginAlert(s.Symbol, cause, s.Now()), 2); err != nil {
		s.log.Error().Err(err).Msg("send login alert")
	}
}
