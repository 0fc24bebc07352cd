package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"CornTicker/internal/collector"
	"CornTicker/internal/config"
	"CornTicker/internal/credentials"
	"CornTicker/internal/notifier"
	"CornTicker/internal/recorder"
	"CornTicker/internal/render"
	"CornTicker/internal/scheduler"
	"CornTicker/internal/series"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ticker", flag.ContinueOnError)
	debug := fs.Bool("d", false, "enable debug logging")
	cfgPath := fs.String("c", defaultConfigPath(), "config file path")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ticker [-d] [-c config.yaml]\n\nPolls one futures quote per minute, records it to SQLite and renders a chart.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if err := config.LoadEnvFile(envFilePath()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 1
	}

	logOut, closeLog, err := logOutput(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		return 1
	}
	defer closeLog()
	setupLogging(logOut, *debug || cfg.Log.Debug)

	log.Info().Str("symbol", cfg.DataSource.Symbol).Msg("ticker starting")

	credStore := credentials.NewStore(cfg.Credentials.File)
	creds, err := credStore.Load()
	if err != nil {
		log.Error().Err(err).Msg("load credentials")
		return 1
	}
	if !creds.CanRefresh() {
		log.Warn().Str("file", credStore.Path()).Msg("credentials incomplete, token refresh will fail")
	}

	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, component("recorder"))
	if err != nil {
		log.Error().Err(err).Msg("init sqlite recorder")
		return 1
	}
	defer rec.Close()
	reportStored(rec, log.Logger)

	httpClient := collector.NewHTTPClient(cfg.DataSource.BaseURL, cfg.Timeout(), cfg.Proxy)
	tokens := collector.NewTokenManager(cfg.DataSource.BaseURL, creds, credStore, httpClient.GetClient(), component("auth"))
	fetcher := collector.NewQuoteFetcher(httpClient, cfg.DataSource.Symbol, tokens, component("quote"))
	col := collector.NewCollector(fetcher)
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	chart := render.NewChartRenderer(cfg.Chart.OutputPath, cfg.Chart.Title, cfg.Chart.Width, cfg.Chart.Height, component("render"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, rec, series.NewBuffer(), chart, component("scheduler"))
	sched.Symbol = cfg.DataSource.Symbol
	if cfg.TelegramEnabled() {
		sched.Alerter = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, component("notifier"))
		log.Info().Msg("telegram login alerts enabled")
	}

	log.Info().Msg("ticker is running. Press Ctrl+C to stop.")
	if err := sched.Run(); err != nil {
		log.Error().Err(err).Msg("scheduler")
		return 1
	}
	log.Info().Msg("ticker stopped")
	return 0
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

type counter interface {
	Count() (int, error)
}

// reportStored logs the size of the price log. A failed count is not fatal.
func reportStored(c counter, logger zerolog.Logger) {
	n, err := c.Count()
	if err != nil {
		logger.Warn().Err(err).Msg("count stored prices")
		return
	}
	logger.Info().Int("rows", n).Msg("price log loaded")
}

func envFilePath() string {
	if v := os.Getenv("TICKER_ENV_FILE"); v != "" {
		return v
	}
	return "configs/ticker.env"
}

func setupLogging(out io.Writer, debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// logOutput returns a console writer on stderr, or the JSON log file when configured.
func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
