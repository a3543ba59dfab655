package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/pingback/config"
	"github.com/marcelsud/pingback/internal/http/chi"
	"github.com/marcelsud/pingback/internal/logger"
	"github.com/marcelsud/pingback/metrics"
	"github.com/marcelsud/pingback/pingback"
	"github.com/marcelsud/pingback/pingback/fetch"
	"github.com/marcelsud/pingback/pingback/redis"
)

const TIMEOUT = 30 * time.Second

/* The api binary wires config, the fetcher, the optional Redis sink and
 * metrics into the HTTP server. Imports only go one way: down.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	log := logger.New(logger.Options{
		Service: "pingback-api",
		Level:   cfg.LogLevel,
		JSON:    cfg.LogJSON,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	fetcher, err := fetch.NewHTTPFetcher(fetch.WithRateLimit(cfg.FetchRate))
	if err != nil {
		log.Error().Err(err).Msg("creating fetcher")
		return
	}

	opt := chi.Options{
		Fetcher:     fetcher,
		EndpointURL: cfg.EndpointURL(),
		Logger:      log,
	}

	var collector metrics.Collector
	if cfg.RedisAddr != "" {
		ttl := time.Duration(cfg.VerifiedTTLHours) * time.Hour
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, ttl)
		if err != nil {
			log.Error().Err(err).Msg("connecting to Redis")
			return
		}
		defer repo.Close(ctx)

		opt.Pingbacks = repo
		opt.OnVerified = pingback.Publish(repo, log)
		collector = metrics.NewRedisCollector(repo.GetClient())
	} else {
		log.Warn().Msg("REDIS_ADDR not set, verified pingbacks are only logged")
	}

	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		log.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	defer exporter.Shutdown(context.Background())
	opt.Observer = exporter
	opt.Metrics = exporter.ServeHTTP()

	if opt.EndpointURL == "" {
		log.Warn().Msg("PUBLIC_URL not set, X-Pingback is not advertised")
	}

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		Addr:         ":" + cfg.Port,
		Handler:      chi.Handlers(opt),
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	log.Info().Str("port", cfg.Port).Str("endpoint", opt.EndpointURL).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("serving http")
		return
	}
	err = <-errShutdown
	if err != nil {
		log.Error().Err(err).Msg("shutting down")
		return
	}
	log.Info().Msg("server stopped")
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing server close after %s", TIMEOUT)
	default:
		errShutdown <- fmt.Errorf("forcing server close: %w", err)
	}
}
