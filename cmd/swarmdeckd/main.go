// Command swarmdeckd runs the agent orchestration core behind an HTTP
// gateway. Configuration comes from config.yaml plus environment overrides;
// with no model credential configured the daemon serves fully deterministic
// mock responses, which is useful for local frontend development.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/swarmdeck/swarmdeck"
	"github.com/swarmdeck/swarmdeck/config"
	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/metrics"
	"github.com/swarmdeck/swarmdeck/model"
	"github.com/swarmdeck/swarmdeck/model/anthropic"
	"github.com/swarmdeck/swarmdeck/model/openai"
	"github.com/swarmdeck/swarmdeck/server"
	"github.com/swarmdeck/swarmdeck/tool"
	"github.com/swarmdeck/swarmdeck/tool/duckduckgo"
	"github.com/swarmdeck/swarmdeck/tool/wikipedia"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logger.Level), cfg.Logger.Format, os.Stderr)

	client := buildModelClient(cfg, logger)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	promReg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg)

	httpClient := &http.Client{Timeout: cfg.Tools.Timeout}
	swarm := swarmdeck.New(func(o *swarmdeck.Options) {
		o.Model = client
		o.Logger = logger
		o.Metrics = m
		o.ExecutorTemperature = cfg.Executor.Temperature
		o.ExecutorMaxTokens = cfg.Executor.MaxTokens
		o.Tools = tool.NewRegistry(
			duckduckgo.New(func(to *duckduckgo.Options) {
				to.HTTPClient = httpClient
				to.Attempts = cfg.Tools.Attempts
				to.Logger = logger
			}),
			wikipedia.New(func(to *wikipedia.Options) {
				to.HTTPClient = httpClient
				to.Attempts = cfg.Tools.Attempts
				to.Logger = logger
			}),
		)
	})

	gateway := server.New(swarm, func(o *server.Options) {
		o.Logger = logger
		o.Metrics = m
		o.Gatherer = promReg
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      gateway,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("gateway listening", "addr", srv.Addr, "provider", cfg.Model.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	swarm.Registry.KillAll()
}

// buildModelClient selects the provider from config. A missing credential or
// the "none" provider returns nil, which puts every consumer in its
// deterministic credential-free mode.
func buildModelClient(cfg *config.Config, logger logging.Logger) model.Client {
	if cfg.Model.Provider == "none" || cfg.Model.APIKey == "" {
		logger.Warn("no model credential configured, running in mock mode")
		return nil
	}

	var client model.Client
	switch cfg.Model.Provider {
	case "groq":
		client = openai.NewGroqClient(cfg.Model.APIKey, func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			if cfg.Model.BaseURL != "" {
				o.BaseURL = cfg.Model.BaseURL
			}
		})
	case "openai":
		client = openai.NewClient(cfg.Model.APIKey, func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			if cfg.Model.BaseURL != "" {
				o.BaseURL = cfg.Model.BaseURL
			}
		})
	case "anthropic":
		client = anthropic.NewClient(cfg.Model.APIKey, func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
		})
	}

	if cfg.Model.Resilient {
		client = model.NewResilientClient(client, func(o *model.ResilientOptions) {
			o.RequestsPerSecond = cfg.Model.RatePerSecond
		})
	}
	return client
}
