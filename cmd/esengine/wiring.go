package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/config"
	"github.com/kailas-cloud/esengine/internal/transport/elastic"
	"github.com/kailas-cloud/esengine/internal/transport/host"
	engineuc "github.com/kailas-cloud/esengine/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/esengine/internal/usecase/health"
)

// components is the composition root shared by all subcommands.
type components struct {
	engine *engineuc.Engine
	host   *host.Client
	health *healthuc.Service
}

func buildComponents(cfg config.Config, logger *zap.Logger) components {
	es := elastic.NewClient(elastic.Config{
		ServerHostname: cfg.Engine.ServerHostname,
		IndexName:      cfg.Engine.IndexName,
		DocumentType:   cfg.Engine.DocumentType,
		Timeout:        time.Duration(cfg.Engine.RequestTimeoutSec) * time.Second,
		Logger:         logger,
	})

	hostClient := host.NewClient(host.Config{
		AccessURL: cfg.Host.AccessURL,
		HealthURL: cfg.Host.HealthURL,
		Token:     cfg.Host.Token,
		Areas:     cfg.Host.Areas,
		Timeout:   time.Duration(cfg.Host.TimeoutSec) * time.Second,
		Logger:    logger,
	})

	eng := engineuc.New(es, hostClient, logger).WithMaxResults(cfg.Engine.MaxResults)

	// Pass nil interface (not a typed nil pointer) when no health URL is set.
	var hostChecker healthuc.HostChecker
	if cfg.Host.HealthURL != "" {
		hostChecker = hostClient
	}

	return components{
		engine: eng,
		host:   hostClient,
		health: healthuc.New(eng, hostChecker),
	}
}
