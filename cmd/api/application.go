package main

import (
	"log/slog"

	"cinelog/proj/internal/api/tasks"
	"cinelog/proj/internal/config"
	"cinelog/proj/internal/metrics"
	"cinelog/proj/internal/services"
	"cinelog/proj/internal/storage/postgres"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	bgTasks   *tasks.BackgroundTasks
	metrics   *metrics.Collector
	registry  *prometheus.Registry
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	bgTasks := tasks.New(log, cfg.Workers.MaxWorkers, cfg.Workers.MaxTasksQueueSize)
	bgTasks.Run()
	registry := prometheus.NewRegistry()
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: govalidator.New(govalidator.WithRequiredStructEnabled()),
		services:  services.New(log, cfg, storage, bgTasks),
		bgTasks:   bgTasks,
		metrics:   metrics.NewCollector(registry),
		registry:  registry,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
