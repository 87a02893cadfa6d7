package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	staticcatalog "actionforge/internal/adapter/catalog/static"
	"actionforge/internal/adapter/eventlog"
	httpadapter "actionforge/internal/adapter/http"
	metricsinmem "actionforge/internal/adapter/metrics/inmemory"
	metricsprom "actionforge/internal/adapter/metrics/prom"
	sqlitewords "actionforge/internal/adapter/randomness/sqlite"
	gormrepo "actionforge/internal/adapter/repo/gorm"
	"actionforge/internal/adapter/repo/memory"
	"actionforge/internal/app/action"
	"actionforge/internal/app/auth"
	"actionforge/internal/app/pending"
	"actionforge/internal/app/ports"
	"actionforge/internal/app/replay"
	"actionforge/internal/app/shared/engineenv"
	"actionforge/internal/app/status"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type repos struct {
	tx          ports.TxManager
	sessions    ports.PlayerSessionRepository
	executions  ports.ActionExecutionRepository
	events      ports.EventRepository
	credentials ports.PlayerCredentialRepository
	balances    ports.BalanceQuery
	rewards     ports.RewardSink
	boosts      ports.BoostProvider
}

func buildRepos(cfg Config) (repos, error) {
	switch cfg.Store {
	case "memory":
		store := memory.NewStore()
		ledger := memory.NewLedger(store)
		return repos{
			tx:          memory.NewTxManager(store),
			sessions:    memory.NewPlayerSessionRepo(store),
			executions:  memory.NewActionExecutionRepo(store),
			events:      memory.NewEventRepo(store),
			credentials: memory.NewPlayerCredentialRepo(store),
			balances:    ledger,
			rewards:     ledger,
			boosts:      memory.NewBoostProvider(store),
		}, nil
	default:
		db, err := gormrepo.OpenPostgres(cfg.DSN, gormrepo.PoolOptions{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			LogSQL:          cfg.LogSQL,
		})
		if err != nil {
			return repos{}, err
		}
		ledger := gormrepo.NewLedgerRepo(db)
		return repos{
			tx:          gormrepo.NewTxManager(db),
			sessions:    gormrepo.NewPlayerSessionRepo(db),
			executions:  gormrepo.NewActionExecutionRepo(db),
			events:      gormrepo.NewEventRepo(db),
			credentials: gormrepo.NewPlayerCredentialRepo(db),
			balances:    ledger,
			rewards:     ledger,
			boosts:      gormrepo.NewBoostRepo(db),
		}, nil
	}
}

type application struct {
	handler httpadapter.Handler
	closers []io.Closer
}

func (a application) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func buildApp(cfg Config, logger *slog.Logger) (application, error) {
	catalog, err := staticcatalog.Load(cfg.CatalogRoot, cfg.CatalogFile)
	if err != nil {
		return application{}, fmt.Errorf("load catalog: %w", err)
	}
	r, err := buildRepos(cfg)
	if err != nil {
		return application{}, err
	}
	words, err := sqlitewords.Open(cfg.WordsDB)
	if err != nil {
		return application{}, fmt.Errorf("open word index: %w", err)
	}
	out := application{closers: []io.Closer{words}}

	events := r.events
	if cfg.ArchiveDir != "" {
		archive := eventlog.NewJSONLZstdWriter(cfg.ArchiveDir, "events")
		out.closers = append(out.closers, archive)
		events = eventlog.ArchivingEventRepo{Next: r.events, Archive: archive, Logger: logger}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	kpi := metricsinmem.NewRecorder()
	metrics := metricsprom.NewRecorder(reg, kpi)

	env := engineenv.Loader{
		Balances:   r.balances,
		Catalog:    catalog,
		Randomness: words,
		Boosts:     r.boosts,
	}
	now := func() time.Time { return time.Now().UTC() }

	out.handler = httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{Credentials: r.credentials, SessionRepo: r.sessions, TxManager: r.tx, Now: now},
		AuthUC:     auth.VerifyUseCase{Credentials: r.credentials},
		StartUC: action.StartUseCase{
			TxManager:   r.tx,
			SessionRepo: r.sessions,
			ActionRepo:  r.executions,
			EventRepo:   events,
			Rewards:     r.rewards,
			Env:         env,
			Metrics:     metrics,
			Logger:      logger,
			NewID:       uuid.NewString,
			Now:         now,
		},
		ProcessUC: action.ProcessUseCase{
			TxManager:   r.tx,
			SessionRepo: r.sessions,
			EventRepo:   events,
			Rewards:     r.rewards,
			Env:         env,
			Metrics:     metrics,
			Logger:      logger,
			Now:         now,
		},
		StatusUC:  status.UseCase{SessionRepo: r.sessions, Now: now},
		PendingUC: pending.UseCase{SessionRepo: r.sessions, Env: env, Now: now},
		ReplayUC:  replay.UseCase{Events: events},
		Catalog:   catalog,
		KPI:       kpi,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	return out, nil
}

func publishWord(ctx context.Context, path string, at int64, word [32]byte) error {
	words, err := sqlitewords.Open(path)
	if err != nil {
		return err
	}
	defer words.Close()
	return words.Publish(ctx, at, word)
}
