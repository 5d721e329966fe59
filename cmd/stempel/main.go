package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/stempelbot/stempel/internal/cli"
	"github.com/stempelbot/stempel/internal/config"
	"github.com/stempelbot/stempel/internal/db"
	"github.com/stempelbot/stempel/internal/repository"
	"github.com/stempelbot/stempel/internal/rollup"
	"github.com/stempelbot/stempel/internal/service"
	"github.com/stempelbot/stempel/internal/week"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("STEMPEL_CONFIG")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := week.NewClock(loc)

	dbPath := os.Getenv("STEMPEL_DB")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Connection-bound repos serve reads; write paths construct tx-scoped
	// repos inside the unit of work.
	sessionRepo := repository.NewSQLiteSessionRepo(database, loc)
	reportRepo := repository.NewSQLiteReportRepo(database)
	metadataRepo := repository.NewSQLiteMetadataRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewLogUseCaseObserver(os.Stderr)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rollupSvc := service.NewRollupService(metadataRepo, reportRepo, uow, clock, observer)
	scheduler := rollup.NewScheduler(rollupSvc, clock, logger,
		rollup.WithCooldown(cfg.RollupCooldown()))

	app := &cli.App{
		Sessions:  service.NewClockService(sessionRepo, uow, clock, observer),
		Reports:   service.NewReportService(reportRepo, clock, cfg.LeaderboardLimit),
		Renames:   service.NewRenameService(uow, clock, observer),
		Scheduler: scheduler,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
