package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvoicu/atelier/internal/cli"
	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/repository"
	"github.com/dvoicu/atelier/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.atelier/atelier.db
	dbPath := os.Getenv("ATELIER_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".atelier", "atelier.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case logging is opt-in.
	var observers []service.UseCaseObserver
	if os.Getenv("ATELIER_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Wire repositories
	transitionRepo := repository.NewSQLiteTransitionRepo(database)
	sessionRepo := repository.NewSQLiteWorkSessionRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	funnelRepo := repository.NewSQLiteFunnelRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	funnelSvc := service.NewFunnelService(funnelRepo, stageRepo, nil, nil, observers...)

	app := &cli.App{
		Tracker:  service.NewTrackerService(sessionRepo, uow, observers...),
		Reports:  service.NewReportService(transitionRepo, sessionRepo, stageRepo, nil, observers...),
		Funnel:   funnelSvc,
		Pipeline: service.NewPipelineService(stageRepo, transitionRepo, funnelSvc, observers...),
		Import:   service.NewImportService(uow, observers...),
	}

	// Detect interactive terminal for the prompt and dashboard entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
