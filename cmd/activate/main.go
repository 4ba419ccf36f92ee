package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"muin/internal/adapter/repo"
	"muin/internal/entitlement"
	"muin/internal/infra"
)

func main() {
	var (
		idFlag    string
		actorFlag string
		notesFlag string
		daysFlag  int
	)

	flag.StringVar(&idFlag, "id", "", "user identifier to activate")
	flag.StringVar(&actorFlag, "actor", "", "operator name recorded in the audit log")
	flag.StringVar(&notesFlag, "notes", "", "free text stored with the activation (payment reference)")
	flag.IntVar(&daysFlag, "days", 30, "length of the paid period in days")
	flag.Parse()

	identifier := strings.TrimSpace(idFlag)
	actor := strings.TrimSpace(actorFlag)
	if identifier == "" {
		exitWithError(errors.New("-id is required"))
	}
	if actor == "" {
		exitWithError(errors.New("-actor is required"))
	}
	if daysFlag <= 0 {
		exitWithError(fmt.Errorf("-days must be positive, got %d", daysFlag))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "activate").Logger()
	entitlements := repo.NewEntitlementRepository(infra.NewSQLRunner(pool, logger))
	manager := entitlement.NewManager(entitlements, 15, daysFlag, logger, entitlement.WithFeatureCatalogue(entitlements))

	ent, err := manager.Activate(ctx, identifier, actor, strings.TrimSpace(notesFlag))
	if err != nil {
		exitWithError(fmt.Errorf("failed to activate subscription: %w", err))
	}

	fmt.Printf("Identifier %s activated (%s) by %s\n", ent.Identifier, ent.Type, ent.ActivatedBy)
	fmt.Printf("start=%s\n", ent.StartDate.Format(time.RFC3339))
	fmt.Printf("end=%s\n", ent.EndDate.Format(time.RFC3339))
	fmt.Printf("features=%s\n", strings.Join(ent.EnabledFeatures.Keys(), ","))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
