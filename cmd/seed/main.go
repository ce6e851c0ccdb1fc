// Seed populates the configured store with a starter organization and a
// sample workflow so the frontend has something to render on first run.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"workflow-copilot/backend/internal/config"
	"workflow-copilot/backend/internal/ledger"
	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/services"
	"workflow-copilot/backend/internal/store"
)

const seedUserID = "seed-script"

func main() {
	var orgName string

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the store with a starter organization and sample workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), orgName)
		},
	}
	rootCmd.Flags().StringVar(&orgName, "org-name", "Acme Corp", "name of the seeded organization")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(ctx context.Context, orgName string) error {
	logger := logging.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rowStore, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	repo := repository.New(rowStore)
	activityLedger := ledger.New(repo, logger)
	workflowService := services.NewWorkflowService(repo, activityLedger)
	stepService := services.NewStepService(repo, activityLedger)
	orgService := services.NewOrganizationService(repo)

	// 1. Ensure the organization exists
	existing, err := orgService.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}
	var orgID *string
	for _, org := range existing {
		if org.Name == orgName {
			logger.Info("Found existing organization", "id", org.ID)
			id := org.ID
			orgID = &id
			break
		}
	}
	if orgID == nil {
		org, err := orgService.Create(ctx, services.CreateOrganizationInput{
			Name:        orgName,
			Description: "Seeded organization",
		}, seedUserID)
		if err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		logger.Info("Seeded organization", "name", org.Name, "id", org.ID)
		orgID = &org.ID
	}

	// 2. Skip if the sample workflow already exists
	workflows, err := workflowService.List(ctx, *orgID)
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}
	const sampleTitle = "Employee Onboarding"
	for _, wf := range workflows {
		if wf.Title == sampleTitle {
			logger.Info("Skipping existing workflow", "title", sampleTitle)
			logger.Info("Seeding complete!")
			return nil
		}
	}

	// 3. Create the sample workflow with its steps
	wf, err := workflowService.Create(ctx, services.CreateWorkflowInput{
		Title:          sampleTitle,
		Description:    "Standard onboarding procedure for new hires.",
		OrganizationID: orgID,
	}, seedUserID)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}
	logger.Info("Seeded workflow", "title", wf.Title, "id", wf.ID)

	steps := []struct {
		Title       string
		Description string
		Role        string
	}{
		{"Prepare workstation", "Order laptop and set up accounts before the start date.", "IT"},
		{"Day one orientation", "Walk through company policies and introduce the team.", "HR"},
		{"Assign onboarding buddy", "Pair the new hire with a teammate for the first month.", "Manager"},
	}
	for _, s := range steps {
		role := s.Role
		created, err := stepService.Create(ctx, services.CreateStepInput{
			WorkflowID:  wf.ID,
			Title:       s.Title,
			Description: s.Description,
			Role:        &role,
		}, seedUserID)
		if err != nil {
			log.Printf("Failed to create step %s: %v", s.Title, err)
		} else {
			logger.Info("Seeded step", "title", created.Title, "order", created.Order)
		}
	}

	logger.Info("Seeding complete!")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil

	case config.BackendPostgREST:
		return store.NewPostgREST(cfg.Store.URL, cfg.StoreKey()), func() {}, nil

	case config.BackendPostgres:
		connStr := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Store.Host, cfg.Store.Port, cfg.Store.User, cfg.Store.Password, cfg.Store.Name, cfg.Store.SSLMode,
		)
		pool, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		return store.NewPostgres(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
