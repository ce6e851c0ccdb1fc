package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	store := NewPostgres(pool)

	_, err = pool.Exec(ctx, `CREATE TABLE workflows (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		organization_id UUID,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		created_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE workflow_steps (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		workflow_id UUID NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		step_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`)
	if err != nil {
		t.Fatal(err)
	}

	var workflowID string

	t.Run("Insert returns representation", func(t *testing.T) {
		rows, err := store.Insert(ctx, "workflows", []Row{{
			"title":  "Onboarding",
			"status": "draft",
		}})
		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.NotEmpty(t, rows[0]["id"])
		assert.NotEmpty(t, rows[0]["created_at"])
		assert.Equal(t, "Onboarding", rows[0]["title"])

		workflowID = rows[0]["id"].(string)
	})

	t.Run("Select with filter", func(t *testing.T) {
		rows, err := store.Select(ctx, "workflows", map[string]string{"id": workflowID}, "")
		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, "Onboarding", rows[0]["title"])
	})

	t.Run("Select ordered", func(t *testing.T) {
		_, err := store.Insert(ctx, "workflow_steps", []Row{
			{"workflow_id": workflowID, "title": "second", "step_order": 1},
			{"workflow_id": workflowID, "title": "first", "step_order": 0},
		})
		assert.NoError(t, err)

		rows, err := store.Select(ctx, "workflow_steps", map[string]string{"workflow_id": workflowID}, "step_order.asc")
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "first", rows[0]["title"])
	})

	t.Run("Update returns representation", func(t *testing.T) {
		rows, err := store.Update(ctx, "workflows", map[string]string{"id": workflowID}, Row{"status": "published"})
		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, "published", rows[0]["status"])
	})

	t.Run("Update missing row returns empty", func(t *testing.T) {
		rows, err := store.Update(ctx, "workflows", map[string]string{"id": "00000000-0000-0000-0000-000000000000"}, Row{"status": "archived"})
		assert.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, "workflow_steps", map[string]string{"workflow_id": workflowID})
		assert.NoError(t, err)

		rows, err := store.Select(ctx, "workflow_steps", map[string]string{"workflow_id": workflowID}, "")
		assert.NoError(t, err)
		assert.Empty(t, rows)
	})
}
