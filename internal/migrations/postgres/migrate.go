package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []struct {
	name string
	sql  string
}{
	{
		name: "create bookings table",
		sql: `
		CREATE TABLE IF NOT EXISTS bookings (
			id           UUID PRIMARY KEY,
			owner_id     TEXT NOT NULL,
			service_type TEXT NOT NULL,
			scheduled_at TIMESTAMPTZ NOT NULL,
			status       TEXT NOT NULL DEFAULT 'active',
			cancelled_at TIMESTAMPTZ,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT bookings_status_check CHECK (status IN ('active', 'cancelled')),
			CONSTRAINT bookings_cancelled_at_check CHECK ((status = 'cancelled') = (cancelled_at IS NOT NULL))
		)`,
	},
	{
		name: "index owner + scheduled_at",
		sql:  `CREATE INDEX IF NOT EXISTS idx_bookings_owner_scheduled ON bookings (owner_id, scheduled_at)`,
	},
	{
		name: "index owner + status + scheduled_at",
		sql:  `CREATE INDEX IF NOT EXISTS idx_bookings_owner_status_scheduled ON bookings (owner_id, status, scheduled_at)`,
	},
	{
		name: "index owner + status + cancelled_at",
		sql:  `CREATE INDEX IF NOT EXISTS idx_bookings_owner_status_cancelled ON bookings (owner_id, status, cancelled_at, id)`,
	},
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	fmt.Println("🚀 Running bookings migrations")

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to apply %q: %w", stmt.name, err)
		}
		fmt.Printf("📚 Applied: %s\n", stmt.name)
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}
