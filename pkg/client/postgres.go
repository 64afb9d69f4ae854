package client

import (
	"context"
	"reserva/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres(log *logger.Logger, uri string, connTimeout time.Duration) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		log.Fatal("Failed to create PostgreSQL pool",
			"error", err,
		)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping PostgreSQL", "error", err)
	}

	log.Info("Successfully connected to PostgreSQL")
	return pool
}
