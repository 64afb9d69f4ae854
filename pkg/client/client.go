package client

import (
	"reserva/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client aggregates the external connections owned by the process.
type Client struct {
	Postgres *pgxpool.Pool
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetPostgres(log *logger.Logger, uri string, connTimeout time.Duration) {
	c.Postgres = ConnectPostgres(log, uri, connTimeout)
}

func (c *Client) GracefulShutdown() {
	if c.Postgres != nil {
		c.Postgres.Close()
	}
}
