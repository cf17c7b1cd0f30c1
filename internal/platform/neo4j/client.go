package neo4jdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/uigs/graph-engine/internal/platform/config"
)

// Client wraps the Neo4j driver together with the target database name so
// callers open sessions without repeating connection details.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// New connects to Neo4j and verifies connectivity before returning.
func New(ctx context.Context, cfg config.Config) (*Client, error) {
	auth := neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, "")
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, auth, func(c *neo4j.Config) {
		c.SocketConnectTimeout = cfg.Neo4jTimeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: init driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Neo4jTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}

	return &Client{Driver: driver, Database: cfg.Neo4jDatabase}, nil
}

// Health checks whether the driver can still reach the server.
func (c *Client) Health(ctx context.Context) error {
	return c.Driver.VerifyConnectivity(ctx)
}

// Close releases the driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	return c.Driver.Close(ctx)
}
