package neo4j

import (
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"lifeops/internal/config"
)

var (
	instance *Neo4jClient
	once     sync.Once
	initErr  error
)

// Neo4jClient wraps the Neo4j driver together with its configuration.
type Neo4jClient struct {
	Driver neo4j.DriverWithContext
	Config *config.Neo4jConfig
}

// GetClient creates and returns the process-wide Neo4j client. The
// connection is established and verified once for the lifetime of the
// process.
func GetClient(ctx context.Context, cfg *config.Neo4jConfig) (*Neo4jClient, error) {
	once.Do(func() {
		auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")

		driver, err := neo4j.NewDriverWithContext(cfg.Uri, auth)
		if err != nil {
			initErr = fmt.Errorf("failed to create Neo4j driver: %w", err)
			return
		}

		if err := driver.VerifyConnectivity(ctx); err != nil {
			driver.Close(ctx)
			initErr = fmt.Errorf("failed to connect to Neo4j: %w", err)
			return
		}

		instance = &Neo4jClient{Driver: driver, Config: cfg}
	})
	return instance, initErr
}

// Close shuts down the underlying driver.
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c.Driver != nil {
		return c.Driver.Close(ctx)
	}
	return nil
}

// HealthCheck verifies connectivity to the database.
func (c *Neo4jClient) HealthCheck(ctx context.Context) error {
	return c.Driver.VerifyConnectivity(ctx)
}

// ExecuteWrite runs the given work inside a managed write transaction.
func (c *Neo4jClient) ExecuteWrite(ctx context.Context, work func(tx neo4j.ManagedTransaction) (interface{}, error)) (interface{}, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Config.Database})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, work)
	if err != nil {
		return nil, fmt.Errorf("neo4j write transaction failed: %w", err)
	}
	return result, nil
}

// ExecuteRead runs the given work inside a managed read transaction.
func (c *Neo4jClient) ExecuteRead(ctx context.Context, work func(tx neo4j.ManagedTransaction) (interface{}, error)) (interface{}, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Config.Database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, work)
	if err != nil {
		return nil, fmt.Errorf("neo4j read transaction failed: %w", err)
	}
	return result, nil
}
