package graph

import (
	"context"
	"fmt"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"lifeops/internal/database/neo4j"
	"lifeops/internal/models"
)

// FactStore is the durable per-user fact graph. Merge is an idempotent
// upsert keyed by (user, entity); AllFacts returns every fact reachable
// from the user's node in a deterministic order.
type FactStore interface {
	Merge(ctx context.Context, userID string, facts []models.Fact) error
	AllFacts(ctx context.Context, userID string) ([]models.Fact, error)
}

// Neo4jStore implements FactStore on top of the Neo4j graph database.
type Neo4jStore struct {
	client *neo4j.Neo4jClient
}

// NewNeo4jStore creates a Neo4jStore.
func NewNeo4jStore(client *neo4j.Neo4jClient) *Neo4jStore {
	return &Neo4jStore{client: client}
}

// Merge upserts the given facts for the user inside a single write
// transaction. For each fact the user node and fact node are created if
// missing, the value is overwritten in place, and the HAS_FACT relation
// is ensured. Safe to call repeatedly with the same input. Any driver or
// query failure is reported as storage unavailability.
func (s *Neo4jStore) Merge(ctx context.Context, userID string, facts []models.Fact) error {
	if len(facts) == 0 {
		return nil
	}

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4jdriver.ManagedTransaction) (interface{}, error) {
		for _, fact := range facts {
			query := `
			MERGE (u:User {id: $user_id})
			MERGE (f:ContextFact {entity: $entity, user_id: $user_id})
			SET f.value = $value
			MERGE (u)-[:HAS_FACT]->(f)
			`
			params := map[string]interface{}{
				"user_id": userID,
				"entity":  fact.Entity,
				"value":   fact.Value,
			}
			if _, err := tx.Run(ctx, query, params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// AllFacts returns every fact linked to the user via HAS_FACT, ordered
// by entity so reads are deterministic.
func (s *Neo4jStore) AllFacts(ctx context.Context, userID string) ([]models.Fact, error) {
	result, err := s.client.ExecuteRead(ctx, func(tx neo4jdriver.ManagedTransaction) (interface{}, error) {
		query := `
		MATCH (u:User {id: $user_id})-[:HAS_FACT]->(f:ContextFact)
		RETURN f.entity AS entity, f.value AS value
		ORDER BY f.entity
		`
		res, err := tx.Run(ctx, query, map[string]interface{}{"user_id": userID})
		if err != nil {
			return nil, err
		}

		var facts []models.Fact
		for res.Next(ctx) {
			record := res.Record()
			entity, _ := record.Get("entity")
			value, _ := record.Get("value")

			entityStr, ok := entity.(string)
			if !ok {
				continue
			}
			valueStr, _ := value.(string)
			facts = append(facts, models.Fact{Entity: entityStr, Value: valueStr})
		}
		return facts, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return result.([]models.Fact), nil
}
