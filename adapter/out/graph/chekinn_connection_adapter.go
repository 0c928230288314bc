package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ConnectionAdapter implements out.ConnectionGraph using Neo4j. Users and
// external profiles are nodes; first-degree membership is one CONNECTED_TO
// edge away.
type ConnectionAdapter struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewConnectionAdapter creates a new Neo4j connection adapter.
func NewConnectionAdapter(driver neo4j.DriverWithContext, dbName string) *ConnectionAdapter {
	return &ConnectionAdapter{
		driver: driver,
		dbName: dbName,
	}
}

// EnsureIndexes creates necessary indexes and constraints.
func (a *ConnectionAdapter) EnsureIndexes(ctx context.Context) error {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	queries := []string{
		`CREATE CONSTRAINT member_id_unique IF NOT EXISTS FOR (m:Member) REQUIRE m.user_id IS UNIQUE`,
		`CREATE CONSTRAINT profile_url_unique IF NOT EXISTS FOR (p:Profile) REQUIRE p.url IS UNIQUE`,
	}

	for _, query := range queries {
		_, err := session.Run(ctx, query, nil)
		if err != nil {
			// Ignore if already exists
			continue
		}
	}

	return nil
}

// IsFirstDegree reports whether the profile URL is in the user's stored
// connection list.
func (a *ConnectionAdapter) IsFirstDegree(ctx context.Context, userID uuid.UUID, profileURL string) (bool, error) {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	query := `
		MATCH (m:Member {user_id: $userID})-[:CONNECTED_TO]->(p:Profile {url: $profileURL})
		RETURN count(p) > 0 AS connected
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":     userID.String(),
		"profileURL": profileURL,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}

	if result.Next(ctx) {
		connected, ok := result.Record().Get("connected")
		if ok {
			if b, ok := connected.(bool); ok {
				return b, nil
			}
		}
	}
	return false, result.Err()
}

// AddConnection stores one first-degree connection for the user.
func (a *ConnectionAdapter) AddConnection(ctx context.Context, userID uuid.UUID, profileURL, displayName string) error {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	query := `
		MERGE (m:Member {user_id: $userID})
		MERGE (p:Profile {url: $profileURL})
		ON CREATE SET p.display_name = $displayName
		MERGE (m)-[:CONNECTED_TO]->(p)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"userID":      userID.String(),
		"profileURL":  profileURL,
		"displayName": displayName,
	})
	if err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}
	return nil
}

// ListConnections returns the user's connection profile URLs.
func (a *ConnectionAdapter) ListConnections(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	query := `
		MATCH (m:Member {user_id: $userID})-[:CONNECTED_TO]->(p:Profile)
		RETURN p.url AS url
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID.String(),
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	var urls []string
	for result.Next(ctx) {
		if url, ok := result.Record().Get("url"); ok {
			if s, ok := url.(string); ok {
				urls = append(urls, s)
			}
		}
	}
	return urls, result.Err()
}
