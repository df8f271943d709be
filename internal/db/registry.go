package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/tuhmaz/edu/internal/config"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/tenant"
)

// Registry holds one pool per tenant partition.
type Registry struct {
	partitions map[tenant.Connection]*PostgresDB
}

// NewRegistry wraps already opened partitions.
func NewRegistry(partitions map[tenant.Connection]*PostgresDB) *Registry {
	return &Registry{partitions: partitions}
}

// OpenRegistry opens a pool for every partition in the configuration.
// Every known connection must be configured; a partially opened registry is closed on error.
func OpenRegistry(ctx context.Context, cfg *config.Config) (*Registry, error) {
	r := &Registry{partitions: make(map[tenant.Connection]*PostgresDB, len(cfg.Database.Partitions))}

	for _, conn := range tenant.Connections() {
		dbName, ok := cfg.Database.Partitions[string(conn)]
		if !ok || dbName == "" {
			r.Close()
			return nil, fmt.Errorf("no database configured for partition %q", conn)
		}

		pg, err := NewPostgresDB(ctx, cfg, dbName)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("partition %s: %w", conn, err)
		}
		r.partitions[conn] = pg
	}

	return r, nil
}

// Get returns the pool of a partition.
func (r *Registry) Get(conn tenant.Connection) (*PostgresDB, error) {
	pg, ok := r.partitions[conn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPartitionUnknown, conn)
	}
	return pg, nil
}

// Connections returns the registered partitions in a stable order.
func (r *Registry) Connections() []tenant.Connection {
	conns := make([]tenant.Connection, 0, len(r.partitions))
	for c := range r.partitions {
		conns = append(conns, c)
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i] < conns[j] })
	return conns
}

// Ping checks every partition.
func (r *Registry) Ping(ctx context.Context) error {
	for _, conn := range r.Connections() {
		if err := r.partitions[conn].Pool.Ping(ctx); err != nil {
			return fmt.Errorf("partition %s: %w", conn, err)
		}
	}
	return nil
}

// Close closes every pool.
func (r *Registry) Close() {
	for _, pg := range r.partitions {
		pg.Close()
	}
}
