package connector

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

type preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type cacheKey [blake2b.Size256]byte

// stmtCache holds prepared statements by a digest of their SQL. Concurrent
// misses on one SQL text share a single prepare.
type stmtCache struct {
	db     preparer
	logger *slog.Logger

	mu    sync.RWMutex
	stmts map[cacheKey]*sql.Stmt
	group singleflight.Group
}

func newStmtCache(db preparer, logger *slog.Logger) *stmtCache {
	return &stmtCache{
		db:     db,
		logger: logger,
		stmts:  make(map[cacheKey]*sql.Stmt),
	}
}

func (c *stmtCache) lookup(key cacheKey) (*sql.Stmt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.stmts[key]
	return s, ok
}

func (c *stmtCache) get(ctx context.Context, query string) (*sql.Stmt, error) {
	key := cacheKey(blake2b.Sum256([]byte(query)))
	if s, ok := c.lookup(key); ok {
		c.logger.DebugContext(ctx, "statement cache hit", "sql", query)
		return s, nil
	}

	v, err, _ := c.group.Do(hex.EncodeToString(key[:]), func() (any, error) {
		if s, ok := c.lookup(key); ok {
			return s, nil
		}
		s, err := c.db.PrepareContext(context.WithoutCancel(ctx), query)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.stmts[key] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "statement cache miss", "sql", query)
	return v.(*sql.Stmt), nil
}

func (c *stmtCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stmts)
}

func (c *stmtCache) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for k, s := range c.stmts {
		errs = append(errs, s.Close())
		delete(c.stmts, k)
	}
	return errors.Join(errs...)
}
