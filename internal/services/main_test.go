package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"helpful/internal/config"
	"helpful/internal/infra"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.OpenDatabase(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() { infra.CloseDatabase(db) })
	return db
}

// captureMail records every message instead of sending it.
type captureMail struct {
	mu   sync.Mutex
	sent []Mail
	err  error
}

func (c *captureMail) Send(_ context.Context, mail Mail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, mail)
	return c.err
}

func (c *captureMail) Sent() []Mail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Mail(nil), c.sent...)
}

type capturePush struct {
	titles []string
	bodies []string
}

func (c *capturePush) Enabled() bool { return true }

func (c *capturePush) Push(_ context.Context, title, htmlBody string) error {
	c.titles = append(c.titles, title)
	c.bodies = append(c.bodies, htmlBody)
	return nil
}
