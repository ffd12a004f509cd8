// A shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/rsanur/libra-go/internal/api"
	"github.com/rsanur/libra-go/internal/core"
)

// SetupTestApp initializes a core.App backed by an in-memory database and
// temporary storage directories.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()

	database := SetupTestDB(t)
	cfg := SetupTestConfig(t)
	return core.NewFromComponents(cfg, database)
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()

	app := SetupTestApp(t)
	server := api.NewServer(app)
	return server, app.DB()
}
