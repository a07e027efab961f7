package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sdklib "github.com/m2dev/m2do/pkg/lib"
)

// SkipUnlessIntegration skips the test unless the activation env var is set.
func SkipUnlessIntegration(t *testing.T) {
	t.Helper()

	const envActivation = "M2DO_INTEGRATION"
	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}
}

// NewTestClient creates an SDK client with a temp SQLite DB for test isolation.
func NewTestClient(t *testing.T, user string) *sdklib.Client {
	t.Helper()
	return NewTestClientAt(t, user, filepath.Join(t.TempDir(), "test.db"))
}

// NewTestClientAt creates an SDK client over a specific SQLite DB path, so
// several clients can share one board.
func NewTestClientAt(t *testing.T, user, dbPath string) *sdklib.Client {
	t.Helper()

	ctx := context.Background()

	client, err := sdklib.New(ctx, sdklib.Config{
		User:   user,
		DBPath: dbPath,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

// UniqueSubject generates a unique task subject for test isolation.
func UniqueSubject(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
