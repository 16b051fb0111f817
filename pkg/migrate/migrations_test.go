package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestSchemaMigrationEnforcesControlIDUniqueness(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var found bool
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		require.NoError(t, err)
		if strings.Contains(string(b), "raw_messages_message_control_id_key UNIQUE (message_control_id)") {
			found = true
		}
	}
	assert.True(t, found, "idempotency depends on a DB-level unique constraint on message_control_id")
}
