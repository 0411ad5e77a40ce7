package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbebidasYOrdenadas(t *testing.T) {
	files, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.up.sql", files[0])
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f, ".up.sql"), f)
	}
}

func TestMigrations_CreanTablasDelDominio(t *testing.T) {
	sql, err := migrationsFS.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "asesores", "clientes", "clientes_asignados",
		"chat_rooms", "chat_messages", "calendar_events", "notifications"} {
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
