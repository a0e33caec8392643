package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":9999"

[database]
dsn = "file:olympiad.db"

[roster]
max_team_size = 10

[grading]
default_numeric_tolerance = 0.5
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", config.Server.Port)
	assert.Equal(t, "file:olympiad.db", config.Database.DSN)
	assert.Equal(t, "./migrations", config.Database.MigrationsDir)
	assert.Equal(t, 10, config.Roster.MaxTeamSize)
	assert.Equal(t, 0.5, config.Grading.DefaultNumericTolerance)
	assert.Equal(t, "X-User-ID", config.API.UserIDHeader)
	assert.Equal(t, "session:{session}", config.Auth.SessionKeyTemplate)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "[server]\nport = \":1\"\n"))
	require.NoError(t, err)
	assert.Equal(t, models.MaxTeamSize, config.Roster.MaxTeamSize)
	assert.Equal(t, "Authorization", config.Auth.TokenHeader)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OLYMPIAD_DATABASE_DSN", "postgres://olympiad@db/olympiad")
	t.Setenv("OLYMPIAD_JWT_SECRET", "from-env")

	config, err := LoadConfig(writeConfig(t, `
[server]
port = ":9999"
enable_auth = true

[auth]
jwt_secret = "from-file"

[database]
dsn = "file:olympiad.db"
`))
	require.NoError(t, err)
	assert.Equal(t, "postgres://olympiad@db/olympiad", config.Database.DSN)
	assert.Equal(t, "from-env", config.Auth.JWTSecret)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing port", "[database]\ndsn = \"file:x.db\"\n"},
		{"auth without secret", "[server]\nport = \":1\"\nenable_auth = true\n"},
		{"bad toml", "[server\nport = 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestDatabaseType(t *testing.T) {
	assert.Equal(t, "postgres", string(DatabaseType("postgres://u@h/db")))
	assert.Equal(t, "sqlite", string(DatabaseType("file:olympiad.db")))
	assert.Equal(t, "sqlite", string(DatabaseType("olympiad.db")))
}
