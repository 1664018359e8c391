package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"

database:
  url: "postgres://localhost/contacts?sslmode=disable"
  auth_url: "postgres://localhost/auth?sslmode=disable"

mailtrap:
  token: "file-token"
  sender_email: "sender@innosearch.ai"
  sender_name: "Innosearch"
  template_uuid: "7755f2f7-b76c-47b8-b71a-55316fd6c54a"
  timeout_seconds: 45

reconcile:
  marketing_table: "email_marketing"
  records_table: "email_record"
  records_enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "postgres://localhost/contacts?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "postgres://localhost/auth?sslmode=disable", cfg.Database.AuthURL)
	assert.Equal(t, "file-token", cfg.Mailtrap.Token)
	assert.Equal(t, 45, cfg.Mailtrap.TimeoutSeconds)
	assert.True(t, cfg.Reconcile.RecordsEnabled)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/contacts"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "https://send.api.mailtrap.io", cfg.Mailtrap.BaseURL)
	assert.Equal(t, 30, cfg.Mailtrap.TimeoutSeconds)
	assert.Equal(t, "email_marketing", cfg.Reconcile.MarketingTable)
	assert.Equal(t, "email_record", cfg.Reconcile.RecordsTable)
	assert.False(t, cfg.Reconcile.RecordsEnabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://file/db"
mailtrap:
  token: "file-token"
`)

	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("AUTH_DATABASE_URL", "postgres://env/auth")
	t.Setenv("MAILTRAP_API_TOKEN", "env-token")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "postgres://env/auth", cfg.Database.AuthURL)
	assert.Equal(t, "env-token", cfg.Mailtrap.Token)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestServerConfig_GetHost(t *testing.T) {
	cfg := ServerConfig{Host: "localhost"}
	assert.Equal(t, "localhost", cfg.GetHost())

	t.Setenv("SERVER_HOST", "0.0.0.0")
	assert.Equal(t, "0.0.0.0", cfg.GetHost())
}

func TestValidateDatabase(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateDatabase())

	cfg.Database.URL = "postgres://localhost/contacts"
	assert.NoError(t, cfg.ValidateDatabase())
}

func TestValidateMailtrap(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateMailtrap())

	cfg.Mailtrap.Token = "token"
	assert.Error(t, cfg.ValidateMailtrap(), "sender still missing")

	cfg.Mailtrap.SenderEmail = "sender@innosearch.ai"
	assert.Error(t, cfg.ValidateMailtrap(), "template still missing")

	cfg.Mailtrap.TemplateUUID = "uuid"
	assert.NoError(t, cfg.ValidateMailtrap())
}
