package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
parser:
  backend: extract_api
  extract_api:
    base_url: https://extract.example.com
    template_id: resume-v2
storage:
  backend: memory
chatbot:
  provider: none
  rules:
    - keywords: [vacation, days]
      answer: "Employees get 25 vacation days."
onboarding:
  tasks:
    - title: Sign contract
      due_in_days: 1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://extract.example.com", cfg.Parser.ExtractAPI.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Parser.ExtractAPI.Timeout)
	assert.Equal(t, 3, cfg.Worker.MaxAttempts)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.Len(t, cfg.Chatbot.Rules, 1)
	assert.Equal(t, []string{"vacation", "days"}, cfg.Chatbot.Rules[0].Keywords)
	require.Len(t, cfg.Onboarding.Tasks, 1)
	assert.Equal(t, 1, cfg.Onboarding.Tasks[0].DueInDays)
	assert.Equal(t, 10*1024*1024, cfg.Upload.MaxUploadBytes())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HRPORTAL_SERVER_PORT", "9090")
	t.Setenv("HRPORTAL_WORKER_CONCURRENCY", "7")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Worker.Concurrency)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	_, err := Load(writeConfig(t, `
parser:
  backend: carrier-pigeon
chatbot:
  provider: telepathy
storage:
  backend: s3
`))
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, CodeInvalidConfig))

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Details, "parser.backend")
	assert.Contains(t, e.Details, "chatbot.provider")
	assert.Contains(t, e.Details, "storage.bucket")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "hr", Password: "pw", Name: "portal", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=hr password=pw dbname=portal sslmode=disable", d.DSN())
}
