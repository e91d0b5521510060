package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[nlp]
provider = "hugot"

[extraction]
force_detect = ["siri"]

[concurrency]
bulk_build = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hugot", cfg.NLP.Provider)
	assert.Equal(t, "http://localhost:8001", cfg.NLP.Endpoint)
	assert.Equal(t, []string{"siri"}, cfg.Extraction.ForceDetect)
	assert.Equal(t, 8, cfg.Concurrency.BulkBuild)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[nlp\nprovider="), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NEO4J_URI":              "bolt://graph:7687",
		"NEO4J_PASSWORD":         "secret",
		"NLP_PROVIDER":           "hugot",
		"MYSQL_DSN":              "u:p@tcp(db)/builds",
		"PORT":                   "9090",
		"BULK_BUILD_CONCURRENCY": "2",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.User)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "hugot", cfg.NLP.Provider)
	assert.Equal(t, "u:p@tcp(db)/builds", cfg.MySQL.DSN)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Concurrency.BulkBuild)

	bad := Default()
	err := bad.ApplyEnv(func(k string) string {
		if k == "BULK_BUILD_CONCURRENCY" {
			return "many"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "alexa", "siri", "cortana"}, cfg.Extraction.ForceDetect)
}
