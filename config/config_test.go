package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")
	t.Setenv(EnvAPIKey, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
dir = "/loc"
first_language = "en"
pending_dir = "/loc/pending"

[llm]
model = "gpt-x"
api_key_env = "MY_KEY"

[synonyms]
provider = "lexicon"
max_terms = 5

[log]
level = "debug"
format = "json"
`), 0o644))

	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")
	t.Setenv("MY_KEY", "sk-123456")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/loc", cfg.Data.Dir)
	assert.Equal(t, "gpt-x", cfg.LLM.Model)
	assert.Equal(t, "sk-123456", cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.Synonyms.MaxTerms)
	assert.Equal(t, ProviderLexicon, cfg.SynonymProvider())
	assert.Equal(t, "ui_*.json", cfg.Data.Pattern)

	l := cfg.Loader(zerolog.Nop())
	assert.Equal(t, "/loc", l.Dir)
	assert.Equal(t, "en", l.First)
	assert.Equal(t, "/loc/pending", l.PendingDir)
}

func TestEnvOverrides(t *testing.T) {
	cfg := Default()
	env := map[string]string{EnvDataDir: "/env", EnvModel: "m", EnvAPIKey: "k"}
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "/env", cfg.Data.Dir)
	assert.Equal(t, "m", cfg.LLM.Model)
	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, ProviderLLM, cfg.SynonymProvider())

	cfg = Default()
	cfg.LLM.APIKey = "file"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "file", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Synonyms.Provider = "magic"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[data\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")
	path := filepath.Join(t.TempDir(), "sub", FileName)

	cfg := Default()
	cfg.Data.Dir = "/saved"
	cfg.LLM.APIKey = "from-env"
	require.NoError(t, Save(path, cfg))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "from-env")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/saved", loaded.Data.Dir)
	assert.Equal(t, "from-env", loaded.LLM.APIKey)
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-abcdefgh"
	assert.Equal(t, "********efgh", cfg.Redacted().LLM.APIKey)
	assert.Equal(t, "sk-abcdefgh", cfg.LLM.APIKey)
}
