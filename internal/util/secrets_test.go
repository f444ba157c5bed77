package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	for _, key := range []string{
		"INVESTORLY_ENV", "PORT", "DATASET_DIR", "DB_DRIVER", "DB_DSN",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "GROQ_TOKEN", "GORQ_API_TOKEN",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "SUPABASE_JWT_SECRET", "CAPITAL_GAINS_RATE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "missing.json"))

		secrets, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, DefaultPort, secrets.Port)
		require.Equal(t, DefaultDatasetDir, secrets.DatasetDir)
		require.Equal(t, DefaultDbDriver, secrets.Db.Driver)
		require.Equal(t, DefaultDbDsn, secrets.Db.ToConnectionStr())
		require.Equal(t, LlmProviderGroq, secrets.Llm.Provider)
		require.Equal(t, DefaultCapitalGainsRate, secrets.CapitalGainsRate)
	})

	t.Run("file values with env overrides", func(t *testing.T) {
		clearConfigEnv(t)
		path := filepath.Join(t.TempDir(), "secrets.json")
		err := os.WriteFile(path, []byte(`{
			"port": 8080,
			"datasetDir": "/srv/data",
			"db": {"driver": "postgres", "host": "localhost", "port": "5432", "user": "u", "password": "p", "database": "investorly"},
			"llm": {"provider": "openai", "openai": "file-key"}
		}`), 0o644)
		require.NoError(t, err)
		t.Setenv("SECRETS_FILE", path)
		t.Setenv("OPENAI_API_KEY", "env-key")
		t.Setenv("CAPITAL_GAINS_RATE", "0.2")

		secrets, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, 8080, secrets.Port)
		require.Equal(t, "/srv/data", secrets.DatasetDir)
		require.Equal(t, "env-key", secrets.Llm.ApiKey())
		require.Equal(t, 0.2, secrets.CapitalGainsRate)
		require.Equal(t,
			"",
			cmp.Diff(
				"host=localhost port=5432 user=u password=p dbname=investorly sslmode=disable",
				secrets.Db.ToConnectionStr(),
			),
		)
	})

	t.Run("bad port", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "missing.json"))
		t.Setenv("PORT", "abc")
		_, err := LoadSecrets()
		require.Error(t, err)
	})
}
