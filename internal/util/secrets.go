package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort             = 3009
	DefaultDatasetDir       = "data"
	DefaultDbDriver         = "sqlite3"
	DefaultDbDsn            = "investorly.db"
	DefaultCapitalGainsRate = 0.15

	LlmProviderGroq   = "groq"
	LlmProviderOpenAI = "openai"
	LlmProviderGemini = "gemini"
)

type Secrets struct {
	Port             int        `json:"port"`
	DatasetDir       string     `json:"datasetDir"`
	Db               DbSecrets  `json:"db"`
	Llm              LlmSecrets `json:"llm"`
	Jwt              string     `json:"jwt"`
	CapitalGainsRate float64    `json:"capitalGainsRate"`
}

type DbSecrets struct {
	Driver string `json:"driver"`
	Dsn    string `json:"dsn"`
	// postgres connection parts, used when Dsn is empty
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

func (t DbSecrets) ToConnectionStr() string {
	if t.Dsn != "" {
		return t.Dsn
	}
	if t.Driver != "postgres" {
		return DefaultDbDsn
	}
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

type LlmSecrets struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	BaseURL      string `json:"baseUrl"`
	GroqApiKey   string `json:"groq"`
	OpenAIApiKey string `json:"openai"`
	GeminiApiKey string `json:"gemini"`
}

// ApiKey returns the key for the configured provider.
func (l LlmSecrets) ApiKey() string {
	switch l.Provider {
	case LlmProviderOpenAI:
		return l.OpenAIApiKey
	case LlmProviderGemini:
		return l.GeminiApiKey
	}
	return l.GroqApiKey
}

func secretsFile() string {
	switch strings.ToLower(os.Getenv("INVESTORLY_ENV")) {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	}
	if f := os.Getenv("SECRETS_FILE"); f != "" {
		return f
	}
	return "/go/src/app/secrets.json"
}

// LoadSecrets reads the secrets file for the current environment and
// applies environment overrides on top. A missing file is fine as long
// as the environment supplies what's needed.
func LoadSecrets() (*Secrets, error) {
	_ = godotenv.Load()

	secrets := Secrets{}
	f, err := os.ReadFile(secretsFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not open secrets file: %w", err)
	}
	if err == nil {
		err = json.Unmarshal(f, &secrets)
		if err != nil {
			return nil, fmt.Errorf("failed to parse secrets file: %w", err)
		}
	}

	if err := applyEnvOverrides(&secrets); err != nil {
		return nil, err
	}
	applyDefaults(&secrets)

	return &secrets, nil
}

func applyEnvOverrides(s *Secrets) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		s.Port = port
	}
	if v := os.Getenv("DATASET_DIR"); v != "" {
		s.DatasetDir = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		s.Db.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		s.Db.Dsn = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		s.Llm.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		s.Llm.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		s.Llm.BaseURL = v
	}
	// GORQ_API_TOKEN is the name older deployments used
	for _, key := range []string{"GORQ_API_TOKEN", "GROQ_TOKEN"} {
		if v := os.Getenv(key); v != "" {
			s.Llm.GroqApiKey = v
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		s.Llm.OpenAIApiKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		s.Llm.GeminiApiKey = v
	}
	if v := os.Getenv("SUPABASE_JWT_SECRET"); v != "" {
		s.Jwt = v
	}
	if v := os.Getenv("CAPITAL_GAINS_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CAPITAL_GAINS_RATE %q: %w", v, err)
		}
		s.CapitalGainsRate = rate
	}
	return nil
}

func applyDefaults(s *Secrets) {
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.DatasetDir == "" {
		s.DatasetDir = DefaultDatasetDir
	}
	if s.Db.Driver == "" {
		s.Db.Driver = DefaultDbDriver
	}
	if s.Llm.Provider == "" {
		s.Llm.Provider = LlmProviderGroq
	}
	if s.CapitalGainsRate == 0 {
		s.CapitalGainsRate = DefaultCapitalGainsRate
	}
}
