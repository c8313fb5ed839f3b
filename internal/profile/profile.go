package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the planner service and CLI.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol).
	// An empty ALLMAPIKey disables the generative planning path.
	ALLMProvider string // openai, deepseek, siliconflow, dashscope, openrouter, zai, ollama
	ALLMAPIKey   string
	ALLMBaseURL  string // optional, has default per provider
	ALLMModel    string
	ALLMTimeout  int // LLM request timeout in seconds (default: 120)

	// Autodesk Design Automation. An empty token means preview only.
	AutodeskToken   string
	AutodeskBaseURL string

	// Fallback plan defaults.
	DefaultUnits  string
	DefaultFormat string

	// Run history store. An empty Driver disables it.
	Driver string
	DSN    string
	Data   string

	Mode    string
	Addr    string
	Version string
	Port    int
}

// Provider default configurations for LLM.
// Used when CADSENSE_AI_LLM_BASE_URL / _MODEL are not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-72B-Instruct",
	},
	"dashscope": {
		BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		Model:   "qwen-max-latest",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "openai/gpt-4o-mini",
	},
	"zai": {
		BaseURL: "https://open.bigmodel.cn/api/paas/v4",
		Model:   "glm-4.7",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an LLM API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.ALLMAPIKey != ""
}

// IsSendEnabled returns true if an Autodesk token is configured.
func (p *Profile) IsSendEnabled() bool {
	return p.AutodeskToken != ""
}

// IsStoreEnabled returns true if a run history driver is configured.
func (p *Profile) IsStoreEnabled() bool {
	return p.Driver != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// Store and server settings come from flags and are left untouched when already set.
func (p *Profile) FromEnv() {
	p.ALLMProvider = getEnvOrDefault("CADSENSE_AI_LLM_PROVIDER", "openai")
	p.ALLMAPIKey = getEnvOrDefault("CADSENSE_AI_LLM_API_KEY", os.Getenv("OPENAI_API_KEY"))
	p.ALLMBaseURL = getEnvOrDefault("CADSENSE_AI_LLM_BASE_URL", "")
	p.ALLMModel = getEnvOrDefault("CADSENSE_AI_LLM_MODEL", "")
	p.ALLMTimeout = getEnvOrDefaultInt("CADSENSE_AI_LLM_TIMEOUT_SECONDS", 120)

	if _, ok := llmProviderDefaults[p.ALLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: openai", "provider", p.ALLMProvider)
		p.ALLMProvider = "openai"
	}
	defaults := llmProviderDefaults[p.ALLMProvider]
	if p.ALLMBaseURL == "" {
		p.ALLMBaseURL = defaults.BaseURL
	}
	if p.ALLMModel == "" {
		p.ALLMModel = defaults.Model
	}

	p.AutodeskToken = getEnvOrDefault("AUTODESK_TOKEN", "")
	p.AutodeskBaseURL = getEnvOrDefault("AUTODESK_BASE_URL", "https://developer.api.autodesk.com")

	p.DefaultUnits = getEnvOrDefault("CADSENSE_DEFAULT_UNITS", "meters")
	p.DefaultFormat = getEnvOrDefault("CADSENSE_DEFAULT_FORMAT", "dwg")

	if p.Driver == "" {
		p.Driver = os.Getenv("CADSENSE_DRIVER")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("CADSENSE_DSN")
	}
}

func checkDataDir(dataDir string) (string, error) {
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve data folder %s", dataDir)
	}

	// Trim trailing \ or / in case user supplies
	absDir = strings.TrimRight(absDir, "\\/")
	if _, err := os.Stat(absDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", absDir)
	}
	return absDir, nil
}

// Validate normalizes the mode and resolves the store DSN.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	switch p.Driver {
	case "":
		return nil
	case "sqlite":
		if p.DSN != "" {
			return nil
		}
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
			return err
		}
		p.Data = dataDir
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("cadsense_%s.db", p.Mode))
		return nil
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn required for postgres driver")
		}
		return nil
	default:
		return errors.Errorf("unsupported driver %q (use sqlite or postgres)", p.Driver)
	}
}
