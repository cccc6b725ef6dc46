// Package toolkit wires a Cohere-style streaming chat API onto any
// OpenAI-compatible completion endpoint: request translation, prompt
// templating, streaming tool-call reconstruction and the tool
// execution loop.
package toolkit

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/7ozzam/cohere-toolkit-with-openai/models/openai"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
)

// RetentionDaysEnvVar sets how many days a conversation may go
// untouched before the janitor prunes it. Unset or zero disables
// pruning.
const RetentionDaysEnvVar = "TOOLKIT_RETENTION_DAYS"

// Config holds everything needed to stand up the backend: the
// upstream deployment settings, the conversation store and the
// retention policy.
type Config struct {
	EndpointURL   string
	APIKey        string
	DefaultModel  string
	TemplateName  string
	BuildTemplate bool
	Store         stores.Store
	Retention     time.Duration
	Logger        *log.Logger
}

// NewConfig creates a configuration from the environment with an
// in-process SQLite store.
func NewConfig() *Config {
	// Load .env file if it exists (not present in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	defaultStore, err := stores.NewStoreFromEnv()
	if err != nil {
		panic("Failed to create store: " + err.Error())
	}

	buildTemplate := true
	if v := os.Getenv(openai.BuildTemplateEnvVar); v != "" {
		if parsed, perr := strconv.ParseBool(v); perr == nil {
			buildTemplate = parsed
		}
	}

	var retention time.Duration
	if v := os.Getenv(RetentionDaysEnvVar); v != "" {
		if days, perr := strconv.Atoi(v); perr == nil && days > 0 {
			retention = time.Duration(days) * 24 * time.Hour
		}
	}

	return &Config{
		EndpointURL:   os.Getenv(openai.URLEnvVar),
		APIKey:        os.Getenv(openai.APIKeyEnvVar),
		DefaultModel:  os.Getenv(openai.DefaultModelEnvVar),
		TemplateName:  os.Getenv(openai.TemplateNameEnvVar),
		BuildTemplate: buildTemplate,
		Store:         defaultStore,
		Retention:     retention,
		Logger:        log.Default(),
	}
}

// WithEndpointURL sets the upstream base URL.
func (c *Config) WithEndpointURL(url string) *Config {
	c.EndpointURL = url
	return c
}

// WithAPIKey sets the upstream API key.
func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

// WithDefaultModel sets the model used when requests name none.
func (c *Config) WithDefaultModel(model string) *Config {
	c.DefaultModel = model
	return c
}

// WithTemplateName selects the prompt template for templated calls.
func (c *Config) WithTemplateName(name string) *Config {
	c.TemplateName = name
	return c
}

// WithBuildTemplate toggles between templated /completions calls and
// structured /chat/completions calls.
func (c *Config) WithBuildTemplate(build bool) *Config {
	c.BuildTemplate = build
	return c
}

// WithStore sets the conversation store.
func (c *Config) WithStore(store stores.Store) *Config {
	c.Store = store
	return c
}

// WithSQLiteStore sets a SQLite store at the given path.
func (c *Config) WithSQLiteStore(dbPath string) *Config {
	store, err := stores.NewSQLiteStoreSimple(dbPath)
	if err != nil {
		panic("Failed to create SQLite store: " + err.Error())
	}
	c.Store = store
	return c
}

// WithPostgresStore sets a PostgreSQL store with the given
// connection parameters.
func (c *Config) WithPostgresStore(host, user, password, dbname string, port int) *Config {
	store, err := stores.NewPostgresStoreDefault(host, user, password, dbname, port)
	if err != nil {
		panic("Failed to create PostgreSQL store: " + err.Error())
	}
	c.Store = store
	return c
}

// WithRetention sets how long untouched conversations are kept before
// the janitor prunes them. Zero disables pruning.
func (c *Config) WithRetention(retention time.Duration) *Config {
	c.Retention = retention
	return c
}

// WithLogger sets the logger used by components built from this
// configuration.
func (c *Config) WithLogger(logger *log.Logger) *Config {
	c.Logger = logger
	return c
}
