// Package config loads the YAML configuration shared by the gallery CLI and
// the galleryd server.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jason-riddle/gallery-go/internal/logging"
)

// Environment variables that override file values.
const (
	EnvConfig          = "GALLERY_CONFIG"
	EnvServerURL       = "GALLERY_URL"
	EnvEmbeddingsURL   = "GALLERY_EMBEDDINGS_URL"
	EnvEmbeddingsKey   = "GALLERY_EMBEDDINGS_KEY"
	EnvEmbeddingsModel = "GALLERY_EMBEDDINGS_MODEL"
)

type File struct {
	Version int    `yaml:"version" json:"version"`
	Client  Client `yaml:"client" json:"client"`
	Server  Server `yaml:"server" json:"server"`
}

type Client struct {
	ServerURL string        `yaml:"server_url" json:"server_url"`
	Page      string        `yaml:"page,omitempty" json:"page,omitempty"`
	Output    string        `yaml:"output,omitempty" json:"output,omitempty"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	LogLevel  string        `yaml:"log_level" json:"log_level"`
}

type Server struct {
	Listen     string     `yaml:"listen" json:"listen"`
	UploadsDir string     `yaml:"uploads_dir" json:"uploads_dir"`
	DBPath     string     `yaml:"db_path" json:"db_path"`
	Limit      int        `yaml:"limit" json:"limit"`
	Threshold  float64    `yaml:"threshold" json:"threshold"`
	LogLevel   string     `yaml:"log_level" json:"log_level"`
	Embeddings Embeddings `yaml:"embeddings,omitempty" json:"embeddings,omitempty"`
}

// Embeddings points at an OpenAI-compatible embeddings API. When URL is
// empty the server uses its local embedder.
type Embeddings struct {
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	Key   string `yaml:"key,omitempty" json:"-"`
	Model string `yaml:"model,omitempty" json:"model,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Version: 1,
		Client: Client{
			ServerURL: "http://localhost:5000",
			Timeout:   60 * time.Second,
			LogLevel:  "info",
		},
		Server: Server{
			Listen:     ":5000",
			UploadsDir: "uploads",
			DBPath:     "gallery.db",
			Limit:      5,
			Threshold:  0.1,
			LogLevel:   "info",
		},
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes data over the defaults. Unknown keys are errors.
func Parse(data []byte, source string) (File, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Resolve loads the file at path, or at $GALLERY_CONFIG when path is empty,
// or the defaults when neither is set. Environment overrides are applied
// and the result validated.
func Resolve(path string) (File, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Check()
}

// Check validates cfg and joins the problems into one error. Callers that
// override fields after Resolve call it again.
func (cfg File) Check() error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ApplyEnv overrides values with the non-empty environment variables
// returned by getenv.
func (cfg *File) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvServerURL); v != "" {
		cfg.Client.ServerURL = v
	}
	if v := getenv(EnvEmbeddingsURL); v != "" {
		cfg.Server.Embeddings.URL = v
	}
	if v := getenv(EnvEmbeddingsKey); v != "" {
		cfg.Server.Embeddings.Key = v
	}
	if v := getenv(EnvEmbeddingsModel); v != "" {
		cfg.Server.Embeddings.Model = v
	}
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}

	if strings.TrimSpace(cfg.Client.ServerURL) == "" {
		errs = append(errs, "client.server_url is required")
	} else if err := checkHTTPURL(cfg.Client.ServerURL); err != nil {
		errs = append(errs, fmt.Sprintf("client.server_url %v", err))
	}
	if cfg.Client.Timeout < 0 {
		errs = append(errs, "client.timeout must be >= 0")
	}
	if _, err := logging.ParseLevel(cfg.Client.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("client.log_level: %v", err))
	}

	if strings.TrimSpace(cfg.Server.Listen) == "" {
		errs = append(errs, "server.listen is required")
	}
	if strings.TrimSpace(cfg.Server.UploadsDir) == "" {
		errs = append(errs, "server.uploads_dir is required")
	}
	if strings.TrimSpace(cfg.Server.DBPath) == "" {
		errs = append(errs, "server.db_path is required")
	}
	if cfg.Server.Limit <= 0 {
		errs = append(errs, "server.limit must be > 0")
	}
	if cfg.Server.Threshold < -1 || cfg.Server.Threshold >= 1 {
		errs = append(errs, "server.threshold must be in [-1, 1)")
	}
	if _, err := logging.ParseLevel(cfg.Server.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("server.log_level: %v", err))
	}

	emb := cfg.Server.Embeddings
	if emb.URL != "" {
		if err := checkHTTPURL(emb.URL); err != nil {
			errs = append(errs, fmt.Sprintf("server.embeddings.url %v", err))
		}
		if strings.TrimSpace(emb.Model) == "" {
			errs = append(errs, "server.embeddings.model is required when server.embeddings.url is set")
		}
	} else if emb.Key != "" || emb.Model != "" {
		errs = append(errs, "server.embeddings.url is required when key or model is set")
	}

	return errs
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("has no host: %q", raw)
	}
	return nil
}
