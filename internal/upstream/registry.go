package upstream

import (
	"embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all upstream notice sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig defines HTTP fetching configuration for a source.
type FetchConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"` // Default: 30
	MaxRetries     int     `yaml:"max_retries,omitempty"`     // Default: 3
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`  // Requests per second, default: 1.0
	AcceptLanguage string  `yaml:"accept_language,omitempty"` // e.g. "pt-BR,pt;q=0.9,en;q=0.8"
}

// SourceConfig defines a single upstream source. Kind "api" sources
// expose a JSON list of notices; "portal" sources are scraped pages
// whose PDF links carry the submission calendar.
type SourceConfig struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"` // "api", "portal"
	BaseURL     string   `yaml:"base_url,omitempty"`
	APIKey      string   `yaml:"api_key,omitempty"`
	Seeds       []string `yaml:"seed_urls,omitempty"`
	Origem      string   `yaml:"origem,omitempty"` // default value for notices from this source
	Description string   `yaml:"description,omitempty"`

	Fetch FetchConfig `yaml:"fetch,omitempty"`

	// For portal sources
	Selectors SelectorConfig `yaml:"selectors,omitempty"`
	MaxPages  int            `yaml:"max_pages,omitempty"`
}

type SelectorConfig struct {
	Container string `yaml:"container,omitempty"` // CSS selector for the list item wrapper
	Link      string `yaml:"link,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Summary   string `yaml:"summary,omitempty"`
	PDFLink   string `yaml:"pdf_link,omitempty"`
}

// LoadRegistry reads the embedded sources.yaml. A non-empty path
// overrides the embedded copy, for local development.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	if path != "" {
		if override, err := os.ReadFile(path); err == nil {
			data = override
		}
	}

	// Expand environment variables within the YAML content (e.g. ${API_KEY})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}
