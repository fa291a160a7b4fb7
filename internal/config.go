package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Source SourceConfig      `yaml:"source"`
	Output OutputConfig      `yaml:"output"`
	Images ImagesConfig      `yaml:"images"`
	Sheets SheetsConfig      `yaml:"sheets"`
	Index  IndexConfig       `yaml:"index"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Sheets.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for serve mode.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourceConfig locates the per-person source trees. Each person owns
// "<base_dir>/<person>s-clothes" with a "photos" directory of category
// folders and an optional local metadata fallback document.
type SourceConfig struct {
	BaseDir string   `yaml:"base_dir"`
	People  []string `yaml:"people"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseDir, validation.Required),
		validation.Field(&c.People, validation.Required, validation.Length(1, 0)),
	)
}

// PersonDir returns a person's source directory.
func (c *SourceConfig) PersonDir(person string) string {
	return filepath.Join(c.BaseDir, person+"s-clothes")
}

// PhotosDir returns a person's photo tree root.
func (c *SourceConfig) PhotosDir(person string) string {
	return filepath.Join(c.PersonDir(person), "photos")
}

// OutputConfig locates the generated sites and the shared template.
type OutputConfig struct {
	BaseDir     string `yaml:"base_dir"`
	TemplateDir string `yaml:"template_dir"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseDir, validation.Required),
	)
}

// PersonDir returns a person's output directory.
func (c *OutputConfig) PersonDir(person string) string {
	return filepath.Join(c.BaseDir, person+"s-clothes")
}

// ImagesConfig controls photo rendition processing.
type ImagesConfig struct {
	Skip bool `yaml:"skip"`
}

// SheetsConfig configures the remote tabular metadata backend. The
// sheet for a person is named "<person>-wardrobe" and is looked up by
// exact name inside FolderID. TokenPath points at an already-issued
// OAuth token file; acquisition and refresh happen outside this tool.
type SheetsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	FolderID  string `yaml:"folder_id"`
	TokenPath string `yaml:"token_path"`
}

// Validate validates the sheets configuration.
func (c *SheetsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.FolderID, validation.Required),
		validation.Field(&c.TokenPath, validation.Required),
	)
}

// SheetName returns the spreadsheet name for a person.
func (c *SheetsConfig) SheetName(person string) string {
	return person + "-wardrobe"
}

// IndexConfig holds SQLite item index configuration.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for serve mode.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled".
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8000,
			},
		},
		Source: SourceConfig{
			BaseDir: "source_data",
			People:  []string{"eric", "randi"},
		},
		Output: OutputConfig{
			BaseDir:     "output",
			TemplateDir: "site_template",
		},
		Index: IndexConfig{
			Path: "./wardrobe.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
