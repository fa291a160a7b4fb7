package internal

// Mode selects what Run does.
type Mode int

const (
	// ModeGenerate runs one generation pass for every person and exits.
	ModeGenerate Mode = iota
	// ModeExport writes the current item sets as two-row-header CSVs.
	ModeExport
	// ModeServe serves the generated sites and regenerates on changes.
	ModeServe
	// ModeMCP exposes the item index over MCP stdio.
	ModeMCP
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   Mode
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode sets the run mode.
func WithMode(mode Mode) Option {
	return func(a *application) {
		a.mode = mode
	}
}
