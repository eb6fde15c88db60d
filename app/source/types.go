package source

// Config describes a single ingestion source: one search query against the
// content API, with optional per-source overrides of the run defaults.
type Config struct {
	Name     string `yaml:"-"`
	Query    string `yaml:"query"`
	Language string `yaml:"language"`
	From     string `yaml:"from"`
	Topic    string `yaml:"topic"`
	PageSize int    `yaml:"page_size"`
	MaxPages int    `yaml:"max_pages"`
	Enabled  *bool  `yaml:"enabled"`
}

// IsEnabled treats an unset enabled flag as true.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}
