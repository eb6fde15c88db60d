package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache loads ingestion source configurations from a directory of YAML files
// and keeps them in memory for the process lifetime. When the directory does
// not exist a single built-in default source is used.
type Cache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewCache(sourcesDir string) *Cache {
	return &Cache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.sourcesDir); os.IsNotExist(err) {
		c.storeDefault()
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	yamlFiles, err := filepath.Glob(filepath.Join(c.sourcesDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	for _, file := range files {
		fileName := filepath.Base(file)
		sourceName := strings.TrimSuffix(fileName, filepath.Ext(fileName))

		config, err := c.loadFile(file, sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		c.mu.Lock()
		c.cache[config.Name] = config
		c.mu.Unlock()

		slog.Debug("Source configuration loaded", "source", sourceName, "query", config.Query, "enabled", config.IsEnabled())
	}

	if c.GetSourceCount() == 0 {
		c.storeDefault()
	}

	return nil
}

func (c *Cache) loadFile(path, sourceName string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.Name = sourceName
	setDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

func setDefaults(config *Config) {
	if config.Language == "" {
		config.Language = "en"
	}
}

func validate(config *Config) error {
	if config.Query == "" {
		return fmt.Errorf("query is required")
	}
	if config.PageSize < 0 {
		return fmt.Errorf("page size must be non-negative")
	}
	if config.MaxPages < 0 {
		return fmt.Errorf("max pages must be non-negative")
	}
	return nil
}

func (c *Cache) storeDefault() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache["bitcoin"] = &Config{Name: "bitcoin", Query: "bitcoin", Language: "en"}
	slog.Debug("No source configurations found, using built-in default", "source", "bitcoin")
}

func (c *Cache) GetSource(name string) (*Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	config, ok := c.cache[name]
	if !ok {
		return nil, fmt.Errorf("source not found: %s", name)
	}
	return config, nil
}

// GetSources returns all loaded sources in stable name order.
func (c *Cache) GetSources() []*Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sources := make([]*Config, 0, len(c.cache))
	for _, config := range c.cache {
		sources = append(sources, config)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources
}

func (c *Cache) GetSourceCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
