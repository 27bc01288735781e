package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"
)

const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

type Config struct {
	Database pg.Options
	App      struct {
		Host string
		Port int
	}
	Catalog Catalog
	Source  Source
	Cache   Cache
}

type Catalog struct {
	PageSize        int
	RecentCount     int
	RefreshInterval time.Duration
}

type Source struct {
	Kind       string
	URL        string
	Path       string
	Format     string
	Timeout    time.Duration
	MaxRetries int
	S3         S3
}

type S3 struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string
}

type Cache struct {
	Enabled   bool
	Directory string
	TTL       time.Duration
}

// Default returns the configuration used for keys missing from the file.
func Default() Config {
	var cfg Config
	cfg.App.Host = "0.0.0.0"
	cfg.App.Port = 3000
	cfg.Catalog = Catalog{
		PageSize:        6,
		RecentCount:     5,
		RefreshInterval: 10 * time.Minute,
	}
	cfg.Source = Source{
		Kind:       SourceHTTP,
		Timeout:    15 * time.Second,
		MaxRetries: 3,
		S3:         S3{Region: "us-east-1"},
	}
	cfg.Cache = Cache{
		Directory: ".cache/blog-catalog",
		TTL:       5 * time.Minute,
	}
	return cfg
}

// Load decodes the TOML file at path over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate resets out-of-range numbers to defaults and checks that the
// selected source is fully described.
func (c *Config) Validate() error {
	def := Default()

	if c.App.Port <= 0 || c.App.Port > 65535 {
		c.App.Port = def.App.Port
	}
	if c.Catalog.PageSize < 1 {
		c.Catalog.PageSize = def.Catalog.PageSize
	}
	if c.Catalog.RecentCount < 0 {
		c.Catalog.RecentCount = def.Catalog.RecentCount
	}
	if c.Catalog.RefreshInterval < 0 {
		c.Catalog.RefreshInterval = 0
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = def.Source.Timeout
	}
	if c.Source.MaxRetries < 0 {
		c.Source.MaxRetries = 0
	}
	if c.Cache.TTL < 0 {
		c.Cache.TTL = 0
	}

	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	c.Source.Format = strings.ToLower(strings.TrimSpace(c.Source.Format))

	switch c.Source.Format {
	case "", "json", "csv", "yaml":
	default:
		return fmt.Errorf("unsupported source format %q", c.Source.Format)
	}

	switch c.Source.Kind {
	case SourceHTTP:
		if c.Source.URL == "" {
			return errors.New("source url is required for http source")
		}
	case SourceFile:
		if c.Source.Path == "" {
			return errors.New("source path is required for file source")
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" || c.Source.S3.Key == "" {
			return errors.New("s3 bucket and key are required for s3 source")
		}
	case SourcePostgres:
		if c.Database.Addr == "" && c.Database.Database == "" {
			return errors.New("database section is required for postgres source")
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	return nil
}
