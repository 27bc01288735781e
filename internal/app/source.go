package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-pg/pg/v10"

	"github.com/daniilsolovey/blog-catalog/config"
	"github.com/daniilsolovey/blog-catalog/internal/cache"
	"github.com/daniilsolovey/blog-catalog/internal/db"
	"github.com/daniilsolovey/blog-catalog/internal/source"
)

// Resources holds what the source needs closed on shutdown.
type Resources struct {
	Cache *cache.Badger
	Repo  *db.Repository
}

func (r *Resources) Close() error {
	var firstErr error
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close cache: %w", err)
		}
	}
	if r.Repo != nil {
		if err := r.Repo.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}
	return firstErr
}

// NewSource builds the data source selected by cfg.Source.Kind.
func NewSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (source.Source, *Resources, error) {
	res := &Resources{}
	format := source.Format(cfg.Source.Format)

	switch cfg.Source.Kind {
	case config.SourceHTTP:
		opts := source.HTTPOptions{
			URL:        cfg.Source.URL,
			Format:     format,
			Timeout:    cfg.Source.Timeout,
			MaxRetries: cfg.Source.MaxRetries,
			Logger:     logger,
		}
		if cfg.Cache.Enabled {
			c, err := cache.NewBadger(cache.Options{Directory: cfg.Cache.Directory})
			if err != nil {
				return nil, nil, err
			}
			res.Cache = c
			opts.Cache = c
			opts.CacheTTL = cfg.Cache.TTL
		}
		return source.NewHTTP(opts), res, nil

	case config.SourceFile:
		return source.NewFile(cfg.Source.Path, format), res, nil

	case config.SourceS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Source.S3.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Source.S3.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Source.S3.Endpoint)
				o.UsePathStyle = true
			}
		})
		return source.NewS3(client, cfg.Source.S3.Bucket, cfg.Source.S3.Key, format), res, nil

	case config.SourcePostgres:
		repo := db.New(pg.Connect(&cfg.Database))
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		res.Repo = repo
		return source.NewPostgres(repo), res, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
