package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

const (
	StatusPublished = 1
)

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		return db.Ping(ctx)
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		return db.Close()
	}

	return nil
}

func (r *Repository) published(ctx context.Context, model interface{}) *pg.Query {
	return r.db.ModelContext(ctx, model).
		Relation("Category").
		Where(`"t"."statusId" = ?`, StatusPublished).
		Where(`"t"."publishedAt" < ?`, time.Now())
}

// Posts returns every published post whose publish time has passed, newest
// first. Posts without a category are included.
func (r *Repository) Posts(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := r.published(ctx, &posts).
		OrderExpr(`"t"."publishedAt" DESC`).
		OrderExpr(`"t"."postId" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return posts, nil
}
