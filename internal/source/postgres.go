package source

import (
	"context"
	"strconv"
	"time"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
	"github.com/daniilsolovey/blog-catalog/internal/db"
)

// PostLister is implemented by db.Repository.
type PostLister interface {
	Posts(ctx context.Context) ([]db.Post, error)
}

// Postgres reads published posts from the blog database.
type Postgres struct {
	repo PostLister
}

func NewPostgres(repo PostLister) *Postgres {
	return &Postgres{repo: repo}
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Posts(ctx context.Context) ([]catalog.Record, error) {
	posts, err := p.repo.Posts(ctx)
	if err != nil {
		return nil, &FetchError{URL: "postgres", Err: err}
	}

	records := make([]catalog.Record, 0, len(posts))
	for i := range posts {
		records = append(records, newRecordFromDB(&posts[i]))
	}

	return records, nil
}

func newRecordFromDB(in *db.Post) catalog.Record {
	r := catalog.Record{
		ID:          catalog.ID(strconv.Itoa(in.ID)),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.PublishedAt.UTC().Format(time.RFC3339),
		Tags:        in.Tags,
		URL:         in.URL,
	}

	if in.Slug != nil && *in.Slug != "" {
		r.ID = catalog.ID(*in.Slug)
	}
	if in.Category != nil {
		r.Category = in.Category.Title
	}
	if in.Image != nil {
		r.Image = *in.Image
	}

	return r
}
