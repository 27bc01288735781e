package rpc

import "github.com/daniilsolovey/blog-catalog/internal/catalog"

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func NewPost(p catalog.Post) Post {
	post := Post{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Category:    p.Category,
		Tags:        p.Tags,
		URL:         p.URL,
		Image:       p.Image,
	}
	if p.DateValid {
		publishedAt := p.PublishedAt
		post.PublishedAt = &publishedAt
	}

	return post
}

func NewCategory(c catalog.CategoryCount) Category {
	return Category{Name: c.Name, Count: c.Count}
}

func NewPostsPage(v catalog.View) PostsPage {
	return PostsPage{
		Posts:       Map(v.Items, NewPost),
		Filter:      v.Filter.String(),
		CurrentPage: v.Pagination.CurrentPage,
		PageCount:   v.Pagination.PageCount,
		Total:       v.Pagination.Total,
		HasPrev:     v.Pagination.HasPrev,
		HasNext:     v.Pagination.HasNext,
		Empty:       v.Empty,
	}
}

func NewFacets(f catalog.Facets) Facets {
	return Facets{
		Categories: Map(f.Categories, NewCategory),
		Tags:       f.Tags,
		Recent:     Map(f.Recent, NewPost),
	}
}
