package rest

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
	if post.Tags == nil {
		post.Tags = []string{}
	}

	return post
}

func NewPosts(list []catalog.Post) []Post {
	return Map(list, NewPost)
}

func NewCategory(c catalog.CategoryCount) Category {
	return Category{
		Name:  c.Name,
		Count: c.Count,
	}
}

func NewCategories(list []catalog.CategoryCount) []Category {
	return Map(list, NewCategory)
}

func NewFilter(f catalog.Filter) Filter {
	return Filter{
		Kind:  f.Kind().String(),
		Value: f.Value(),
	}
}

func NewPagination(p catalog.Pagination) Pagination {
	return Pagination{
		CurrentPage: p.CurrentPage,
		PageCount:   p.PageCount,
		PageSize:    p.PageSize,
		Total:       p.Total,
		HasPrev:     p.HasPrev,
		HasNext:     p.HasNext,
	}
}

func NewPostsPage(v catalog.View) PostsPage {
	return PostsPage{
		Items:      NewPosts(v.Items),
		Pagination: NewPagination(v.Pagination),
		Filter:     NewFilter(v.Filter),
		Empty:      v.Empty,
	}
}

func NewFacets(f catalog.Facets) Facets {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}

	return Facets{
		Categories: NewCategories(f.Categories),
		Tags:       tags,
		Recent:     NewPosts(f.Recent),
	}
}
