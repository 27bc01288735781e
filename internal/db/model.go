// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	Category struct {
		ID, Title, StatusID string

		Status string
	}
	Post struct {
		ID, Slug, CategoryID, Title, Description, PublishedAt, Tags, URL, Image, StatusID string

		Category, Status string
	}
	Status struct {
		ID string
	}
}{
	Category: struct {
		ID, Title, StatusID string

		Status string
	}{
		ID:       "categoryId",
		Title:    "title",
		StatusID: "statusId",

		Status: "Status",
	},
	Post: struct {
		ID, Slug, CategoryID, Title, Description, PublishedAt, Tags, URL, Image, StatusID string

		Category, Status string
	}{
		ID:          "postId",
		Slug:        "slug",
		CategoryID:  "categoryId",
		Title:       "title",
		Description: "description",
		PublishedAt: "publishedAt",
		Tags:        "tags",
		URL:         "url",
		Image:       "image",
		StatusID:    "statusId",

		Category: "Category",
		Status:   "Status",
	},
	Status: struct {
		ID string
	}{
		ID: "statusId",
	},
}

var Tables = struct {
	Category struct {
		Name, Alias string
	}
	Post struct {
		Name, Alias string
	}
	Status struct {
		Name, Alias string
	}
}{
	Category: struct {
		Name, Alias string
	}{
		Name:  "categories",
		Alias: "t",
	},
	Post: struct {
		Name, Alias string
	}{
		Name:  "posts",
		Alias: "t",
	},
	Status: struct {
		Name, Alias string
	}{
		Name:  "statuses",
		Alias: "t",
	},
}

type Category struct {
	tableName struct{} `pg:"categories,alias:t,discard_unknown_columns"`

	ID       int    `pg:"categoryId,pk"`
	Title    string `pg:"title,use_zero"`
	StatusID int    `pg:"statusId,use_zero"`

	Status *Status `pg:"fk:statusId,rel:has-one"`
}

type Post struct {
	tableName struct{} `pg:"posts,alias:t,discard_unknown_columns"`

	ID          int       `pg:"postId,pk"`
	Slug        *string   `pg:"slug"`
	CategoryID  *int      `pg:"categoryId"`
	Title       string    `pg:"title,use_zero"`
	Description string    `pg:"description,use_zero"`
	PublishedAt time.Time `pg:"publishedAt,use_zero"`
	Tags        []string  `pg:"tags,array,use_zero"`
	URL         string    `pg:"url,use_zero"`
	Image       *string   `pg:"image"`
	StatusID    int       `pg:"statusId,use_zero"`

	Category *Category `pg:"fk:categoryId,rel:has-one"`
	Status   *Status   `pg:"fk:statusId,rel:has-one"`
}

type Status struct {
	tableName struct{} `pg:"statuses,alias:t,discard_unknown_columns"`

	ID int `pg:"statusId,pk"`
}
