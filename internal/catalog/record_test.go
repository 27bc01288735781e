package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"String", `{"id":"post-1"}`, "post-1", false},
		{"PaddedString", `{"id":"  7 "}`, "7", false},
		{"Integer", `{"id":42}`, "42", false},
		{"Null", `{"id":null}`, "", false},
		{"Missing", `{}`, "", false},
		{"ObjectFallsBackToDerived", `{"id":{"v":1}}`, "", false},
		{"NotAnObject", `["id"]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			err := json.Unmarshal([]byte(tt.input), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.ID)
		})
	}
}

func TestNewPost(t *testing.T) {
	t.Run("TrimsAndDropsBlankTags", func(t *testing.T) {
		p, err := NewPost(0, Record{Title: "T", Date: "2024-01-02", Tags: []string{" go ", "", "  "}})
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, p.Tags)
	})

	t.Run("ParsesCommonDateForms", func(t *testing.T) {
		for _, date := range []string{
			"2024-01-02",
			"2024-01-02T15:04:05Z",
			"2024-01-02T15:04:05+05:30",
			"Jan 2, 2024",
			"01/02/2024",
		} {
			p, err := NewPost(0, Record{Title: "T", Date: date})
			require.NoError(t, err, date)
			assert.True(t, p.DateValid, date)
			assert.Equal(t, 2024, p.PublishedAt.Year(), date)
		}
	})

	t.Run("KeepsSourceID", func(t *testing.T) {
		p, err := NewPost(0, Record{ID: "abc", Title: "T", Date: "2024-01-02"})
		require.NoError(t, err)
		assert.Equal(t, "abc", p.ID)
	})

	t.Run("DerivedIDDependsOnContent", func(t *testing.T) {
		a, err := NewPost(0, Record{Title: "A", Date: "2024-01-02", URL: "/a"})
		require.NoError(t, err)
		b, err := NewPost(0, Record{Title: "B", Date: "2024-01-02", URL: "/b"})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestFilter(t *testing.T) {
	post := Post{
		Title:       "Hello",
		Category:    "Tech",
		Tags:        []string{"go", "web"},
		searchTitle: "hello",
		searchTags:  "go web",
	}

	tests := []struct {
		name   string
		filter Filter
		kind   FilterKind
		match  bool
	}{
		{"Zero", Filter{}, FilterNone, true},
		{"None", NoFilter(), FilterNone, true},
		{"Category", ByCategory("Tech"), FilterCategory, true},
		{"CategoryOtherCase", ByCategory("tech"), FilterCategory, false},
		{"Tag", ByTag("web"), FilterTag, true},
		{"TagPrefix", ByTag("we"), FilterTag, false},
		{"Search", BySearch(" HEL "), FilterSearch, true},
		{"SearchTags", BySearch("go w"), FilterSearch, true},
		{"SearchMiss", BySearch("rust"), FilterSearch, false},
		{"BlankSearch", BySearch(" \t "), FilterNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.filter.Kind())
			assert.Equal(t, tt.match, tt.filter.Match(&post))
		})
	}

	assert.Equal(t, "tag:web", ByTag("web").String())
	assert.Equal(t, "none", NoFilter().String())
}
