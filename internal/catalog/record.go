package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// postNamespace seeds ids derived for records that carry none.
var postNamespace = uuid.MustParse("6f1c5a8e-3f7b-4c59-9a4e-2d1b7c0e9f35")

// ID is a post identifier. The data feeds send it either as a JSON string or
// a JSON number, both decode to the same string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Record is a post as delivered by a data source, before validation.
type Record struct {
	ID          ID       `json:"id,omitempty" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Date        string   `json:"date" yaml:"date"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
	URL         string   `json:"url" yaml:"url"`
	Image       string   `json:"image" yaml:"image"`
}

// UnmarshalJSON decodes a record field by field. A field of the wrong type
// is left at its zero value; only title and date are checked later by
// NewPost.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Title       json.RawMessage `json:"title"`
		Description json.RawMessage `json:"description"`
		Date        json.RawMessage `json:"date"`
		Category    json.RawMessage `json:"category"`
		Tags        json.RawMessage `json:"tags"`
		URL         json.RawMessage `json:"url"`
		Image       json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var id ID
	if len(raw.ID) > 0 && id.UnmarshalJSON(raw.ID) != nil {
		id = ""
	}

	*r = Record{
		ID:          id,
		Title:       jsonString(raw.Title),
		Description: jsonString(raw.Description),
		Date:        jsonString(raw.Date),
		Category:    jsonString(raw.Category),
		Tags:        jsonStrings(raw.Tags),
		URL:         jsonString(raw.URL),
		Image:       jsonString(raw.Image),
	}
	return nil
}

func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// jsonStrings keeps the string elements of a JSON array.
func jsonStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			result = append(result, s)
		}
	}
	return result
}

// UnmarshalYAML mirrors UnmarshalJSON: optional fields of the wrong kind
// are left empty. Title, date and id accept any scalar since YAML resolves
// bare dates and numbers to non-string tags.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: record must be a mapping", value.Line)
	}

	*r = Record{Tags: []string{}}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, node := value.Content[i].Value, value.Content[i+1]
		switch strings.ToLower(key) {
		case "id":
			r.ID = ID(strings.TrimSpace(yamlScalar(node)))
		case "title":
			r.Title = yamlScalar(node)
		case "date":
			r.Date = yamlScalar(node)
		case "description":
			r.Description = yamlString(node)
		case "category":
			r.Category = yamlString(node)
		case "url":
			r.URL = yamlString(node)
		case "image":
			r.Image = yamlString(node)
		case "tags":
			r.Tags = yamlStrings(node)
		}
	}
	return nil
}

func yamlScalar(node *yaml.Node) string {
	if node.Kind != yaml.ScalarNode || node.ShortTag() == "!!null" {
		return ""
	}
	return node.Value
}

func yamlString(node *yaml.Node) string {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!str" {
		return ""
	}
	return node.Value
}

func yamlStrings(node *yaml.Node) []string {
	if node.Kind != yaml.SequenceNode {
		return []string{}
	}

	result := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!str" {
			result = append(result, item.Value)
		}
	}
	return result
}

// Post is an immutable, validated catalog entry.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	PublishedAt time.Time `json:"publishedAt"`
	DateValid   bool      `json:"-"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`

	// lowercased haystacks for substring search
	searchTitle string
	searchDesc  string
	searchTags  string
}

// HasTag reports whether tag is one of the post tags (exact match).
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (p *Post) matchesQuery(query string) bool {
	return strings.Contains(p.searchTitle, query) ||
		strings.Contains(p.searchDesc, query) ||
		strings.Contains(p.searchTags, query)
}

// NewPost validates r and builds the post. index is the record position in
// the source and only used for error reporting.
func NewPost(index int, r Record) (Post, error) {
	if strings.TrimSpace(r.Title) == "" {
		return Post{}, &DataError{Index: index, Field: "title", Err: ErrMissingField}
	}
	if strings.TrimSpace(r.Date) == "" {
		return Post{}, &DataError{Index: index, Field: "date", Err: ErrMissingField}
	}

	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	p := Post{
		ID:          string(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Category:    r.Category,
		Tags:        tags,
		URL:         r.URL,
		Image:       r.Image,
	}

	if t, err := dateparse.ParseAny(strings.TrimSpace(r.Date)); err == nil {
		p.PublishedAt = t
		p.DateValid = true
	}

	if p.ID == "" {
		p.ID = uuid.NewSHA1(postNamespace, []byte(r.URL+"|"+r.Title+"|"+r.Date)).String()
	}

	p.searchTitle = strings.ToLower(p.Title)
	p.searchDesc = strings.ToLower(p.Description)
	p.searchTags = strings.ToLower(strings.Join(p.Tags, " "))

	return p, nil
}
