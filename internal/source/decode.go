package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format by file extension, JSON by default.
func FormatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".csv":
		return FormatCSV
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromURL also understands Google Sheets exports (?format=csv).
func FormatFromURL(rawURL string) Format {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FormatJSON
	}
	if strings.EqualFold(u.Query().Get("format"), "csv") ||
		strings.EqualFold(u.Query().Get("output"), "csv") {
		return FormatCSV
	}
	return FormatFromPath(u.Path)
}

// Decode turns a raw payload into catalog records.
func Decode(format Format, body []byte) ([]catalog.Record, error) {
	switch format {
	case FormatJSON, "":
		return DecodeJSON(body)
	case FormatCSV:
		return DecodeCSV(body)
	case FormatYAML:
		return DecodeYAML(body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeJSON accepts a JSON array of records or an object with a "posts"
// array. An empty body, null, or any other JSON value yields an empty
// catalog; only malformed JSON is a data error.
func DecodeJSON(body []byte) ([]catalog.Record, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []catalog.Record{}, nil
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, catalog.NewDataError(fmt.Errorf("decode json: %w", err))
	}

	switch body[0] {
	case '[':
		return decodeJSONRecords(body)
	case '{':
		var envelope struct {
			Posts json.RawMessage `json:"posts"`
			Error string          `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, catalog.NewDataError(fmt.Errorf("decode json envelope: %w", err))
		}
		if envelope.Error != "" {
			return nil, catalog.NewDataError(errors.New(envelope.Error))
		}
		posts := bytes.TrimSpace(envelope.Posts)
		if len(posts) == 0 || posts[0] != '[' {
			return []catalog.Record{}, nil
		}
		return decodeJSONRecords(posts)
	default:
		return []catalog.Record{}, nil
	}
}

func decodeJSONRecords(body []byte) ([]catalog.Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, catalog.NewDataError(fmt.Errorf("decode json array: %w", err))
	}

	records := make([]catalog.Record, 0, len(items))
	for i, item := range items {
		var r catalog.Record
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, &catalog.DataError{Index: i, Err: err}
		}
		records = append(records, r)
	}

	return records, nil
}

// DecodeYAML accepts a YAML sequence of records.
func DecodeYAML(body []byte) ([]catalog.Record, error) {
	var records []catalog.Record
	if err := yaml.Unmarshal(body, &records); err != nil {
		return nil, catalog.NewDataError(fmt.Errorf("decode yaml: %w", err))
	}
	if records == nil {
		records = []catalog.Record{}
	}
	return records, nil
}

// DecodeCSV reads a spreadsheet export whose first row names the columns.
// Column names are matched case-insensitively, unknown columns are ignored,
// blank rows are skipped and the tags cell is split on , ; or |.
func DecodeCSV(body []byte) ([]catalog.Record, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []catalog.Record{}, nil
	} else if err != nil {
		return nil, catalog.NewDataError(fmt.Errorf("read csv header: %w", err))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}

	records := []catalog.Record{}
	for row := 0; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, &catalog.DataError{Index: row, Err: fmt.Errorf("read csv row: %w", err)}
		}
		if blankRow(fields) {
			continue
		}

		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		records = append(records, catalog.Record{
			ID:          catalog.ID(cell("id")),
			Title:       cell("title"),
			Description: cell("description"),
			Date:        cell("date"),
			Category:    cell("category"),
			Tags:        splitTags(cell("tags")),
			URL:         cell("url"),
			Image:       cell("image"),
		})
	}

	return records, nil
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})

	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
