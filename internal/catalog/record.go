package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Record is one category with the number of content documents tagged with it.
type Record struct {
	Category    string
	Count       int
	Description string

	// Image metadata is kept only when present, so catalogs written without
	// image mode do not grow empty fields.
	ImageFilePath    *string
	ImageAltText     *string
	ImageAttribution *string

	// Extra preserves keys added to the catalog file by hand.
	Extra map[string]json.RawMessage
}

// Catalog is the ordered set of category records persisted between runs.
type Catalog []Record

const (
	keyCategory         = "category"
	keyCount            = "count"
	keyDescription      = "description"
	keyImageFilePath    = "imageFilePath"
	keyImageAltText     = "imageAltText"
	keyImageAttribution = "imageAttribution"
)

// NewRecord returns a record for a newly discovered category.
func NewRecord(category string, withImage bool) Record {
	r := Record{Category: category, Count: 1}
	if withImage {
		r.ImageFilePath = new(string)
		r.ImageAltText = new(string)
		r.ImageAttribution = new(string)
	}
	return r
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := r
	c.ImageFilePath = cloneString(r.ImageFilePath)
	c.ImageAltText = cloneString(r.ImageAltText)
	c.ImageAttribution = cloneString(r.ImageAttribution)
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// Find returns the index of the record with exactly the given category, or -1.
func (c Catalog) Find(category string) int {
	for i := range c {
		if c[i].Category == category {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the known keys in a fixed order followed by any extra
// keys sorted by name. HTML characters are not escaped.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := encode(key)
		if err != nil {
			return err
		}
		v, err := encode(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	fields := []struct {
		key   string
		value interface{}
		skip  bool
	}{
		{keyCategory, r.Category, false},
		{keyCount, r.Count, false},
		{keyDescription, r.Description, false},
		{keyImageFilePath, r.ImageFilePath, r.ImageFilePath == nil},
		{keyImageAltText, r.ImageAltText, r.ImageAltText == nil},
		{keyImageAttribution, r.ImageAttribution, r.ImageAttribution == nil},
	}
	for _, f := range fields {
		if f.skip {
			continue
		}
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, r.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a record, keeping unknown keys in Extra.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{}
	for key, value := range raw {
		var err error
		switch key {
		case keyCategory:
			err = json.Unmarshal(value, &r.Category)
		case keyCount:
			err = json.Unmarshal(value, &r.Count)
		case keyDescription:
			var d *string
			err = json.Unmarshal(value, &d)
			if d != nil {
				r.Description = *d
			}
		case keyImageFilePath:
			err = json.Unmarshal(value, &r.ImageFilePath)
		case keyImageAltText:
			err = json.Unmarshal(value, &r.ImageAltText)
		case keyImageAttribution:
			err = json.Unmarshal(value, &r.ImageAttribution)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]json.RawMessage)
			}
			r.Extra[key] = append(json.RawMessage(nil), value...)
		}
		if err != nil {
			return fmt.Errorf("invalid %q in category record: %w", key, err)
		}
	}
	return nil
}

// Marshal renders the catalog as two-space indented JSON without a trailing newline.
func Marshal(c Catalog) ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal parses a catalog document.
func Unmarshal(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = Catalog{}
	}
	return c, nil
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
