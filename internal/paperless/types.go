package paperless

import (
	"encoding/json"
	"fmt"
)

// Correspondent is a snapshot of one correspondent record as returned by the
// API. Snapshots are fetched fresh for every top-level operation and never
// cached across calls that may mutate remote state.
//
// Only ID, Name, and DocumentCount drive any logic; everything else the
// service sends is carried in Extra so snapshots round-trip losslessly
// through JSON output.
type Correspondent struct {
	ID                 int
	Name               string
	Slug               string
	DocumentCount      int
	LastCorrespondence string

	// Extra holds service fields this tool does not interpret (owner,
	// permissions, matching settings, and whatever future API versions add).
	Extra map[string]json.RawMessage
}

// Document is a snapshot of one document record. The merge engine reads only
// ID and Correspondent; the remaining fields exist for display.
type Document struct {
	ID            int
	Title         string
	Correspondent *int
	Created       string
	Added         string
	Tags          []int

	Extra map[string]json.RawMessage
}

// UnmarshalJSON keeps the typed fields typed and routes every unknown key
// into Extra, so a record survives encode/decode without losing service
// metadata.
func (c *Correspondent) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Correspondent{}
	for key, val := range raw {
		var err error
		switch key {
		case "id":
			err = json.Unmarshal(val, &c.ID)
		case "name":
			err = json.Unmarshal(val, &c.Name)
		case "slug":
			err = json.Unmarshal(val, &c.Slug)
		case "document_count":
			err = json.Unmarshal(val, &c.DocumentCount)
		case "last_correspondence":
			if string(val) != "null" {
				err = json.Unmarshal(val, &c.LastCorrespondence)
			}
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = val
		}
		if err != nil {
			return fmt.Errorf("correspondent field %q: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON: Extra first, typed fields on
// top so they always win.
func (c Correspondent) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["id"] = rawJSON(c.ID)
	out["name"] = rawJSON(c.Name)
	out["slug"] = rawJSON(c.Slug)
	out["document_count"] = rawJSON(c.DocumentCount)
	if c.LastCorrespondence != "" {
		out["last_correspondence"] = rawJSON(c.LastCorrespondence)
	}
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document{}
	for key, val := range raw {
		var err error
		switch key {
		case "id":
			err = json.Unmarshal(val, &d.ID)
		case "title":
			err = json.Unmarshal(val, &d.Title)
		case "correspondent":
			if string(val) != "null" {
				err = json.Unmarshal(val, &d.Correspondent)
			}
		case "created":
			err = json.Unmarshal(val, &d.Created)
		case "added":
			err = json.Unmarshal(val, &d.Added)
		case "tags":
			err = json.Unmarshal(val, &d.Tags)
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage)
			}
			d.Extra[key] = val
		}
		if err != nil {
			return fmt.Errorf("document field %q: %w", key, err)
		}
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+6)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["id"] = rawJSON(d.ID)
	out["title"] = rawJSON(d.Title)
	out["correspondent"] = rawJSON(d.Correspondent)
	if d.Created != "" {
		out["created"] = rawJSON(d.Created)
	}
	if d.Added != "" {
		out["added"] = rawJSON(d.Added)
	}
	if d.Tags != nil {
		out["tags"] = rawJSON(d.Tags)
	}
	return json.Marshal(out)
}

// rawJSON encodes a value that cannot fail to marshal (ints, strings, slices
// of ints).
func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// DocumentIDs extracts the ids from a document list, preserving order.
func DocumentIDs(docs []Document) []int {
	ids := make([]int, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}
