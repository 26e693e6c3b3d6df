package repository

import (
	"encoding/json"
	"sort"
	"strings"
)

// Relation is one node of a relation-inclusion tree.
//
// The boolean form ({"client": true}) sets only Include. The object form
// ({"client": {"name": true, "with": {...}}}) includes the relation, keeps
// its boolean entries as a column selection and nests further relations.
type Relation struct {
	Include bool
	Columns Columns
	With    Relations
	object  bool
}

// Relations maps relation names to inclusion nodes.
type Relations map[string]Relation

// Columns maps column names to a select (true) or omit (false) flag.
type Columns map[string]bool

// Projection is the validated result of raw with/columns parameters.
type Projection struct {
	With    Relations
	Columns Columns
}

// ParseProjection validates raw JSON-encoded with and columns parameters.
// It never fails: malformed input degrades to "not requested".
func ParseProjection(rawWith, rawColumns string) Projection {
	return Projection{
		With:    ParseRelations(rawWith),
		Columns: ParseColumns(rawColumns),
	}
}

// ParseRelations decodes a relation-inclusion tree. It returns nil for
// empty, malformed or non-object input, and for an object with no valid
// entries.
func ParseRelations(raw string) Relations {
	obj, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	return relationsFrom(obj)
}

// ParseColumns decodes a column projection, keeping boolean entries only.
func ParseColumns(raw string) Columns {
	obj, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	return columnsFrom(obj)
}

func decodeObject(raw string) (map[string]any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func relationsFrom(obj map[string]any) Relations {
	out := Relations{}
	for key, v := range obj {
		switch val := v.(type) {
		case bool:
			out[key] = Relation{Include: val}
		case map[string]any:
			out[key] = relationFrom(val)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func relationFrom(obj map[string]any) Relation {
	rel := Relation{Include: true, object: true}
	for key, v := range obj {
		if key == "with" {
			if nested, ok := v.(map[string]any); ok {
				rel.With = relationsFrom(nested)
			}
			continue
		}
		if b, ok := v.(bool); ok {
			if rel.Columns == nil {
				rel.Columns = Columns{}
			}
			rel.Columns[key] = b
		}
	}
	return rel
}

func columnsFrom(obj map[string]any) Columns {
	out := Columns{}
	for key, v := range obj {
		if b, ok := v.(bool); ok {
			out[key] = b
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MarshalJSON renders the node back in the shape it was parsed from.
func (r Relation) MarshalJSON() ([]byte, error) {
	if !r.object && len(r.Columns) == 0 && len(r.With) == 0 {
		return json.Marshal(r.Include)
	}
	obj := make(map[string]any, len(r.Columns)+1)
	for k, v := range r.Columns {
		obj[k] = v
	}
	if len(r.With) > 0 {
		obj["with"] = r.With
	}
	return json.Marshal(obj)
}

// Selected returns the column names flagged true, sorted.
func (c Columns) Selected() []string {
	return c.names(true)
}

// Omitted returns the column names flagged false, sorted.
func (c Columns) Omitted() []string {
	return c.names(false)
}

func (c Columns) names(flag bool) []string {
	var out []string
	for k, v := range c {
		if v == flag {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// sortedNames returns the relation names in a stable order.
func (r Relations) sortedNames() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
