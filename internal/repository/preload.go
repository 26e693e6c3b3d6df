package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// preload registers GORM preloads for every included relation of with,
// resolved against s. Unknown relation names are skipped. Preloaded rows
// obey the same tenant and soft-delete rules as the parent query.
func preload(db *gorm.DB, s *schema.Schema, prefix string, with Relations, tenantID string, includeDeleted bool) *gorm.DB {
	for _, name := range with.sortedNames() {
		node := with[name]
		if !node.Include {
			continue
		}
		rel := lookupRelation(s, name)
		if rel == nil {
			continue
		}
		path := rel.Name
		if prefix != "" {
			path = prefix + "." + rel.Name
		}
		db = db.Preload(path, relationScope(rel, node.Columns, node.With, tenantID, includeDeleted))
		if len(node.With) > 0 {
			db = preload(db, rel.FieldSchema, path, node.With, tenantID, includeDeleted)
		}
	}
	return db
}

func lookupRelation(s *schema.Schema, name string) *schema.Relationship {
	want := normalizeKey(name)
	for fieldName, rel := range s.Relationships.Relations {
		if normalizeKey(fieldName) == want {
			return rel
		}
		if rel.Field != nil {
			if tag := jsonName(rel.Field); tag != "" && normalizeKey(tag) == want {
				return rel
			}
		}
	}
	return nil
}

func relationScope(rel *schema.Relationship, columns Columns, nested Relations, tenantID string, includeDeleted bool) func(*gorm.DB) *gorm.DB {
	target := rel.FieldSchema
	return func(db *gorm.DB) *gorm.DB {
		col := func(name string) clause.Column {
			return clause.Column{Table: target.Table, Name: name}
		}
		var exprs []clause.Expression
		if tenantID != "" && target.LookUpField(ColumnOrganizationID) != nil {
			exprs = append(exprs, clause.Eq{Column: col(ColumnOrganizationID), Value: tenantID})
		}
		if !includeDeleted && target.LookUpField(ColumnDeletedAt) != nil {
			exprs = append(exprs, clause.Eq{Column: col(ColumnDeletedAt), Value: nil})
		}
		if len(exprs) > 0 {
			db = db.Clauses(clause.Where{Exprs: exprs})
		}

		// Keys are required to attach preloaded rows to their parents and
		// to their own nested relations.
		keys := append(referenceKeys(rel, target), attachKeys(target, nested)...)
		if selected := resolveFields(target, columns.Selected()); len(selected) > 0 {
			db = db.Select(unique(append(keys, selected...)))
		} else if omitted := without(resolveFields(target, columns.Omitted()), keys); len(omitted) > 0 {
			db = db.Omit(omitted...)
		}
		return db
	}
}

// attachKeys returns the columns of s that must be read for the included
// relations of with to be attached: the primary key and the owner side of
// every relation reference. It returns nil when with includes nothing.
func attachKeys(s *schema.Schema, with Relations) []string {
	var keys []string
	for _, name := range with.sortedNames() {
		if !with[name].Include {
			continue
		}
		rel := lookupRelation(s, name)
		if rel == nil {
			continue
		}
		keys = append(keys, referenceKeys(rel, s)...)
	}
	if len(keys) == 0 {
		return nil
	}
	return unique(append(append([]string{}, s.PrimaryFieldDBNames...), keys...))
}

// referenceKeys returns the key columns of rel that live on side, which is
// either the owning or the related schema.
func referenceKeys(rel *schema.Relationship, side *schema.Schema) []string {
	keys := append([]string{}, side.PrimaryFieldDBNames...)
	for _, ref := range rel.References {
		if ref.ForeignKey != nil && ref.ForeignKey.Schema == side {
			keys = append(keys, ref.ForeignKey.DBName)
		}
		if ref.PrimaryKey != nil && ref.PrimaryKey.Schema == side {
			keys = append(keys, ref.PrimaryKey.DBName)
		}
	}
	return keys
}

// without returns names minus any entry of drop.
func without(names, drop []string) []string {
	if len(drop) == 0 {
		return names
	}
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := skip[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// resolveFields maps wire or column names to database column names of s,
// dropping names that match no column.
func resolveFields(s *schema.Schema, names []string) []string {
	var out []string
	for _, name := range names {
		want := normalizeKey(name)
		if want == "" {
			continue
		}
		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}
			if normalizeKey(f.DBName) == want || normalizeKey(jsonName(f)) == want {
				out = append(out, f.DBName)
				break
			}
		}
	}
	return out
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
