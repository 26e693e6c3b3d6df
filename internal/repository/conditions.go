package repository

import (
	"sort"
	"strings"

	"gorm.io/gorm/clause"
)

// condition is one AND-ed clause of the predicate. softDelete marks the
// live-rows exclusion so a later filter step can drop it.
type condition struct {
	expr       clause.Expression
	softDelete bool
}

// BuildConditions translates a tenant, the soft-delete flag and a filter
// into a single predicate over table t. It returns nil when no clause
// applies. Clauses are produced in a fixed order:
//
//  1. tenant equality
//  2. live rows only, unless includeDeleted
//  3. search: OR of substring matches over string columns
//  4. created_at >= DateFrom
//  5. created_at <= DateTo
//  6. status equality
//  7. equality on every entity field naming a known column
//
// When f.IncludeDeleted is set the clause from step 2 is removed again.
func BuildConditions(t Table, tenantID string, includeDeleted bool, f *Filter) clause.Expression {
	var conds []condition
	add := func(expr clause.Expression) {
		conds = append(conds, condition{expr: expr})
	}

	if tenantID != "" {
		add(clause.Eq{Column: t.column(ColumnOrganizationID), Value: tenantID})
	}
	if t.SoftDelete && !includeDeleted {
		conds = append(conds, condition{
			expr:       clause.Eq{Column: t.column(ColumnDeletedAt), Value: nil},
			softDelete: true,
		})
	}

	if f != nil {
		if term := strings.TrimSpace(f.Search); term != "" {
			if expr := searchExpr(t, term); expr != nil {
				add(expr)
			}
		}
		if t.HasCreatedAt {
			if f.DateFrom != nil {
				add(clause.Gte{Column: t.column(ColumnCreatedAt), Value: *f.DateFrom})
			}
			if f.DateTo != nil {
				add(clause.Lte{Column: t.column(ColumnCreatedAt), Value: *f.DateTo})
			}
		}
		if f.Status != "" && t.HasStatus {
			add(clause.Eq{Column: t.column(ColumnStatus), Value: f.Status})
		}

		keys := make([]string, 0, len(f.Fields))
		for k := range f.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if IsReserved(k) {
				continue
			}
			col, ok := t.Column(k)
			if !ok {
				continue
			}
			add(clause.Eq{Column: t.column(col.Name), Value: f.Fields[k]})
		}

		if f.IncludeDeleted {
			kept := conds[:0]
			for _, c := range conds {
				if !c.softDelete {
					kept = append(kept, c)
				}
			}
			conds = kept
		}
	}

	switch len(conds) {
	case 0:
		return nil
	case 1:
		return conds[0].expr
	}
	exprs := make([]clause.Expression, len(conds))
	for i, c := range conds {
		exprs[i] = c.expr
	}
	return clause.AndConditions{Exprs: exprs}
}

func searchExpr(t Table, term string) clause.Expression {
	cols := t.StringColumns()
	if len(cols) == 0 {
		return nil
	}
	exprs := make([]clause.Expression, 0, len(cols))
	for _, c := range cols {
		exprs = append(exprs, Contains{Column: t.column(c.Name), Value: term})
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return clause.OrConditions{Exprs: exprs}
}

// Contains matches rows whose column holds Value as a literal substring.
// LIKE wildcards in Value are escaped, so "50%" only matches "50%".
type Contains struct {
	Column clause.Column
	Value  string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Build implements clause.Expression.
func (c Contains) Build(builder clause.Builder) {
	builder.WriteQuoted(c.Column)
	builder.WriteString(" LIKE ")
	builder.AddVar(builder, "%"+likeEscaper.Replace(c.Value)+"%")
	builder.WriteString(` ESCAPE '\'`)
}

// column qualifies a column name with the table name.
func (t Table) column(name string) clause.Column {
	return clause.Column{Table: t.Name, Name: name}
}

// and combines predicates, skipping nil ones.
func and(exprs ...clause.Expression) clause.Expression {
	var out []clause.Expression
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return clause.AndConditions{Exprs: out}
}
