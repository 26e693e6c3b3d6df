package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Order is a single-column sort instruction.
type Order struct {
	Column string
	Desc   bool
}

// QueryOptions carries ordering and paging for a listing query.
type QueryOptions struct {
	Sort   *Order
	Limit  int
	Offset int
	Paged  bool
}

// BuildQueryOptions derives ordering and paging from f. Results are sorted
// by SortBy when it names a known column, otherwise by created_at
// descending when the table has it. Paging applies only when f.Paginated
// is set. The filter is read after normalization; f itself is not
// modified.
func BuildQueryOptions(t Table, f *Filter) QueryOptions {
	var nf Filter
	if f != nil {
		nf = *f
	}
	nf.Normalize()

	var opts QueryOptions
	if col, ok := t.Column(nf.SortBy); ok && nf.SortBy != "" {
		opts.Sort = &Order{Column: col.Name, Desc: nf.SortOrder != SortAsc}
	} else if t.HasCreatedAt {
		opts.Sort = &Order{Column: ColumnCreatedAt, Desc: true}
	}
	if nf.Paginated {
		opts.Paged = true
		opts.Limit = nf.Limit
		opts.Offset = nf.Offset()
	}
	return opts
}

// scope applies the options to a GORM query.
func (o QueryOptions) scope(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if o.Sort != nil {
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Table: table, Name: o.Sort.Column},
				Desc:   o.Sort.Desc,
			})
		}
		if o.Paged {
			db = db.Offset(o.Offset).Limit(o.Limit)
		}
		return db
	}
}
