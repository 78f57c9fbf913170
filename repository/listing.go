package repository

import (
	"fmt"
	"strconv"
	"strings"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// normalizePage clamps page/limit to sane values. Out-of-range pages are
// allowed through: they simply select an empty slice.
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// condBuilder assembles a conjunctive WHERE clause with positional
// parameters numbered in insertion order. Column names are always
// compile-time constants supplied by the repositories; caller input only
// ever lands in args.
type condBuilder struct {
	conds []string
	args  []interface{}
}

// search adds a case-insensitive substring group over the given columns,
// OR-joined, sharing one positional parameter. No-op for an empty term.
func (b *condBuilder) search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	b.args = append(b.args, "%"+term+"%")
	n := len(b.args)
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
}

// eq adds an equality condition.
func (b *condBuilder) eq(column string, value interface{}) {
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// where renders the assembled clause, or an empty string when no
// condition was added.
func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page appends LIMIT/OFFSET parameters and returns the matching SQL tail.
func (b *condBuilder) page(page, limit int) string {
	b.args = append(b.args, limit)
	limitIdx := len(b.args)
	b.args = append(b.args, (page-1)*limit)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitIdx, len(b.args))
}

// updateBuilder assembles a partial-update SET clause from an allow-listed
// field-to-column mapping. Repositories call set only for fields the
// caller actually supplied; absent fields keep their stored value.
type updateBuilder struct {
	sets []string
	args []interface{}
}

// set adds one column assignment.
func (u *updateBuilder) set(column string, value interface{}) {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

// empty reports whether no field was supplied.
func (u *updateBuilder) empty() bool {
	return len(u.sets) == 0
}

// clause renders "SET a = $1, b = $2" and returns the next parameter
// index for the WHERE side.
func (u *updateBuilder) clause() (string, int) {
	return "SET " + strings.Join(u.sets, ", "), len(u.args) + 1
}
