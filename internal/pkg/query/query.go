// Package query parses list query strings into pagination, search, filter
// and sort parameters.
//
// Filters use a suffix convention on the parameter name:
//
//	hireDate_gte=2020-01-01   hireDate >= 2020-01-01
//	position_in=engineer,manager
//	photo_exists=true
//	department=Civil          exact match
//
// Parameter names are resolved against a Schema declared by each resource, so
// only fields a resource explicitly exposes can be filtered or sorted on.
package query

import (
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
	// MaxPage keeps Skip far from int64 overflow.
	MaxPage = math.MaxInt32
)

// Op is a comparison operator derived from a parameter suffix.
type Op string

const (
	OpEq     Op = "eq"
	OpGte    Op = "gte"
	OpLte    Op = "lte"
	OpGt     Op = "gt"
	OpLt     Op = "lt"
	OpIn     Op = "in"
	OpExists Op = "exists"
)

// longest suffixes first so "_gte" is never read as "_gt".
var suffixes = []struct {
	suffix string
	op     Op
}{
	{"_exists", OpExists},
	{"_gte", OpGte},
	{"_lte", OpLte},
	{"_gt", OpGt},
	{"_lt", OpLt},
	{"_in", OpIn},
}

var reserved = map[string]struct{}{
	"page":   {},
	"size":   {},
	"limit":  {},
	"search": {},
	"sort":   {},
}

// Condition is a single filter on a public field name.
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Values splits an OpIn value on commas, dropping empty items.
func (c Condition) Values() []string {
	parts := strings.Split(c.Value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SortKey orders results by one public field.
type SortKey struct {
	Field string
	Desc  bool
}

// Params is a parsed list request.
type Params struct {
	Page       int
	Size       int
	Search     string
	Sort       []SortKey
	Conditions []Condition
}

// Skip is the number of documents before the requested page.
func (p Params) Skip() int64 {
	page := min(max(p.Page, 1), MaxPage)
	size := min(max(p.Size, 1), MaxSize)
	return int64(page-1) * int64(size)
}

// Parse reads pagination, search, sort and filter parameters from v. Both
// "size" and "limit" are accepted for the page size; "size" wins when both
// are present. Page and size are clamped, never rejected.
func Parse(v url.Values) Params {
	p := Params{
		Page:   atoiOr(v.Get("page"), DefaultPage),
		Size:   DefaultSize,
		Search: strings.TrimSpace(v.Get("search")),
		Sort:   ParseSort(v.Get("sort")),
	}
	if raw := v.Get("size"); raw != "" {
		p.Size = atoiOr(raw, DefaultSize)
	} else if raw := v.Get("limit"); raw != "" {
		p.Size = atoiOr(raw, DefaultSize)
	}
	p.Page = min(max(p.Page, 1), MaxPage)
	p.Size = min(max(p.Size, 1), MaxSize)

	for _, key := range slices.Sorted(maps.Keys(v)) {
		values := v[key]
		if _, skip := reserved[key]; skip || len(values) == 0 {
			continue
		}
		p.Conditions = append(p.Conditions, parseCondition(key, values[0]))
	}
	return p
}

// ParseSort reads "a,-b" into ascending a then descending b.
func ParseSort(raw string) []SortKey {
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		part = strings.TrimLeft(part, "+-")
		if part == "" {
			continue
		}
		keys = append(keys, SortKey{Field: part, Desc: desc})
	}
	return keys
}

func parseCondition(key, value string) Condition {
	for _, s := range suffixes {
		if field, ok := strings.CutSuffix(key, s.suffix); ok && field != "" {
			return Condition{Field: field, Op: s.op, Value: value}
		}
	}
	return Condition{Field: key, Op: OpEq, Value: value}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
