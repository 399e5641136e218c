package store

import (
	"sort"
	"time"

	"github.com/tidwall/gjson"
)

// Matches reports whether a raw JSON document satisfies every predicate of q.
// Both backends share this evaluation so query semantics cannot drift.
func Matches(data []byte, q Query) bool {
	for _, p := range q.Predicates {
		if !matchPredicate(data, p) {
			return false
		}
	}
	return true
}

func matchPredicate(data []byte, p Predicate) bool {
	field := gjson.GetBytes(data, p.Field)
	if !field.Exists() {
		return false
	}

	switch p.Op {
	case OpEqual:
		cmp, ok := compare(field, p.Value)
		return ok && cmp == 0
	case OpLessOrEqual:
		cmp, ok := compare(field, p.Value)
		return ok && cmp <= 0
	case OpGreaterOrEqual:
		cmp, ok := compare(field, p.Value)
		return ok && cmp >= 0
	case OpArrayContainsAny:
		wanted, ok := p.Value.([]string)
		if !ok {
			return false
		}
		for _, el := range field.Array() {
			for _, w := range wanted {
				if el.String() == w {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// compare orders a document field against a predicate value. Times are
// compared as instants (documents store them RFC3339 encoded), numbers
// numerically and everything else lexically. A field that cannot be parsed as
// the predicate's type reports ok=false and matches nothing.
func compare(field gjson.Result, value any) (cmp int, ok bool) {
	switch v := value.(type) {
	case time.Time:
		t, err := time.Parse(time.RFC3339Nano, field.String())
		if err != nil {
			return 0, false
		}
		switch {
		case t.Before(v):
			return -1, true
		case t.After(v):
			return 1, true
		default:
			return 0, true
		}
	case int:
		return compareFloat(field.Float(), float64(v)), true
	case int64:
		return compareFloat(field.Float(), float64(v)), true
	case float64:
		return compareFloat(field.Float(), v), true
	case bool:
		if field.Bool() == v {
			return 0, true
		}
		return 1, true
	case string:
		switch {
		case field.String() < v:
			return -1, true
		case field.String() > v:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortDocs orders docs in place by the query's OrderBy field. Fields that
// parse as RFC3339 timestamps order as instants, otherwise values order as
// raw strings (numbers come through gjson in canonical form).
func SortDocs(docs []Doc, q Query) {
	if q.OrderBy == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if q.Descending {
			i, j = j, i
		}
		return fieldLess(docs[i].Data, docs[j].Data, q.OrderBy)
	})
}

func fieldLess(a, b []byte, field string) bool {
	fa := gjson.GetBytes(a, field)
	fb := gjson.GetBytes(b, field)

	if ta, err := time.Parse(time.RFC3339Nano, fa.String()); err == nil {
		if tb, err := time.Parse(time.RFC3339Nano, fb.String()); err == nil {
			return ta.Before(tb)
		}
	}
	if fa.Type == gjson.Number && fb.Type == gjson.Number {
		return fa.Float() < fb.Float()
	}
	return fa.String() < fb.String()
}
