// Package query translates validated list requests into store-agnostic
// filter, sort and offset parameters, and computes the pagination
// envelope returned alongside list results. The filter is a small
// intermediate representation that store adapters compile into their
// native expression syntax; it also carries an in-memory predicate so
// its semantics can be tested without a store.
package query

import (
	"strings"

	"github.com/jwalitptl/patient-records/internal/model"
)

// Op is a filter match operator.
type Op string

const (
	// OpContains matches a case-sensitive substring.
	OpContains Op = "contains"
	// OpContainsFold matches a case-insensitive substring.
	OpContainsFold Op = "contains_fold"
)

// Condition matches a single field against a value.
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Filter is a disjunction of conditions: a record matches when any
// condition matches. A nil filter matches every record.
type Filter struct {
	Any []Condition
}

// Search builds the list-query filter for a search term: an OR across
// the name, email and phone fields. Name and email match
// case-insensitively; phone numbers are numeric text, so a plain
// substring match is equivalent.
func Search(term string) *Filter {
	if term == "" {
		return nil
	}
	return &Filter{
		Any: []Condition{
			{Field: "firstName", Op: OpContainsFold, Value: term},
			{Field: "lastName", Op: OpContainsFold, Value: term},
			{Field: "email", Op: OpContainsFold, Value: term},
			{Field: "phoneNumber", Op: OpContains, Value: term},
		},
	}
}

// Match applies the filter to a patient in memory.
func (f *Filter) Match(p *model.Patient) bool {
	if f == nil || len(f.Any) == 0 {
		return true
	}
	for _, c := range f.Any {
		if c.match(p) {
			return true
		}
	}
	return false
}

func (c Condition) match(p *model.Patient) bool {
	var v string
	switch c.Field {
	case "firstName":
		v = p.FirstName
	case "lastName":
		v = p.LastName
	case "email":
		v = p.Email
	case "phoneNumber":
		v = p.PhoneNumber
	default:
		return false
	}

	switch c.Op {
	case OpContainsFold:
		return strings.Contains(strings.ToLower(v), strings.ToLower(c.Value))
	case OpContains:
		return strings.Contains(v, c.Value)
	}
	return false
}

// Sort is a single-key ordering. Store adapters add the record id as a
// deterministic tie-break so pagination stays stable across requests.
type Sort struct {
	Field string
	Desc  bool
}

// SortFrom builds a Sort from validated sortBy/sortOrder values.
func SortFrom(sortBy, sortOrder string) Sort {
	return Sort{Field: sortBy, Desc: sortOrder == "desc"}
}

// Offset computes the store offset for a 1-based page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Paginate computes the pagination envelope from the requested page
// and limit plus the matching total. It never looks at the returned
// slice, so an out-of-range page yields an empty slice with correct
// metadata.
func Paginate(page, limit int, total int64) model.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return model.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
