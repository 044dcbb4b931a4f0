package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/patient-records/internal/model"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 250, Offset(6, 50))
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"single record", 1, 10, 1, 1, false, false},
		{"exact page boundary", 1, 10, 10, 1, false, false},
		{"one over boundary", 1, 10, 11, 2, true, false},
		{"middle page", 2, 10, 35, 4, true, true},
		{"last page", 4, 10, 35, 4, false, true},
		{"empty result", 1, 10, 0, 0, false, false},
		{"out of range page", 9, 10, 35, 4, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
		})
	}
}

func TestPaginateProperties(t *testing.T) {
	for limit := 1; limit <= 25; limit += 3 {
		for total := int64(0); total <= 120; total += 7 {
			for page := 1; page <= 15; page++ {
				p := Paginate(page, limit, total)

				want := int(math.Ceil(float64(total) / float64(limit)))
				assert.Equal(t, want, p.TotalPages, "totalPages for page=%d limit=%d total=%d", page, limit, total)
				assert.Equal(t, page < p.TotalPages, p.HasNext)
				assert.Equal(t, page > 1, p.HasPrev)
			}
		}
	}
}

func TestSearchFilterMatch(t *testing.T) {
	john := &model.Patient{FirstName: "John", LastName: "Doe", Email: "john@example.com", PhoneNumber: "555-0101"}
	jane := &model.Patient{FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", PhoneNumber: "555-0102"}

	f := Search("jo")
	assert.True(t, f.Match(john), "jo should match John case-insensitively")
	assert.False(t, f.Match(jane), "jo should not match Jane")
}

func TestSearchFilterFields(t *testing.T) {
	p := &model.Patient{FirstName: "Alice", LastName: "Brown", Email: "alice@clinic.org", PhoneNumber: "+1-555-0199"}

	assert.True(t, Search("BROWN").Match(p), "last name, case-insensitive")
	assert.True(t, Search("clinic.org").Match(p), "email substring")
	assert.True(t, Search("555-0199").Match(p), "phone substring")
	assert.False(t, Search("bob").Match(p))
}

func TestNilFilterMatchesAll(t *testing.T) {
	assert.Nil(t, Search(""))

	var f *Filter
	assert.True(t, f.Match(&model.Patient{FirstName: "anyone"}))
}

func TestSortFrom(t *testing.T) {
	assert.Equal(t, Sort{Field: "createdAt", Desc: false}, SortFrom("createdAt", "asc"))
	assert.Equal(t, Sort{Field: "dob", Desc: true}, SortFrom("dob", "desc"))
}
