package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-records/internal/query"
)

func TestCompileFilter(t *testing.T) {
	t.Run("nil filter compiles to nothing", func(t *testing.T) {
		where, args := compileFilter(nil)
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("search term compiles to a disjunction", func(t *testing.T) {
		where, args := compileFilter(query.Search("jo"))
		assert.Equal(t,
			"(first_name ILIKE $1 OR last_name ILIKE $2 OR email ILIKE $3 OR phone_number LIKE $4)",
			where)
		require.Len(t, args, 4)
		for _, a := range args {
			assert.Equal(t, "%jo%", a)
		}
	})

	t.Run("like metacharacters match literally", func(t *testing.T) {
		_, args := compileFilter(query.Search("100%_a\\b"))
		require.NotEmpty(t, args)
		// A term containing %, _ or \ must not widen the match.
		assert.Equal(t, `%100\%\_a\\b%`, args[0])
	})

	t.Run("unknown fields are skipped", func(t *testing.T) {
		where, args := compileFilter(&query.Filter{
			Any: []query.Condition{{Field: "ssn", Op: query.OpContains, Value: "x"}},
		})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})
}

func TestCompileSort(t *testing.T) {
	assert.Equal(t, "created_at ASC, id ASC", compileSort(query.SortFrom("createdAt", "asc")))
	assert.Equal(t, "email DESC, id ASC", compileSort(query.SortFrom("email", "desc")))
	// An unmapped field falls back to the default ordering rather than
	// interpolating unvetted input.
	assert.Equal(t, "created_at ASC, id ASC", compileSort(query.Sort{Field: "drop table"}))
}
