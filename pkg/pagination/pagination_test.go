package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Validate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 0}
	p.Validate()
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 30, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 25)

	assert.Equal(t, 3, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	last := NewPagination(3, 10, 25)
	assert.False(t, last.HasNext)
}

func TestNewPaginatedResult_NeverNilItems(t *testing.T) {
	res := NewPaginatedResult[int](nil, NewPagination(1, 15, 0))
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}
