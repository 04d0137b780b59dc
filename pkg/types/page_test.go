package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Page
	}{
		{name: "defaults", page: 0, limit: 0, want: Page{Page: 1, Limit: 20}},
		{name: "clamped limit", page: 2, limit: 500, want: Page{Page: 2, Limit: 50}},
		{name: "negative page", page: -3, limit: 10, want: Page{Page: 1, Limit: 10}},
		{name: "huge page", page: 1 << 62, limit: 50, want: Page{Page: MaxPage, Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.page, tt.limit, 20, 50))
		})
	}
}

func TestPage_TotalPagesAndOffset(t *testing.T) {
	p := NewPage(3, 10, 10, 100)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 3, p.TotalPages(25))
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, NewPage(1, 10, 10, 100).TotalPages(10))
}
