package shared_test

import (
	"homefix/shared"
	"homefix/shared/dto"
	"homefix/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sortable struct {
	Code   string `db:"code"`
	Amount int64  `db:"amount"`
	model.Metadata
}

func TestSortByField(t *testing.T) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	items := []sortable{
		{Code: "B", Amount: 300, Metadata: model.Metadata{CreatedAt: base.Add(time.Hour)}},
		{Code: "A", Amount: 100, Metadata: model.Metadata{CreatedAt: base.Add(3 * time.Hour)}},
		{Code: "C", Amount: 200, Metadata: model.Metadata{CreatedAt: base.Add(2 * time.Hour)}},
	}

	shared.SortByField(items, "", "")
	assert.Equal(t, []string{"A", "C", "B"}, codes(items), "newest first by default")

	shared.SortByField(items, "amount", "ASC")
	assert.Equal(t, []string{"A", "C", "B"}, codes(items))

	shared.SortByField(items, "code", "DESC")
	assert.Equal(t, []string{"C", "B", "A"}, codes(items))

	shared.SortByField(items, "unknown", "ASC")
	assert.Equal(t, []string{"B", "C", "A"}, codes(items), "unknown field sorts by created_at")
}

func TestQueryParams_Bounds(t *testing.T) {
	tests := []struct {
		name       string
		params     dto.QueryParams
		total      int
		start, end int
	}{
		{name: "no paging", params: dto.QueryParams{}, total: 7, start: 0, end: 7},
		{name: "first page", params: dto.QueryParams{Page: 1, Limit: 3}, total: 7, start: 0, end: 3},
		{name: "last partial page", params: dto.QueryParams{Page: 3, Limit: 3}, total: 7, start: 6, end: 7},
		{name: "past the end", params: dto.QueryParams{Page: 5, Limit: 3}, total: 7, start: 7, end: 7},
		{name: "limit without page", params: dto.QueryParams{Limit: 2}, total: 7, start: 0, end: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.params.Bounds(tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func codes(items []sortable) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Code
	}

	return out
}
