package shared

import (
	"github.com/erp/distribution/internal/domain/shared"
)

// PageQuery is the common list query string. limit/offset are accepted as
// aliases of page_size and page.
type PageQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
}

// Filter converts the query into a domain filter with defaults applied
func (q PageQuery) Filter() shared.Filter {
	pageSize := q.PageSize
	if q.Limit > 0 {
		pageSize = q.Limit
	}
	f := shared.NewFilter(q.Page, pageSize, q.OrderBy, q.OrderDir, q.Search)
	if q.Offset > 0 {
		f.Skip = q.Offset
		f.Page = q.Offset/f.PageSize + 1
	}
	return f
}

// MapSlice converts each element with fn
func MapSlice[S, T any](in []S, fn func(*S) T) []T {
	out := make([]T, len(in))
	for i := range in {
		out[i] = fn(&in[i])
	}
	return out
}
