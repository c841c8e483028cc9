package dto

// PageQuery binds limit and offset; range checks happen in the services
type PageQuery struct {
	Limit  int `form:"limit,default=10"`
	Offset int `form:"offset,default=0"`
}

// Page is the envelope of every paginated listing
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// NewPage never renders items as null
func NewPage[T any](items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total}
}
