package repository

import "encoding/json"

// Result is the outcome of a listing query.
type Result[T any] struct {
	Data      []T
	Total     int64
	Page      int
	Limit     int
	Paginated bool
}

type envelope[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// MarshalJSON renders a bare list for unpaginated results and a
// {data,total,page,limit} envelope for paginated ones.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	data := r.Data
	if data == nil {
		data = []T{}
	}
	if !r.Paginated {
		return json.Marshal(data)
	}
	return json.Marshal(envelope[T]{Data: data, Total: r.Total, Page: r.Page, Limit: r.Limit})
}

// TotalPages returns the number of pages for a paginated result.
func (r Result[T]) TotalPages() int {
	if !r.Paginated || r.Limit <= 0 {
		return 0
	}
	return int((r.Total + int64(r.Limit) - 1) / int64(r.Limit))
}

// Message is the acknowledgement returned by delete operations.
type Message struct {
	Message string `json:"message"`
}
