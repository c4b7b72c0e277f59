package models

// PagedResult is one page of a collection plus the total element count
// across all pages, matching the backend's page response shape.
type PagedResult[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}
