package dto

import "github.com/spec-kit/helpdesk-api/internal/domain"

// CategoryRequest payload for create and rename.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse is the wire form of a category.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{ID: category.ID, Name: category.Name}
}

// NewCategoryResponses maps a category slice.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}
