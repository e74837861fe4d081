package books

// ===== Requests =====

// CreateBookRequest carries no "available" field on purpose: new books start
// available and the flag is mutated only by the borrowing engine.
type CreateBookRequest struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Image         *string `json:"image,omitempty"`
	Description   *string `json:"description,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
}

// UpdateBookRequest is partial: only fields present in the payload overwrite
// the stored row. "available" is deliberately not updatable here either.
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	Category      *string `json:"category,omitempty"`
	Image         *string `json:"image,omitempty"`
	Description   *string `json:"description,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
}

// ===== Responses =====

type BookResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Category      string  `json:"category"`
	Image         *string `json:"image"`
	Description   *string `json:"description"`
	ISBN          *string `json:"isbn"`
	PublishedYear *int    `json:"published_year"`
	Available     bool    `json:"available"`
}

// ListQuery filters the catalog listing. The literal category "all" means no
// filter, kept for frontend compatibility.
type ListQuery struct {
	Category string
}
