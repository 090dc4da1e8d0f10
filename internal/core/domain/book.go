package domain

// Book belongs to exactly one author through AuthorID.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PublishedDate Date   `json:"published_date"`
	AuthorID      int64  `json:"author_id"`
}

// BookSearchHit is a book row joined with its author's name.
type BookSearchHit struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PublishedDate Date   `json:"published_date"`
	AuthorName    string `json:"author_name"`
}

// Page is one offset/limit window of a listing together with the total row count.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}
