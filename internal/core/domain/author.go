package domain

// Author owns zero or more books.
type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Birthdate Date   `json:"birthdate"`
}

// AuthorWithBooks is an author together with every book referencing it.
type AuthorWithBooks struct {
	Author
	Books []Book `json:"books"`
}
