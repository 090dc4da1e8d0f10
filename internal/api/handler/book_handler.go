package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/metrics"
	"github.com/bookhive/library-api/internal/api/response"
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/ports"
)

// BookHandler handles HTTP requests for books.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List returns one page of books, optionally for a single author.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        page       query     int  false  "Page number"     default(1)
// @Param        limit      query     int  false  "Items per page"  default(10)
// @Param        author_id  query     int  false  "Only books by this author"
// @Success      200        {object}  response.Envelope{data=response.Page[domain.Book]}
// @Failure      400        {object}  errorEnvelope
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	res := validation.FromContext(c)

	page, err := h.service.List(c.Request().Context(), ports.ListBooksInput{
		PageInput: pageInput(res),
		AuthorID:  res.IntOr("author_id", 0),
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, response.FromPage(page), "Data fetched successfully")
}

// Search finds books by author name and/or title.
//
// @Summary      Search books
// @Tags         books
// @Produce      json
// @Param        author  query     string  false  "Author name contains"
// @Param        title   query     string  false  "Title contains"
// @Success      200     {object}  response.Envelope{data=[]domain.BookSearchHit}
// @Failure      400     {object}  errorEnvelope
// @Failure      404     {object}  errorEnvelope
// @Router       /search/books [get]
func (h *BookHandler) Search(c echo.Context) error {
	res := validation.FromContext(c)

	hits, err := h.service.Search(c.Request().Context(), res.String("author"), res.String("title"))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, hits, "Books found")
}

// Get returns a single book.
//
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  bookEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.Get(c.Request().Context(), pathID(validation.FromContext(c)))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, book, "Data fetched successfully")
}

// Details returns a book together with its author.
//
// @Summary      Get book with author
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  response.Envelope{data=ports.BookDetail}
// @Failure      404  {object}  errorEnvelope
// @Router       /books/{id}/details [get]
func (h *BookHandler) Details(c echo.Context) error {
	detail, err := h.service.GetWithAuthor(c.Request().Context(), pathID(validation.FromContext(c)))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, detail, "Data fetched successfully")
}

// Create adds a book for an existing author.
//
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  bookEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope  "Referenced author does not exist"
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	res := validation.FromContext(c)

	book, err := h.service.Create(c.Request().Context(), ports.CreateBookInput{
		Title:         res.String("title"),
		Description:   res.String("description"),
		PublishedDate: res.Date("published_date"),
		AuthorID:      res.IntOr("author_id", 0),
	})
	if err != nil {
		return err
	}

	metrics.CatalogWritesTotal.WithLabelValues("book", "create").Inc()
	return response.JSON(c, http.StatusCreated, book, "Book created successfully")
}

// Update changes the fields present in the body and leaves the rest as stored.
//
// @Summary      Update book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Book ID"
// @Param        body  body      bookRequest  true  "Fields to change"
// @Success      200   {object}  bookEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	res := validation.FromContext(c)

	book, err := h.service.Update(c.Request().Context(), pathID(res), ports.UpdateBookInput{
		Title:         res.StringPtr("title"),
		Description:   res.StringPtr("description"),
		PublishedDate: res.DatePtr("published_date"),
		AuthorID:      res.IntPtr("author_id"),
	})
	if err != nil {
		return err
	}

	metrics.CatalogWritesTotal.WithLabelValues("book", "update").Inc()
	return response.JSON(c, http.StatusOK, book, "Book updated successfully")
}

// Delete removes a book.
//
// @Summary      Delete book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id := pathID(validation.FromContext(c))
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogWritesTotal.WithLabelValues("book", "delete").Inc()
	return response.JSON(c, http.StatusOK, map[string]int64{"id": id}, "Book deleted successfully")
}
