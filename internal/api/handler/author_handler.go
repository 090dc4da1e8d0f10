package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/metrics"
	"github.com/bookhive/library-api/internal/api/response"
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/ports"
)

// AuthorHandler handles HTTP requests for authors.
type AuthorHandler struct {
	service ports.AuthorService
}

func NewAuthorHandler(service ports.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: service}
}

// List returns one page of authors.
//
// @Summary      List authors
// @Tags         authors
// @Produce      json
// @Param        page   query     int  false  "Page number"     default(1)
// @Param        limit  query     int  false  "Items per page"  default(10)
// @Success      200    {object}  response.Envelope{data=response.Page[domain.Author]}
// @Failure      400    {object}  errorEnvelope
// @Router       /authors [get]
func (h *AuthorHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), pageInput(validation.FromContext(c)))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, response.FromPage(page), "Data fetched successfully")
}

// ListWithBooks returns every author with its books.
//
// @Summary      List authors with their books
// @Tags         authors
// @Produce      json
// @Success      200  {object}  response.Envelope{data=[]domain.AuthorWithBooks}
// @Router       /authors/with-books [get]
func (h *AuthorHandler) ListWithBooks(c echo.Context) error {
	authors, err := h.service.ListWithBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, authors, "Data fetched successfully")
}

// Get returns a single author.
//
// @Summary      Get author
// @Tags         authors
// @Produce      json
// @Param        id   path      int  true  "Author ID"
// @Success      200  {object}  authorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /authors/{id} [get]
func (h *AuthorHandler) Get(c echo.Context) error {
	author, err := h.service.Get(c.Request().Context(), pathID(validation.FromContext(c)))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, author, "Data fetched successfully")
}

// Details returns an author together with its books.
//
// @Summary      Get author with books
// @Tags         authors
// @Produce      json
// @Param        id   path      int  true  "Author ID"
// @Success      200  {object}  response.Envelope{data=ports.AuthorDetail}
// @Failure      404  {object}  errorEnvelope
// @Router       /authors/{id}/details [get]
func (h *AuthorHandler) Details(c echo.Context) error {
	detail, err := h.service.GetWithBooks(c.Request().Context(), pathID(validation.FromContext(c)))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, detail, "Data fetched successfully")
}

// Create adds an author.
//
// @Summary      Create author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      authorRequest  true  "Author"
// @Success      201   {object}  authorEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /authors [post]
func (h *AuthorHandler) Create(c echo.Context) error {
	res := validation.FromContext(c)

	author, err := h.service.Create(c.Request().Context(), ports.CreateAuthorInput{
		Name:      res.String("name"),
		Bio:       res.String("bio"),
		Birthdate: res.Date("birthdate"),
	})
	if err != nil {
		return err
	}

	metrics.CatalogWritesTotal.WithLabelValues("author", "create").Inc()
	return response.JSON(c, http.StatusCreated, author, "Author created successfully")
}

// Update changes the fields present in the body and leaves the rest as stored.
//
// @Summary      Update author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Author ID"
// @Param        body  body      authorRequest  true  "Fields to change"
// @Success      200   {object}  authorEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /authors/{id} [put]
func (h *AuthorHandler) Update(c echo.Context) error {
	res := validation.FromContext(c)

	author, err := h.service.Update(c.Request().Context(), pathID(res), ports.UpdateAuthorInput{
		Name:      res.StringPtr("name"),
		Bio:       res.StringPtr("bio"),
		Birthdate: res.DatePtr("birthdate"),
	})
	if err != nil {
		return err
	}

	metrics.CatalogWritesTotal.WithLabelValues("author", "update").Inc()
	return response.JSON(c, http.StatusOK, author, "Author updated successfully")
}

// Delete removes an author without books.
//
// @Summary      Delete author
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Author ID"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Failure      409  {object}  errorEnvelope
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) Delete(c echo.Context) error {
	id := pathID(validation.FromContext(c))
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogWritesTotal.WithLabelValues("author", "delete").Inc()
	return response.JSON(c, http.StatusOK, map[string]int64{"id": id}, "Author deleted successfully")
}
