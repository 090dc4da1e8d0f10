package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
	"github.com/bookhive/library-api/internal/core/service"
)

// --- stubs ---

type stubAuth struct{ accounts map[string]*domain.User }

func (s *stubAuth) Register(context.Context, ports.RegisterInput) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (s *stubAuth) Login(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuth) Logout(context.Context, string, string) {}

func (s *stubAuth) ResolveIdentity(_ context.Context, username string) (*domain.User, error) {
	if u, ok := s.accounts[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubAuthors struct {
	listIn    ports.PageInput
	updateIn  *ports.UpdateAuthorInput
	deleteErr error
}

func (s *stubAuthors) List(_ context.Context, in ports.PageInput) (*domain.Page[domain.Author], error) {
	s.listIn = in
	return &domain.Page[domain.Author]{Items: []domain.Author{{ID: 11, Name: "Ursula"}}, Total: 11, Page: in.Page, Limit: in.Limit}, nil
}

func (s *stubAuthors) ListWithBooks(context.Context) ([]domain.AuthorWithBooks, error) {
	return nil, nil
}

func (s *stubAuthors) Get(_ context.Context, id int64) (*domain.Author, error) {
	return nil, domain.ErrAuthorNotFound
}

func (s *stubAuthors) GetWithBooks(context.Context, int64) (*ports.AuthorDetail, error) {
	return nil, domain.ErrAuthorNotFound
}

func (s *stubAuthors) Create(_ context.Context, in ports.CreateAuthorInput) (*domain.Author, error) {
	return &domain.Author{ID: 1, Name: in.Name, Bio: in.Bio, Birthdate: in.Birthdate}, nil
}

func (s *stubAuthors) Update(_ context.Context, id int64, in ports.UpdateAuthorInput) (*domain.Author, error) {
	s.updateIn = &in
	return &domain.Author{ID: id, Name: "unchanged"}, nil
}

func (s *stubAuthors) Delete(context.Context, int64) error { return s.deleteErr }

type stubBooks struct {
	created   *ports.CreateBookInput
	createErr error
}

func (s *stubBooks) List(_ context.Context, in ports.ListBooksInput) (*domain.Page[domain.Book], error) {
	return &domain.Page[domain.Book]{Page: in.Page, Limit: in.Limit}, nil
}

func (s *stubBooks) Search(_ context.Context, author, title string) ([]domain.BookSearchHit, error) {
	if author == "" && title == "" {
		return nil, domain.ErrSearchCriteria
	}
	return nil, domain.ErrNoSearchResults
}

func (s *stubBooks) Get(context.Context, int64) (*domain.Book, error) { return nil, domain.ErrBookNotFound }

func (s *stubBooks) GetWithAuthor(context.Context, int64) (*ports.BookDetail, error) {
	return nil, domain.ErrBookNotFound
}

func (s *stubBooks) Create(_ context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	s.created = &in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Book{ID: 7, Title: in.Title, AuthorID: in.AuthorID, PublishedDate: in.PublishedDate}, nil
}

func (s *stubBooks) Update(context.Context, int64, ports.UpdateBookInput) (*domain.Book, error) {
	return nil, domain.ErrBookNotFound
}

func (s *stubBooks) Delete(context.Context, int64) error { return domain.ErrBookNotFound }

// --- harness ---

type testAPI struct {
	e       *echo.Echo
	tokens  *service.TokenService
	authors *stubAuthors
	books   *stubBooks
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	tokens, err := service.NewTokenService("router-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	a := &testAPI{e: echo.New(), tokens: tokens, authors: &stubAuthors{}, books: &stubBooks{}}
	a.e.HTTPErrorHandler = NewHTTPErrorHandler()
	NewRouter(a.e, Dependencies{
		Auth:    &stubAuth{accounts: map[string]*domain.User{"ana": {ID: 1, Username: "ana"}}},
		Tokens:  tokens,
		Authors: a.authors,
		Books:   a.books,
	})
	return a
}

func (a *testAPI) bearer(t *testing.T, username string) string {
	t.Helper()
	tok, err := a.tokens.Issue(username)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + tok.Value
}

func (a *testAPI) do(method, target, body, authz string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

const validBook = `{"title":"Dune","published_date":"1965-08-01","author_id":3}`

// --- tests ---

func TestRouter_ProtectedRouteWithoutToken(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(http.MethodPost, "/api/v1/books", validBook, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env["message"] != "Unauthorized request" || env["success"] != false {
		t.Fatalf("unexpected envelope %v", env)
	}
	if a.books.created != nil {
		t.Fatal("handler must not run without a token")
	}
}

func TestRouter_AuthRunsBeforeValidation(t *testing.T) {
	a := newTestAPI(t)

	requests := []struct{ method, target, body string }{
		{http.MethodPost, "/api/v1/authors", `{}`},
		{http.MethodDelete, "/api/v1/authors/abc", ""},
		{http.MethodPut, "/api/v1/books/1", `{"title":""}`},
		{http.MethodPost, "/api/v1/books", `{"title":"","author_id":"x"}`},
	}
	for _, r := range requests {
		rec, env := a.do(r.method, r.target, r.body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", r.method, r.target, rec.Code)
		}
		if _, leaked := env["errors"]; leaked {
			t.Fatalf("%s %s: validation output returned to an anonymous caller: %v", r.method, r.target, env)
		}
	}
	if a.books.created != nil {
		t.Fatal("handler must not run without a token")
	}
}

func TestRouter_AuthenticatedInvalidBody(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(http.MethodPost, "/api/v1/books", `{"title":"","author_id":"x"}`, a.bearer(t, "ana"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errs, ok := env["errors"].([]any)
	if !ok || len(errs) != 3 {
		t.Fatalf("expected every violation to be reported, got %v", env["errors"])
	}
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.(map[string]any)["field"].(string))
	}
	if strings.Join(fields, ",") != "title,published_date,author_id" {
		t.Fatalf("violations must follow rule order, got %v", fields)
	}
	if a.books.created != nil {
		t.Fatal("handler must not run on invalid input")
	}
}

func TestRouter_CreateBook(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(http.MethodPost, "/api/v1/books", validBook, a.bearer(t, "ana"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if a.books.created == nil || a.books.created.AuthorID != 3 || a.books.created.PublishedDate.String() != "1965-08-01" {
		t.Fatalf("unexpected service input %+v", a.books.created)
	}
	if env["success"] != true || env["statusCode"].(float64) != 201 {
		t.Fatalf("unexpected envelope %v", env)
	}
}

func TestRouter_CreateBookUnknownAuthor(t *testing.T) {
	a := newTestAPI(t)
	a.books.createErr = domain.ErrInvalidAuthorID

	rec, env := a.do(http.MethodPost, "/api/v1/books", validBook, a.bearer(t, "ana"))
	if rec.Code != http.StatusNotFound || env["message"] != "Invalid author id" {
		t.Fatalf("expected 404 invalid author id, got %d %v", rec.Code, env)
	}
}

func TestRouter_TamperedAndUnknownTokens(t *testing.T) {
	a := newTestAPI(t)

	token := a.bearer(t, "ana")
	last := token[len(token)-1]
	swap := byte('A')
	if last == 'A' {
		swap = 'B'
	}
	tampered := token[:len(token)-1] + string(swap)

	for name, authz := range map[string]string{
		"tampered": tampered,
		"unknown":  a.bearer(t, "ghost"),
	} {
		rec, env := a.do(http.MethodDelete, "/api/v1/authors/1", "", authz)
		if rec.Code != http.StatusUnauthorized || env["message"] != "Unauthorized request" {
			t.Fatalf("%s: expected uniform 401, got %d %v", name, rec.Code, env)
		}
	}
}

func TestRouter_ListAuthorsPagination(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(http.MethodGet, "/api/v1/authors?page=2&limit=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if a.authors.listIn.Page != 2 || a.authors.listIn.Limit != 10 {
		t.Fatalf("unexpected page input %+v", a.authors.listIn)
	}
	data := env["data"].(map[string]any)
	if data["total"].(float64) != 11 || data["page"].(float64) != 2 || len(data["items"].([]any)) != 1 {
		t.Fatalf("unexpected page payload %v", data)
	}
}

func TestRouter_ListDefaults(t *testing.T) {
	a := newTestAPI(t)

	if rec, _ := a.do(http.MethodGet, "/api/v1/authors", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if a.authors.listIn.Page != 1 || a.authors.listIn.Limit != 10 {
		t.Fatalf("expected defaults 1/10, got %+v", a.authors.listIn)
	}

	if rec, _ := a.do(http.MethodGet, "/api/v1/authors?limit=500", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an oversized limit, got %d", rec.Code)
	}
}

func TestRouter_PartialAuthorUpdate(t *testing.T) {
	a := newTestAPI(t)

	rec, _ := a.do(http.MethodPut, "/api/v1/authors/4", `{"bio":"new bio"}`, a.bearer(t, "ana"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	in := a.authors.updateIn
	if in == nil || in.Name != nil || in.Birthdate != nil || in.Bio == nil || *in.Bio != "new bio" {
		t.Fatalf("only bio should be set, got %+v", in)
	}
}

func TestRouter_DeleteAuthorWithBooks(t *testing.T) {
	a := newTestAPI(t)
	a.authors.deleteErr = domain.ErrAuthorHasBooks

	rec, _ := a.do(http.MethodDelete, "/api/v1/authors/1", "", a.bearer(t, "ana"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRouter_InvalidID(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(http.MethodGet, "/api/v1/authors/abc", "", "")
	if rec.Code != http.StatusBadRequest || env["message"] != "Validation failed" {
		t.Fatalf("expected validation failure, got %d %v", rec.Code, env)
	}
}

func TestRouter_Search(t *testing.T) {
	a := newTestAPI(t)

	if rec, _ := a.do(http.MethodGet, "/api/v1/search/books", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without criteria, got %d", rec.Code)
	}
	if rec, _ := a.do(http.MethodGet, "/api/v1/search/books?title=zzz", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without hits, got %d", rec.Code)
	}
}

func TestRouter_FarPageDoesNotWrapToFirst(t *testing.T) {
	a := newTestAPI(t)

	rec, _ := a.do(http.MethodGet, "/api/v1/authors?page=4611686018427387905&limit=4", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if off := a.authors.listIn.Offset(); off != math.MaxInt {
		t.Fatalf("expected a saturated offset, got %d", off)
	}
}
