package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

type stubThrottle struct {
	max      int
	failures map[string]int
}

func newStubThrottle(max int) *stubThrottle {
	return &stubThrottle{max: max, failures: make(map[string]int)}
}

func (t *stubThrottle) Allowed(_ context.Context, subject string) (bool, error) {
	return t.failures[subject] < t.max, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, subject string) error {
	t.failures[subject]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, subject string) error {
	delete(t.failures, subject)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *recordingAudit) Record(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []domain.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

type stubAuthorRepo struct {
	rows    map[int64]domain.Author
	nextID  int64
	creates int
	updates int
}

func newStubAuthorRepo(authors ...domain.Author) *stubAuthorRepo {
	r := &stubAuthorRepo{rows: make(map[int64]domain.Author)}
	for _, a := range authors {
		r.rows[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *stubAuthorRepo) sorted() []domain.Author {
	out := make([]domain.Author, 0, len(r.rows))
	for _, a := range r.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubAuthorRepo) List(_ context.Context, offset, limit int) ([]domain.Author, error) {
	return window(r.sorted(), offset, limit), nil
}

func (r *stubAuthorRepo) ListAll(context.Context) ([]domain.Author, error) {
	return r.sorted(), nil
}

func (r *stubAuthorRepo) Count(context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *stubAuthorRepo) FindByID(_ context.Context, id int64) (*domain.Author, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrAuthorNotFound
	}
	return &a, nil
}

func (r *stubAuthorRepo) Create(_ context.Context, author *domain.Author) (*domain.Author, error) {
	r.creates++
	r.nextID++
	stored := *author
	stored.ID = r.nextID
	r.rows[stored.ID] = stored
	return &stored, nil
}

func (r *stubAuthorRepo) Update(_ context.Context, author *domain.Author) (int64, error) {
	r.updates++
	if _, ok := r.rows[author.ID]; !ok {
		return 0, nil
	}
	r.rows[author.ID] = *author
	return 1, nil
}

func (r *stubAuthorRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

type stubBookRepo struct {
	rows    map[int64]domain.Book
	authors *stubAuthorRepo
	nextID  int64
	creates int
	updates int
}

func newStubBookRepo(authors *stubAuthorRepo, books ...domain.Book) *stubBookRepo {
	r := &stubBookRepo{rows: make(map[int64]domain.Book), authors: authors}
	for _, b := range books {
		r.rows[b.ID] = b
		if b.ID > r.nextID {
			r.nextID = b.ID
		}
	}
	return r
}

func (r *stubBookRepo) filtered(authorID int64) []domain.Book {
	out := make([]domain.Book, 0, len(r.rows))
	for _, b := range r.rows {
		if authorID == 0 || b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubBookRepo) List(_ context.Context, filter ports.BookFilter) ([]domain.Book, error) {
	return window(r.filtered(filter.AuthorID), filter.Offset, filter.Limit), nil
}

func (r *stubBookRepo) Count(_ context.Context, filter ports.BookFilter) (int64, error) {
	return int64(len(r.filtered(filter.AuthorID))), nil
}

func (r *stubBookRepo) ListByAuthors(_ context.Context, ids []int64) ([]domain.Book, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Book
	for _, b := range r.filtered(0) {
		if want[b.AuthorID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id int64) (*domain.Book, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return &b, nil
}

func (r *stubBookRepo) Search(_ context.Context, author, title string) ([]domain.BookSearchHit, error) {
	var hits []domain.BookSearchHit
	for _, b := range r.filtered(0) {
		a := r.authors.rows[b.AuthorID]
		if author != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(author)) {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(title)) {
			continue
		}
		hits = append(hits, domain.BookSearchHit{ID: b.ID, Title: b.Title, AuthorName: a.Name})
	}
	return hits, nil
}

func (r *stubBookRepo) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	r.creates++
	r.nextID++
	stored := *book
	stored.ID = r.nextID
	r.rows[stored.ID] = stored
	return &stored, nil
}

func (r *stubBookRepo) Update(_ context.Context, book *domain.Book) (int64, error) {
	r.updates++
	if _, ok := r.rows[book.ID]; !ok {
		return 0, nil
	}
	r.rows[book.ID] = *book
	return 1, nil
}

func (r *stubBookRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func window[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
