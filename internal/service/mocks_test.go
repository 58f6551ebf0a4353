package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

// mockUserRepository is an in-memory UserRepository that enforces unique emails like the store does
type mockUserRepository struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	emailIndex  map[string]*domain.User
	getErr      error
	createError error
	// emailLookupMiss hides existing rows from GetByEmail to reproduce the check-then-insert race
	emailLookupMiss bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createError != nil {
		return r.createError
	}
	if _, exists := r.emailIndex[user.Email]; exists {
		return domain.Wrap(domain.ErrEmailInUse, "mock.Create", nil)
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.users[id], nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.emailLookupMiss {
		return nil, nil
	}
	return r.emailIndex[email], nil
}

func (r *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *mockUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// mockProductRepository is an in-memory ProductRepository with serial ids
type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
	err      error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product), nextID: 1}
}

func (r *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.products[id], nil
}

func (r *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if r.err != nil {
		return r.err
	}
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.nextID++
	r.products[p.ID] = p
	return nil
}

func (r *mockProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	existing, ok := r.products[p.ID]
	if !ok {
		return nil, nil
	}
	updated := *existing
	updated.Name, updated.Price, updated.Image = p.Name, p.Price, p.Image
	r.products[p.ID] = &updated
	return &updated, nil
}

func (r *mockProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// mockRecipeRepository is an in-memory RecipeRepository
type mockRecipeRepository struct {
	recipes map[int64]*domain.SavedRecipe
	nextID  int64
	err     error
}

func newMockRecipeRepository() *mockRecipeRepository {
	return &mockRecipeRepository{recipes: make(map[int64]*domain.SavedRecipe), nextID: 1}
}

func (r *mockRecipeRepository) Create(ctx context.Context, rec *domain.SavedRecipe) error {
	if r.err != nil {
		return r.err
	}
	rec.ID = r.nextID
	rec.CreatedAt = time.Now()
	r.nextID++
	r.recipes[rec.ID] = rec
	return nil
}

func (r *mockRecipeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedRecipe, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.SavedRecipe, 0)
	for _, rec := range r.recipes {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *mockRecipeRepository) GetByID(ctx context.Context, userID string, id int64) (*domain.SavedRecipe, error) {
	if r.err != nil {
		return nil, r.err
	}
	rec, ok := r.recipes[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func (r *mockRecipeRepository) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	rec, ok := r.recipes[id]
	if !ok || rec.UserID != userID {
		return false, nil
	}
	delete(r.recipes, id)
	return true, nil
}
