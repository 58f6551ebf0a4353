package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

// MockGenerator builds a deterministic recipe from the ingredients.
// Used in development and tests when no API key is configured.
type MockGenerator struct {
	mu    sync.Mutex
	err   error
	calls int
}

// NewMockGenerator creates a new MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// FailWith makes subsequent calls return err; nil restores success
func (m *MockGenerator) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Generate was invoked
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockGenerator) Generate(ctx context.Context, ingredients []string) (*domain.Recipe, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		return nil, ErrEmptyResponse
	}

	items := make([]string, len(ingredients))
	for i, ing := range ingredients {
		items[i] = "1 portion " + ing
	}
	return &domain.Recipe{
		Title:       fmt.Sprintf("Simple %s skillet", ingredients[0]),
		Description: "A quick dish made with " + strings.Join(ingredients, ", ") + ".",
		Ingredients: items,
		Instructions: []string{
			"Prepare all ingredients.",
			"Cook everything together over medium heat.",
			"Serve warm.",
		},
		PrepTimeMinutes: 5 * len(ingredients),
		Servings:        2,
	}, nil
}

func (m *MockGenerator) Name() string {
	return "mock"
}
