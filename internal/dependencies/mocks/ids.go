package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/puzzleboard/internal/dependencies/ids"
	"github.com/mcoot/puzzleboard/internal/model"
)

// MockIDs hands out predictable ids: "import-1", "import-2", ...
type MockIDs struct {
	mu   sync.Mutex
	next int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewImportID returns the next sequential import id
func (g *MockIDs) NewImportID() model.ImportID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return model.ImportID(fmt.Sprintf("import-%d", g.next))
}
