package ids

import (
	"github.com/google/uuid"

	"github.com/mcoot/puzzleboard/internal/model"
)

// Generator provides identifiers that can be mocked for testing
type Generator interface {
	NewImportID() model.ImportID
}

// UUIDGenerator implements Generator with random UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewImportID returns a fresh random import id
func (g *UUIDGenerator) NewImportID() model.ImportID {
	return model.ImportID(uuid.NewString())
}
