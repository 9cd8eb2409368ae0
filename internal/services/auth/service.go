package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/puzzleboard/internal/model"
)

// ServiceInterface defines the upload guard operations
type ServiceInterface interface {
	Required() bool
	Verify(key string) error
}

// Service guards write endpoints with a shared upload key.
// An empty hash disables the guard.
type Service struct {
	hash []byte
}

var _ ServiceInterface = (*Service)(nil)

// New creates a guard from a bcrypt hash of the upload key
func New(uploadKeyHash string) (*Service, error) {
	hash := strings.TrimSpace(uploadKeyHash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("upload key hash: %w", err)
		}
	}
	return &Service{hash: []byte(hash)}, nil
}

// Required reports whether uploads must present a key
func (s *Service) Required() bool {
	return len(s.hash) > 0
}

// Verify checks a presented key against the configured hash
func (s *Service) Verify(key string) error {
	if !s.Required() {
		return nil
	}
	if key == "" {
		return model.ErrUploadKeyRequired
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(key)); err != nil {
		return model.ErrInvalidUploadKey
	}
	return nil
}

// HashKey produces the value to configure as upload_key_hash
func HashKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", model.ErrUploadKeyRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
