// Package cart identifies the anonymous shopping cart and drives the checkout.
package cart

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

const (
	idKey    = "cart_id"
	idLength = 6
	digits   = "1234567890"
)

var randReader = rand.Reader // mockable

// IDStore hands out the cart identifier persisted in the local storage.
type IDStore struct {
	storage core.Storage
	mu      sync.Mutex
}

func NewIDStore(storage core.Storage) *IDStore {
	return &IDStore{storage: storage}
}

// ID returns the persisted cart id, generating and persisting a new one the first time.
func (s *IDStore) ID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.storage.Get(idKey)
	if err != nil {
		return "", errors.Wrap(err, "reading cart id")
	}
	if ok && strings.TrimSpace(id) != "" {
		return id, nil
	}

	if id, err = generateID(); err != nil {
		return "", err
	}
	if err := s.storage.Set(idKey, id); err != nil {
		return "", errors.Wrap(err, "storing cart id")
	}
	return id, nil
}

// Reset forgets the cart id; the next call to ID starts a new cart.
func (s *IDStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(idKey)
}

func generateID() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(digits)))
	for i := 0; i < idLength; i++ {
		n, err := rand.Int(randReader, max)
		if err != nil {
			return "", errors.Wrap(err, "generating cart id")
		}
		sb.WriteByte(digits[n.Int64()])
	}
	return sb.String(), nil
}
