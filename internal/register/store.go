package register

import (
	"sync"

	"github.com/avaldez-dev/tillpoint/internal/cart"
	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// Store maps register IDs to their live cart. A register works on one cart
// at a time; terminal carts are swept on the next open. Carts parked through
// hold/resume leave the store entirely, their snapshot row is authoritative.
type Store struct {
	mtx   sync.RWMutex
	carts map[string]*cart.Cart
}

// NewStore builds an empty register store.
func NewStore() *Store {
	return &Store{carts: make(map[string]*cart.Cart)}
}

// Open returns the register's active cart, creating one when the register is
// idle or its previous cart reached a terminal state.
func (s *Store) Open(registerID string, currency enums.Currency) (*cart.Cart, error) {
	if registerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "register id required")
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if c, ok := s.carts[registerID]; ok && !c.State().IsTerminal() && c.State() != enums.CartStateHeld {
		return c, nil
	}
	c, err := cart.New(currency)
	if err != nil {
		return nil, err
	}
	s.carts[registerID] = c
	return c, nil
}

// Get returns the register's active cart.
func (s *Store) Get(registerID string) (*cart.Cart, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	c, ok := s.carts[registerID]
	if !ok || c.State().IsTerminal() || c.State() == enums.CartStateHeld {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart on register").
			WithDetails(map[string]any{"register_id": registerID})
	}
	return c, nil
}

// CanAttach reports whether the register would accept a resumed cart right
// now, without attaching one. Callers check it before redeeming a hold code
// so a busy register rejects the resume while the snapshot is still parked.
func (s *Store) CanAttach(registerID string) error {
	if registerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "register id required")
	}
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.attachConflict(registerID)
}

// Attach replaces the register's cart, used when a held transaction resumes.
func (s *Store) Attach(registerID string, c *cart.Cart) error {
	if registerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "register id required")
	}
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if err := s.attachConflict(registerID); err != nil {
		return err
	}
	s.carts[registerID] = c
	return nil
}

// attachConflict is the busy-register rule shared by CanAttach and Attach.
// Callers hold the lock.
func (s *Store) attachConflict(registerID string) error {
	existing, ok := s.carts[registerID]
	if !ok || existing.State().IsTerminal() || existing.State() == enums.CartStateHeld {
		return nil
	}
	if len(existing.Lines()) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "register already has an active cart").
			WithDetails(map[string]any{"register_id": registerID})
	}
	return nil
}

// Clear detaches the register's cart, whatever state it is in.
func (s *Store) Clear(registerID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.carts, registerID)
}
