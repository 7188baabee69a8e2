// Package ordering maintains the dense, zero-based manual order of a user's
// subscription list. Every user's order_index values form the exact set
// {0..n-1}; the single reorder operation moves one subscription while
// shifting the rows in between by one, inside a single transaction.
package ordering

import "errors"

var (
	// ErrNotFound signals that the subscription does not exist or is not
	// owned by the calling user.
	ErrNotFound = errors.New("subscription not found")
	// ErrInvalidIndex signals a negative or out-of-range target index.
	ErrInvalidIndex = errors.New("invalid order index")
)

// Store is the storage collaborator the engine drives. ShiftRange adds delta
// to the order_index of every subscription of the user whose index lies in
// [start, end]; the moving row itself never falls inside the shifted range.
type Store interface {
	OrderIndex(userID uint, subscriptionID string) (int, error)
	Count(userID uint) (int, error)
	ShiftRange(userID uint, start, end, delta int) error
	SetOrderIndex(userID uint, subscriptionID string, index int) error
}

// TxStore runs a function against a Store inside one transaction. A returned
// error rolls every write back.
type TxStore interface {
	Store
	InTx(fn func(Store) error) error
}

// Engine exposes the reorder operation over an injected transactional store.
type Engine struct {
	store TxStore
}

func NewEngine(store TxStore) *Engine {
	return &Engine{store: store}
}

// Reorder moves one subscription of the user to newIndex. Rows between the
// old and new position shift by exactly one, so the index set stays dense.
// A newIndex outside [0, n) is rejected with ErrInvalidIndex; moving to the
// current position succeeds without touching any row.
func (e *Engine) Reorder(userID uint, subscriptionID string, newIndex int) error {
	if newIndex < 0 {
		return ErrInvalidIndex
	}

	return e.store.InTx(func(s Store) error {
		oldIndex, err := s.OrderIndex(userID, subscriptionID)
		if err != nil {
			return err
		}
		// The same-position no-op wins over the bound check, so a move to
		// the current index succeeds even when deletes left that index
		// beyond the dense range.
		if oldIndex == newIndex {
			return nil
		}

		n, err := s.Count(userID)
		if err != nil {
			return err
		}
		if newIndex >= n {
			return ErrInvalidIndex
		}

		switch {
		case oldIndex < newIndex:
			if err := s.ShiftRange(userID, oldIndex+1, newIndex, -1); err != nil {
				return err
			}
		default:
			if err := s.ShiftRange(userID, newIndex, oldIndex-1, +1); err != nil {
				return err
			}
		}

		return s.SetOrderIndex(userID, subscriptionID, newIndex)
	})
}
