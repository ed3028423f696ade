// Package store defines the aggregate store: durable persistence of one
// dashboard document per user, mutated only list-by-list.
package store

import (
	"context"
	"errors"

	"finance-dashboard/api/models"
)

// ErrNotFound is returned when no aggregate exists for the user, or when a
// referenced entry id no longer exists. A missing aggregate after signup
// signals a provisioning bug, not a user error.
var ErrNotFound = errors.New("not found")

type Store interface {
	// Provision creates the empty aggregate at signup.
	Provision(ctx context.Context, userID string) error

	// Find returns the full aggregate, or ErrNotFound.
	Find(ctx context.Context, userID string) (*models.Dashboard, error)

	// AppendToList assigns an id to the entry and appends it to the named
	// list. Returns the stored entry.
	AppendToList(ctx context.Context, userID, list string, entry models.Entry) (models.Entry, error)

	// ReplaceListEntry overwrites the fields of an existing entry, keeping
	// its id. Returns ErrNotFound when the id is gone.
	ReplaceListEntry(ctx context.Context, userID, list, id string, entry models.Entry) (models.Entry, error)

	// RemoveFromList deletes an entry and returns the aggregate as it stands
	// afterwards. Returns ErrNotFound when the id is gone.
	RemoveFromList(ctx context.Context, userID, list, id string) (*models.Dashboard, error)

	// SetOverview replaces the overview totals.
	SetOverview(ctx context.Context, userID string, ov models.Overview) error

	// ReplaceTransactions swaps the whole transactions list, used by CSV
	// import. Entries without an id get one assigned.
	ReplaceTransactions(ctx context.Context, userID string, txs []models.Transaction) error

	// AllUserIDs lists every provisioned aggregate's owner, used by the
	// recurring-charge roller.
	AllUserIDs(ctx context.Context) ([]string, error)
}
