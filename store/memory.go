package store

import (
	"context"
	"sync"

	"finance-dashboard/api/models"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and ephemeral environments.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*models.Dashboard
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*models.Dashboard)}
}

func (m *Memory) Provision(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[userID]; !ok {
		m.docs[userID] = models.NewDashboard(userID)
	}
	return nil
}

func (m *Memory) Find(ctx context.Context, userID string) (*models.Dashboard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *Memory) AppendToList(ctx context.Context, userID, list string, entry models.Entry) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	entry.SetEntryID(uuid.NewString())
	if !doc.Append(list, entry) {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (m *Memory) ReplaceListEntry(ctx context.Context, userID, list, id string, entry models.Entry) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if !doc.ReplaceEntry(list, id, entry) {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (m *Memory) RemoveFromList(ctx context.Context, userID, list, id string) (*models.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if !doc.RemoveEntry(list, id) {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *Memory) SetOverview(ctx context.Context, userID string, ov models.Overview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return ErrNotFound
	}
	doc.Overview = ov
	return nil
}

func (m *Memory) AllUserIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *Memory) ReplaceTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[userID]
	if !ok {
		return ErrNotFound
	}
	replaced := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		replaced = append(replaced, tx)
	}
	doc.Transactions = replaced
	return nil
}
