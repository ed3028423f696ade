package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

// fakeExecutor applies requests to an in-memory store the way the server
// would, while letting tests count dispatches, inject failures, and stall
// resync fetches.
type fakeExecutor struct {
	mem    *store.Memory
	userID string

	mu           sync.Mutex
	executeCalls int
	fetchCalls   int
	importCalls  int
	nextExecErr  error
	fetchErr     error
	onExecute    func()

	// When set, the next fetch captures server truth, signals
	// fetchStarted, then blocks until the channel is closed.
	blockNextFetch chan struct{}
	fetchStarted   chan struct{}
}

func newFakeExecutor(t *testing.T) *fakeExecutor {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.Provision(context.Background(), testUserID))
	return &fakeExecutor{mem: mem, userID: testUserID}
}

func (f *fakeExecutor) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	f.mu.Lock()
	f.executeCalls++
	err := f.nextExecErr
	f.nextExecErr = nil
	hook := f.onExecute
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}

	method, path, body := req.httpRequest()
	result, applyErr := f.apply(ctx, method, path, body)
	if applyErr != nil {
		return nil, applyErr
	}
	raw, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return nil, &TransportError{Err: marshalErr}
	}
	return raw, nil
}

func (f *fakeExecutor) apply(ctx context.Context, method, path string, body any) (any, error) {
	if method == "PUT" && path == "/api/dashboard/overview" {
		ov := body.(models.Overview)
		if err := f.mem.SetOverview(ctx, f.userID, ov); err != nil {
			return nil, &NotFoundError{}
		}
		return ov, nil
	}

	parts := strings.Split(strings.TrimPrefix(path, "/api/dashboard/"), "/")
	list := parts[0]

	switch method {
	case "POST":
		entry, ok := models.NewEntryForList(list)
		if !ok {
			return nil, &RejectedError{Status: 400, Message: "unknown list"}
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		if err := json.Unmarshal(raw, entry); err != nil {
			return nil, &TransportError{Err: err}
		}
		created, err := f.mem.AppendToList(ctx, f.userID, list, entry)
		if err != nil {
			return nil, &NotFoundError{}
		}
		return created, nil

	case "PUT":
		entry, ok := models.NewEntryForList(list)
		if !ok {
			return nil, &RejectedError{Status: 400, Message: "unknown list"}
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		if err := json.Unmarshal(raw, entry); err != nil {
			return nil, &TransportError{Err: err}
		}
		updated, err := f.mem.ReplaceListEntry(ctx, f.userID, list, parts[1], entry)
		if err != nil {
			return nil, &NotFoundError{}
		}
		return updated, nil

	case "DELETE":
		doc, err := f.mem.RemoveFromList(ctx, f.userID, list, parts[1])
		if err != nil {
			return nil, &NotFoundError{}
		}
		remaining, _ := doc.ListAny(list)
		return remaining, nil
	}
	return nil, &RejectedError{Status: 400, Message: "unknown method " + method}
}

func (f *fakeExecutor) FetchDashboard(ctx context.Context) (*models.Dashboard, error) {
	f.mu.Lock()
	f.fetchCalls++
	if f.fetchErr != nil {
		err := f.fetchErr
		f.mu.Unlock()
		return nil, err
	}
	release := f.blockNextFetch
	started := f.fetchStarted
	f.blockNextFetch = nil
	f.fetchStarted = nil
	f.mu.Unlock()

	doc, err := f.mem.Find(ctx, f.userID)
	if err != nil {
		return nil, &NotFoundError{}
	}

	if release != nil {
		close(started)
		<-release
	}
	return doc, nil
}

func (f *fakeExecutor) ImportTransactionsCSV(ctx context.Context, mode ImportMode, data []byte) error {
	f.mu.Lock()
	f.importCalls++
	f.mu.Unlock()

	imported := []models.Transaction{{
		Date:            "2025-03-01",
		Company:         "Imported Inc",
		Amount:          mustMoney("42.00"),
		TransactionType: "expense",
		Category:        "other",
	}}
	return f.mem.ReplaceTransactions(ctx, f.userID, imported)
}

func (f *fakeExecutor) serverTruth(t *testing.T) *models.Dashboard {
	t.Helper()
	doc, err := f.mem.Find(context.Background(), f.userID)
	require.NoError(t, err)
	return doc
}

func mustMoney(s string) models.Money {
	m, err := models.NewMoney(s)
	if err != nil {
		panic(fmt.Sprintf("bad money literal %q: %v", s, err))
	}
	return m
}

func seedDebts(t *testing.T, f *fakeExecutor) (d1, d2 string) {
	t.Helper()
	ctx := context.Background()
	first, err := f.mem.AppendToList(ctx, testUserID, models.ListDebts, &models.Debt{
		Company:     "CarLoan Co",
		CurrentPaid: mustMoney("500"),
		TotalAmount: mustMoney("2000"),
		DueDate:     "2025-12-01",
	})
	require.NoError(t, err)
	second, err := f.mem.AppendToList(ctx, testUserID, models.ListDebts, &models.Debt{
		Company:     "Student Loans Inc",
		CurrentPaid: mustMoney("100"),
		TotalAmount: mustMoney("9000"),
		DueDate:     "2026-06-01",
	})
	require.NoError(t, err)
	return first.EntryID(), second.EntryID()
}

func TestMutateConvergesOnSuccess(t *testing.T) {
	exec := newFakeExecutor(t)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	err := c.Mutate(ctx, AddTransaction{Transaction: models.Transaction{
		Date:            "2025-02-14",
		Company:         "Grocer",
		Amount:          mustMoney("31.75"),
		TransactionType: "expense",
		Category:        "food",
	}})
	require.NoError(t, err)

	cached, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, exec.serverTruth(t), cached)
	require.Len(t, cached.Transactions, 1)
	assert.NotEmpty(t, cached.Transactions[0].ID, "resync must carry the server-assigned id")
}

func TestMutateConvergesOnFailure(t *testing.T) {
	exec := newFakeExecutor(t)
	seedDebts(t, exec)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	exec.nextExecErr = &TransportError{Err: fmt.Errorf("connection reset")}
	err := c.Mutate(ctx, AddDebt{Debt: models.Debt{
		Company:     "New Lender",
		CurrentPaid: mustMoney("0"),
		TotalAmount: mustMoney("100"),
		DueDate:     "2025-09-01",
	}})
	require.Error(t, err)

	cached, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, exec.serverTruth(t), cached)
}

func TestRollbackRestoresSnapshotExactly(t *testing.T) {
	exec := newFakeExecutor(t)
	seedDebts(t, exec)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	before, ok := c.Dashboard()
	require.True(t, ok)

	// Freeze the post-rollback state by failing the resync too.
	exec.nextExecErr = &TransportError{Err: fmt.Errorf("boom")}
	exec.fetchErr = &TransportError{Err: fmt.Errorf("still down")}

	err := c.Mutate(ctx, DeleteDebt{ID: before.Debts[0].ID})
	require.Error(t, err)

	after, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestExactlyOneDispatchPerMutation(t *testing.T) {
	exec := newFakeExecutor(t)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	require.NoError(t, c.Mutate(ctx, AddIncome{Income: models.Income{
		Company: "Employer",
		Amount:  mustMoney("4200"),
	}}))
	assert.Equal(t, 1, exec.executeCalls)
}

func TestOptimisticValueVisibleDuringFlight(t *testing.T) {
	exec := newFakeExecutor(t)
	d1, d2 := seedDebts(t, exec)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	var inFlight *models.Dashboard
	exec.onExecute = func() {
		inFlight, _ = c.Dashboard()
	}

	require.NoError(t, c.Mutate(ctx, DeleteDebt{ID: d1}))

	require.NotNil(t, inFlight)
	require.Len(t, inFlight.Debts, 1, "optimistic delete must be visible before the server answers")
	assert.Equal(t, d2, inFlight.Debts[0].ID)
}

func TestDeleteDebtScenario(t *testing.T) {
	exec := newFakeExecutor(t)
	d1, d2 := seedDebts(t, exec)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	// Success: optimistic [d2], resync idempotently confirms [d2].
	require.NoError(t, c.Mutate(ctx, DeleteDebt{ID: d1}))
	cached, ok := c.Dashboard()
	require.True(t, ok)
	require.Len(t, cached.Debts, 1)
	assert.Equal(t, d2, cached.Debts[0].ID)
	assert.Equal(t, exec.serverTruth(t), cached)

	// Failure: cache reverts to both debts.
	before, _ := c.Dashboard()
	exec.nextExecErr = &TransportError{Err: fmt.Errorf("boom")}
	exec.fetchErr = &TransportError{Err: fmt.Errorf("boom")}
	err := c.Mutate(ctx, DeleteDebt{ID: d2})
	require.Error(t, err)
	after, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestDuplicateChargeRollsBackCleanly(t *testing.T) {
	exec := newFakeExecutor(t)
	ctx := context.Background()
	_, err := exec.mem.AppendToList(ctx, testUserID, models.ListUpcomingCharges, &models.UpcomingCharge{
		Date:      "2025-02-01",
		Company:   "Netflix",
		Amount:    mustMoney("15.99"),
		Category:  "subscriptions",
		Recurring: true,
	})
	require.NoError(t, err)

	c := New(exec)
	require.NoError(t, c.Refresh(ctx))
	before, _ := c.Dashboard()

	exec.nextExecErr = &RejectedError{Status: 409, Message: "A charge for this company and date already exists"}
	err = c.Mutate(ctx, AddUpcomingCharge{Charge: models.UpcomingCharge{
		Date:     "2025-02-01",
		Company:  "Netflix",
		Amount:   mustMoney("15.99"),
		Category: "subscriptions",
	}})
	require.Error(t, err)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)

	after, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, before, after, "no partial charge may stay visible")
	require.Len(t, after.UpcomingCharges, 1)
	assert.Equal(t, exec.serverTruth(t), after)
}

func TestIdenticalEditShortCircuits(t *testing.T) {
	exec := newFakeExecutor(t)
	ctx := context.Background()
	created, err := exec.mem.AppendToList(ctx, testUserID, models.ListGoals, &models.Goal{
		Title:         "House deposit",
		TargetDate:    "2027-01-01",
		CurrentAmount: mustMoney("1500.50"),
		TargetAmount:  mustMoney("20000"),
	})
	require.NoError(t, err)

	c := New(exec)
	require.NoError(t, c.Refresh(ctx))
	before, _ := c.Dashboard()
	dispatchesBefore := exec.executeCalls

	// Same values, different decimal exponents: still a no-op.
	err = c.Mutate(ctx, UpdateGoal{ID: created.EntryID(), Goal: models.Goal{
		Title:         "House deposit",
		TargetDate:    "2027-01-01",
		CurrentAmount: mustMoney("1500.5"),
		TargetAmount:  mustMoney("20000.00"),
	}})
	require.NoError(t, err)

	assert.Equal(t, dispatchesBefore, exec.executeCalls, "no request may be dispatched")
	after, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestStaleResyncIsSuperseded(t *testing.T) {
	exec := newFakeExecutor(t)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	// Mutation A settles, then its resync captures server truth and stalls.
	release := make(chan struct{})
	started := make(chan struct{})
	exec.mu.Lock()
	exec.blockNextFetch = release
	exec.fetchStarted = started
	exec.mu.Unlock()

	aDone := make(chan error, 1)
	go func() {
		aDone <- c.Mutate(ctx, AddTransaction{Transaction: models.Transaction{
			Date:            "2025-01-10",
			Company:         "First",
			Amount:          mustMoney("10"),
			TransactionType: "expense",
			Category:        "other",
		}})
	}()
	<-started

	// Mutation B starts and fully settles while A's resync is in flight.
	require.NoError(t, c.Mutate(ctx, AddDebt{Debt: models.Debt{
		Company:     "Later Lender",
		CurrentPaid: mustMoney("0"),
		TotalAmount: mustMoney("300"),
		DueDate:     "2025-10-01",
	}}))

	cached, ok := c.Dashboard()
	require.True(t, ok)
	require.Len(t, cached.Debts, 1)

	// A's stale resync (captured before B) must be discarded.
	close(release)
	require.NoError(t, <-aDone)

	final, ok := c.Dashboard()
	require.True(t, ok)
	require.Len(t, final.Debts, 1, "stale resync must not clobber the newer mutation")
	assert.Equal(t, "Later Lender", final.Debts[0].Company)
}

func TestAuthFailureBypassesProtocol(t *testing.T) {
	exec := newFakeExecutor(t)
	seedDebts(t, exec)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	fetchesBefore := exec.fetchCalls

	exec.nextExecErr = &AuthError{Status: 401}
	err := c.Mutate(ctx, DeleteDebt{ID: "whatever"})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, fetchesBefore, exec.fetchCalls, "no resync on auth failure")
}

func TestValidationFailureNeverDispatches(t *testing.T) {
	exec := newFakeExecutor(t)
	c := New(exec)
	ctx := context.Background()

	err := c.Mutate(ctx, AddDebt{Debt: models.Debt{
		Company:     "Lender",
		CurrentPaid: mustMoney("-5"),
		TotalAmount: mustMoney("100"),
		DueDate:     "2025-01-01",
	}})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, exec.executeCalls)
}

func TestImportResynchronizes(t *testing.T) {
	exec := newFakeExecutor(t)
	c := New(exec)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	csv := "id,date,company,amount,transactionType,category\n"
	err := c.ImportTransactionsCSV(ctx, strings.NewReader(csv), ImportReplace)
	require.NoError(t, err)

	assert.Equal(t, 1, exec.importCalls)
	cached, ok := c.Dashboard()
	require.True(t, ok)
	assert.Equal(t, exec.serverTruth(t), cached)
	require.Len(t, cached.Transactions, 1)
	assert.Equal(t, "Imported Inc", cached.Transactions[0].Company)
}

func TestImportRejectsUnknownMode(t *testing.T) {
	exec := newFakeExecutor(t)
	c := New(exec)

	err := c.ImportTransactionsCSV(context.Background(), strings.NewReader(""), ImportMode("merge"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, exec.importCalls)
}
