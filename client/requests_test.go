package client

import (
	"testing"
	"time"

	"finance-dashboard/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidation(t *testing.T) {
	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{
			name:  "transaction missing company",
			req:   AddTransaction{Transaction: models.Transaction{Date: "2025-01-01", TransactionType: "expense", Category: "food"}},
			field: "company",
		},
		{
			name:  "transaction bad date",
			req:   AddTransaction{Transaction: models.Transaction{Date: "01/02/2025", Company: "X", TransactionType: "expense", Category: "food"}},
			field: "date",
		},
		{
			name:  "transaction bad type",
			req:   AddTransaction{Transaction: models.Transaction{Date: "2025-01-01", Company: "X", TransactionType: "transfer", Category: "food"}},
			field: "transactionType",
		},
		{
			name:  "charge unknown category",
			req:   AddUpcomingCharge{Charge: models.UpcomingCharge{Date: "2025-01-01", Company: "X", Category: "yachts"}},
			field: "category",
		},
		{
			name:  "debt negative paid",
			req:   AddDebt{Debt: models.Debt{Company: "X", CurrentPaid: mustMoney("-1"), TotalAmount: mustMoney("10"), DueDate: "2025-01-01"}},
			field: "currentPaid",
		},
		{
			name:  "debt negative total",
			req:   AddDebt{Debt: models.Debt{Company: "X", CurrentPaid: mustMoney("1"), TotalAmount: mustMoney("-10"), DueDate: "2025-01-01"}},
			field: "totalAmount",
		},
		{
			name:  "goal missing title",
			req:   AddGoal{Goal: models.Goal{TargetDate: "2025-01-01"}},
			field: "title",
		},
		{
			name:  "account bad type",
			req:   AddAccount{Account: models.Account{Type: "offshore"}},
			field: "type",
		},
		{
			name:  "update without id",
			req:   UpdateDebt{Debt: models.Debt{Company: "X", DueDate: "2025-01-01"}},
			field: "id",
		},
		{
			name:  "delete without id",
			req:   DeleteGoal{},
			field: "id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestCurrentPaidMayExceedTotal(t *testing.T) {
	// Overpayment is allowed: only negative amounts are rejected.
	req := AddDebt{Debt: models.Debt{
		Company:     "X",
		CurrentPaid: mustMoney("500"),
		TotalAmount: mustMoney("100"),
		DueDate:     "2025-01-01",
	}}
	assert.NoError(t, req.Validate())
}

func TestUpdatePatchMissingEntryStillDispatches(t *testing.T) {
	doc := models.NewDashboard(testUserID)
	req := UpdateDebt{ID: "gone", Debt: models.Debt{
		Company:     "X",
		CurrentPaid: mustMoney("0"),
		TotalAmount: mustMoney("10"),
		DueDate:     "2025-01-01",
	}}

	_, changed := req.Patch(doc)
	assert.True(t, changed, "server may still know the entry, so the request must go out")
}

func TestDeletePatchRemovesOnlyTarget(t *testing.T) {
	doc := models.NewDashboard(testUserID)
	doc.Goals = []models.Goal{
		{ID: "g1", Title: "A", TargetDate: "2026-01-01"},
		{ID: "g2", Title: "B", TargetDate: "2026-01-01"},
	}

	next, changed := DeleteGoal{ID: "g1"}.Patch(doc)
	assert.True(t, changed)
	require.Len(t, next.Goals, 1)
	assert.Equal(t, "g2", next.Goals[0].ID)
}

func TestAddPatchDoesNotInventAnID(t *testing.T) {
	doc := models.NewDashboard(testUserID)
	next, changed := AddIncome{Income: models.Income{ID: "client-made-up", Company: "E", Amount: mustMoney("1")}}.Patch(doc)
	assert.True(t, changed)
	require.Len(t, next.Income, 1)
	assert.Empty(t, next.Income[0].ID, "ids are assigned by the store, not speculated")
}

func TestUpdateAccountKeepsCreatedAt(t *testing.T) {
	doc := models.NewDashboard(testUserID)
	created := models.Account{
		ID:        "a1",
		Type:      "checking",
		Balance:   mustMoney("10"),
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	doc.Accounts = append(doc.Accounts, created)

	next, changed := UpdateAccount{ID: created.ID, Account: models.Account{
		Type:    "checking",
		Balance: mustMoney("999"),
	}}.Patch(doc)
	assert.True(t, changed)
	assert.Equal(t, created.CreatedAt, next.Accounts[0].CreatedAt)
}
