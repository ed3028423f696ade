package client

import (
	"time"

	"finance-dashboard/api/models"
)

// Request is one UI intent against a single sub-collection of the aggregate:
// a tagged variant per entity kind and operation. Each request knows how to
// validate itself, how to patch a cache snapshot speculatively, and which
// single store call it maps to.
type Request interface {
	// Validate runs the client-side checks. A failure here never reaches
	// the network.
	Validate() error

	// Patch applies the intent to a snapshot copy. changed=false means the
	// mutation is a no-op and the protocol short-circuits without
	// dispatching. The optimistic patch does not wait for the server's
	// assigned id on create.
	Patch(doc *models.Dashboard) (next *models.Dashboard, changed bool)

	// httpRequest names the single store call for this intent.
	httpRequest() (method, path string, body any)
}

// ---- transactions ----

type AddTransaction struct {
	Transaction models.Transaction
}

func (r AddTransaction) Validate() error { return validateTransaction(r.Transaction) }

func (r AddTransaction) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	tx := r.Transaction
	tx.ID = ""
	doc.Transactions = append(doc.Transactions, tx)
	return doc, true
}

func (r AddTransaction) httpRequest() (string, string, any) {
	return "POST", "/api/dashboard/transactions", r.Transaction
}

type UpdateTransaction struct {
	ID          string
	Transaction models.Transaction
}

func (r UpdateTransaction) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return validateTransaction(r.Transaction)
}

func (r UpdateTransaction) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	for i := range doc.Transactions {
		if doc.Transactions[i].ID != r.ID {
			continue
		}
		next := r.Transaction
		next.ID = r.ID
		if transactionEqual(doc.Transactions[i], next) {
			return doc, false
		}
		doc.Transactions[i] = next
		return doc, true
	}
	// Not in the cache: dispatch anyway, the server may still know it.
	return doc, true
}

func (r UpdateTransaction) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/transactions/" + r.ID, r.Transaction
}

type DeleteTransaction struct {
	ID string
}

func (r DeleteTransaction) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

func (r DeleteTransaction) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	doc.RemoveEntry(models.ListTransactions, r.ID)
	return doc, true
}

func (r DeleteTransaction) httpRequest() (string, string, any) {
	return "DELETE", "/api/dashboard/transactions/" + r.ID, nil
}

// ---- upcoming charges ----

type AddUpcomingCharge struct {
	Charge models.UpcomingCharge
}

func (r AddUpcomingCharge) Validate() error { return validateCharge(r.Charge) }

func (r AddUpcomingCharge) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	ch := r.Charge
	ch.ID = ""
	doc.UpcomingCharges = append(doc.UpcomingCharges, ch)
	return doc, true
}

func (r AddUpcomingCharge) httpRequest() (string, string, any) {
	return "POST", "/api/dashboard/upcomingCharges", r.Charge
}

type UpdateUpcomingCharge struct {
	ID     string
	Charge models.UpcomingCharge
}

func (r UpdateUpcomingCharge) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return validateCharge(r.Charge)
}

func (r UpdateUpcomingCharge) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	for i := range doc.UpcomingCharges {
		if doc.UpcomingCharges[i].ID != r.ID {
			continue
		}
		next := r.Charge
		next.ID = r.ID
		if chargeEqual(doc.UpcomingCharges[i], next) {
			return doc, false
		}
		doc.UpcomingCharges[i] = next
		return doc, true
	}
	return doc, true
}

func (r UpdateUpcomingCharge) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/upcomingCharges/" + r.ID, r.Charge
}

type DeleteUpcomingCharge struct {
	ID string
}

func (r DeleteUpcomingCharge) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

func (r DeleteUpcomingCharge) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	doc.RemoveEntry(models.ListUpcomingCharges, r.ID)
	return doc, true
}

func (r DeleteUpcomingCharge) httpRequest() (string, string, any) {
	return "DELETE", "/api/dashboard/upcomingCharges/" + r.ID, nil
}

// ---- debts ----

type AddDebt struct {
	Debt models.Debt
}

func (r AddDebt) Validate() error { return validateDebt(r.Debt) }

func (r AddDebt) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	d := r.Debt
	d.ID = ""
	doc.Debts = append(doc.Debts, d)
	return doc, true
}

func (r AddDebt) httpRequest() (string, string, any) {
	return "POST", "/api/dashboard/debts", r.Debt
}

type UpdateDebt struct {
	ID   string
	Debt models.Debt
}

func (r UpdateDebt) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return validateDebt(r.Debt)
}

func (r UpdateDebt) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	for i := range doc.Debts {
		if doc.Debts[i].ID != r.ID {
			continue
		}
		next := r.Debt
		next.ID = r.ID
		if debtEqual(doc.Debts[i], next) {
			return doc, false
		}
		doc.Debts[i] = next
		return doc, true
	}
	return doc, true
}

func (r UpdateDebt) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/debts/" + r.ID, r.Debt
}

type DeleteDebt struct {
	ID string
}

func (r DeleteDebt) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

func (r DeleteDebt) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	doc.RemoveEntry(models.ListDebts, r.ID)
	return doc, true
}

func (r DeleteDebt) httpRequest() (string, string, any) {
	return "DELETE", "/api/dashboard/debts/" + r.ID, nil
}

// ---- goals ----

type AddGoal struct {
	Goal models.Goal
}

func (r AddGoal) Validate() error { return validateGoal(r.Goal) }

func (r AddGoal) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	g := r.Goal
	g.ID = ""
	doc.Goals = append(doc.Goals, g)
	return doc, true
}

func (r AddGoal) httpRequest() (string, string, any) {
	return "POST", "/api/dashboard/goals", r.Goal
}

type UpdateGoal struct {
	ID   string
	Goal models.Goal
}

func (r UpdateGoal) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return validateGoal(r.Goal)
}

func (r UpdateGoal) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	for i := range doc.Goals {
		if doc.Goals[i].ID != r.ID {
			continue
		}
		next := r.Goal
		next.ID = r.ID
		if goalEqual(doc.Goals[i], next) {
			return doc, false
		}
		doc.Goals[i] = next
		return doc, true
	}
	return doc, true
}

func (r UpdateGoal) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/goals/" + r.ID, r.Goal
}

type DeleteGoal struct {
	ID string
}

func (r DeleteGoal) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

func (r DeleteGoal) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	doc.RemoveEntry(models.ListGoals, r.ID)
	return doc, true
}

func (r DeleteGoal) httpRequest() (string, string, any) {
	return "DELETE", "/api/dashboard/goals/" + r.ID, nil
}

// ---- income ----

type AddIncome struct {
	Income models.Income
}

func (r AddIncome) Validate() error { return validateIncome(r.Income) }

func (r AddIncome) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	in := r.Income
	in.ID = ""
	doc.Income = append(doc.Income, in)
	return doc, true
}

func (r AddIncome) httpRequest() (string, string, any) {
	return "POST", "/api/dashboard/income", r.Income
}

type UpdateIncome struct {
	ID     string
	Income models.Income
}

func (r UpdateIncome) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return validateIncome(r.Income)
}

func (r UpdateIncome) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	for i := range doc.Income {
		if doc.Income[i].ID != r.ID {
			continue
		}
		next := r.Income
		next.ID = r.ID
		if incomeEqual(doc.Income[i], next) {
			return doc, false
		}
		doc.Income[i] = next
		return doc, true
	}
	return doc, true
}

func (r UpdateIncome) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/income/" + r.ID, r.Income
}

type DeleteIncome struct {
	ID string
}

func (r DeleteIncome) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

func (r DeleteIncome) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	doc.RemoveEntry(models.ListIncome, r.ID)
	return doc, true
}

func (r DeleteIncome) httpRequest() (string, string, any) {
	return "DELETE", "/api/dashboard/income/" + r.ID, nil
}

// ---- accounts ----

type AddAccount struct {
	Account models.Account
}

func (r AddAccount) Validate() error { return validateAccount(r.Account) }

func (r AddAccount) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	a := r.Account
	a.ID = ""
	doc.Accounts = append(doc.Accounts, a)
	return doc, true
}

func (r AddAccount) httpRequest() (string, string, any) {
	return "POST", "/api/dashboard/accounts", r.Account
}

type UpdateAccount struct {
	ID      string
	Account models.Account
}

func (r UpdateAccount) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return validateAccount(r.Account)
}

func (r UpdateAccount) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	for i := range doc.Accounts {
		if doc.Accounts[i].ID != r.ID {
			continue
		}
		next := r.Account
		next.ID = r.ID
		next.CreatedAt = doc.Accounts[i].CreatedAt
		if accountEqual(doc.Accounts[i], next) {
			return doc, false
		}
		doc.Accounts[i] = next
		return doc, true
	}
	return doc, true
}

func (r UpdateAccount) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/accounts/" + r.ID, r.Account
}

type DeleteAccount struct {
	ID string
}

func (r DeleteAccount) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	return nil
}

func (r DeleteAccount) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	doc.RemoveEntry(models.ListAccounts, r.ID)
	return doc, true
}

func (r DeleteAccount) httpRequest() (string, string, any) {
	return "DELETE", "/api/dashboard/accounts/" + r.ID, nil
}

// ---- overview ----

type SetOverview struct {
	Overview models.Overview
}

func (r SetOverview) Validate() error { return nil }

func (r SetOverview) Patch(doc *models.Dashboard) (*models.Dashboard, bool) {
	if doc.Overview.TotalBalance.Equal(r.Overview.TotalBalance) &&
		doc.Overview.MonthlyChange.Equal(r.Overview.MonthlyChange) {
		return doc, false
	}
	doc.Overview = r.Overview
	return doc, true
}

func (r SetOverview) httpRequest() (string, string, any) {
	return "PUT", "/api/dashboard/overview", r.Overview
}

// ---- validation ----

func validDate(field, s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return &ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}
	return nil
}

func validateTransaction(t models.Transaction) error {
	if t.Company == "" {
		return &ValidationError{Field: "company", Reason: "required"}
	}
	if err := validDate("date", t.Date); err != nil {
		return err
	}
	if t.TransactionType != "income" && t.TransactionType != "expense" {
		return &ValidationError{Field: "transactionType", Reason: "must be income or expense"}
	}
	if !models.ValidCategory(t.Category) {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	return nil
}

func validateCharge(ch models.UpcomingCharge) error {
	if ch.Company == "" {
		return &ValidationError{Field: "company", Reason: "required"}
	}
	if err := validDate("date", ch.Date); err != nil {
		return err
	}
	if !models.ValidCategory(ch.Category) {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	return nil
}

func validateDebt(d models.Debt) error {
	if d.Company == "" {
		return &ValidationError{Field: "company", Reason: "required"}
	}
	if err := validDate("dueDate", d.DueDate); err != nil {
		return err
	}
	if d.CurrentPaid.IsNegative() {
		return &ValidationError{Field: "currentPaid", Reason: "must not be negative"}
	}
	if d.TotalAmount.IsNegative() {
		return &ValidationError{Field: "totalAmount", Reason: "must not be negative"}
	}
	return nil
}

func validateGoal(g models.Goal) error {
	if g.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	return validDate("targetDate", g.TargetDate)
}

func validateIncome(in models.Income) error {
	if in.Company == "" {
		return &ValidationError{Field: "company", Reason: "required"}
	}
	return nil
}

func validateAccount(a models.Account) error {
	switch a.Type {
	case "checking", "savings", "credit", "cash":
		return nil
	}
	return &ValidationError{Field: "type", Reason: "must be checking, savings, credit or cash"}
}

// ---- equality for short-circuiting no-op edits ----
// Money comparisons use decimal equality so 1.5 and 1.50 count as identical.

func transactionEqual(a, b models.Transaction) bool {
	return a.ID == b.ID && a.Date == b.Date && a.Company == b.Company &&
		a.Amount.Equal(b.Amount) && a.TransactionType == b.TransactionType &&
		a.Category == b.Category
}

func chargeEqual(a, b models.UpcomingCharge) bool {
	return a.ID == b.ID && a.Date == b.Date && a.Company == b.Company &&
		a.Amount.Equal(b.Amount) && a.Category == b.Category &&
		a.Recurring == b.Recurring
}

func debtEqual(a, b models.Debt) bool {
	return a.ID == b.ID && a.Company == b.Company &&
		a.CurrentPaid.Equal(b.CurrentPaid) && a.TotalAmount.Equal(b.TotalAmount) &&
		a.DueDate == b.DueDate
}

func goalEqual(a, b models.Goal) bool {
	return a.ID == b.ID && a.Title == b.Title && a.TargetDate == b.TargetDate &&
		a.CurrentAmount.Equal(b.CurrentAmount) && a.TargetAmount.Equal(b.TargetAmount)
}

func incomeEqual(a, b models.Income) bool {
	return a.ID == b.ID && a.Company == b.Company && a.Amount.Equal(b.Amount)
}

func accountEqual(a, b models.Account) bool {
	return a.ID == b.ID && a.Type == b.Type && a.Balance.Equal(b.Balance) &&
		a.CreatedAt.Equal(b.CreatedAt)
}
