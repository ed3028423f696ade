package models

import "time"

// Dashboard is the aggregate document: one per user, holding every
// sub-collection the dashboard displays. JSON and BSON field names are kept
// identical so the list names used in URLs map directly onto document fields.
type Dashboard struct {
	UserID          string           `bson:"user_id" json:"-"`
	Overview        Overview         `bson:"overview" json:"overview"`
	Accounts        []Account        `bson:"accounts" json:"accounts"`
	Transactions    []Transaction    `bson:"transactions" json:"transactions"`
	UpcomingCharges []UpcomingCharge `bson:"upcomingCharges" json:"upcomingCharges"`
	Debts           []Debt           `bson:"debts" json:"debts"`
	Goals           []Goal           `bson:"goals" json:"goals"`
	Income          []Income         `bson:"income" json:"income"`
}

type Overview struct {
	TotalBalance  Money `bson:"totalBalance" json:"totalBalance"`
	MonthlyChange Money `bson:"monthlyChange" json:"monthlyChange"`
}

type Account struct {
	ID        string    `bson:"id" json:"id"`
	Type      string    `bson:"type" json:"type" binding:"required,oneof=checking savings credit cash"`
	Balance   Money     `bson:"balance" json:"balance"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Transaction struct {
	ID              string `bson:"id" json:"id"`
	Date            string `bson:"date" json:"date" binding:"required,datetime=2006-01-02"`
	Company         string `bson:"company" json:"company" binding:"required"`
	Amount          Money  `bson:"amount" json:"amount"`
	TransactionType string `bson:"transactionType" json:"transactionType" binding:"required,oneof=income expense"`
	Category        string `bson:"category" json:"category" binding:"required"`
}

type UpcomingCharge struct {
	ID        string `bson:"id" json:"id"`
	Date      string `bson:"date" json:"date" binding:"required,datetime=2006-01-02"`
	Company   string `bson:"company" json:"company" binding:"required"`
	Amount    Money  `bson:"amount" json:"amount"`
	Category  string `bson:"category" json:"category" binding:"required"`
	Recurring bool   `bson:"recurring" json:"recurring"`
}

type Debt struct {
	ID          string `bson:"id" json:"id"`
	Company     string `bson:"company" json:"company" binding:"required"`
	CurrentPaid Money  `bson:"currentPaid" json:"currentPaid"`
	TotalAmount Money  `bson:"totalAmount" json:"totalAmount"`
	DueDate     string `bson:"dueDate" json:"dueDate" binding:"required,datetime=2006-01-02"`
}

type Goal struct {
	ID            string `bson:"id" json:"id"`
	Title         string `bson:"title" json:"title" binding:"required"`
	TargetDate    string `bson:"targetDate" json:"targetDate" binding:"required,datetime=2006-01-02"`
	CurrentAmount Money  `bson:"currentAmount" json:"currentAmount"`
	TargetAmount  Money  `bson:"targetAmount" json:"targetAmount"`
}

type Income struct {
	ID      string `bson:"id" json:"id"`
	Company string `bson:"company" json:"company" binding:"required"`
	Amount  Money  `bson:"amount" json:"amount"`
}

// List names as they appear in URLs and in the aggregate document.
const (
	ListAccounts        = "accounts"
	ListTransactions    = "transactions"
	ListUpcomingCharges = "upcomingCharges"
	ListDebts           = "debts"
	ListGoals           = "goals"
	ListIncome          = "income"
)

// Categories accepted for transactions and upcoming charges.
var Categories = []string{
	"housing", "food", "transport", "utilities", "entertainment",
	"subscriptions", "health", "salary", "other",
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func KnownList(name string) bool {
	switch name {
	case ListAccounts, ListTransactions, ListUpcomingCharges, ListDebts, ListGoals, ListIncome:
		return true
	}
	return false
}

// Entry is one element of an aggregate sub-collection. Ids are assigned by
// the store on creation and never change afterwards.
type Entry interface {
	EntryID() string
	SetEntryID(id string)
}

func (a *Account) EntryID() string             { return a.ID }
func (a *Account) SetEntryID(id string)        { a.ID = id }
func (t *Transaction) EntryID() string         { return t.ID }
func (t *Transaction) SetEntryID(id string)    { t.ID = id }
func (u *UpcomingCharge) EntryID() string      { return u.ID }
func (u *UpcomingCharge) SetEntryID(id string) { u.ID = id }
func (d *Debt) EntryID() string                { return d.ID }
func (d *Debt) SetEntryID(id string)           { d.ID = id }
func (g *Goal) EntryID() string                { return g.ID }
func (g *Goal) SetEntryID(id string)           { g.ID = id }
func (i *Income) EntryID() string              { return i.ID }
func (i *Income) SetEntryID(id string)         { i.ID = id }

// NewEntryForList returns a zero entry of the right shape for a list, used to
// decode request bodies.
func NewEntryForList(list string) (Entry, bool) {
	switch list {
	case ListAccounts:
		return &Account{}, true
	case ListTransactions:
		return &Transaction{}, true
	case ListUpcomingCharges:
		return &UpcomingCharge{}, true
	case ListDebts:
		return &Debt{}, true
	case ListGoals:
		return &Goal{}, true
	case ListIncome:
		return &Income{}, true
	}
	return nil, false
}

// NewDashboard returns an empty aggregate for a freshly signed-up user. The
// slices are non-nil so the document always serializes lists as [].
func NewDashboard(userID string) *Dashboard {
	return &Dashboard{
		UserID:          userID,
		Accounts:        []Account{},
		Transactions:    []Transaction{},
		UpcomingCharges: []UpcomingCharge{},
		Debts:           []Debt{},
		Goals:           []Goal{},
		Income:          []Income{},
	}
}

// Clone deep-copies the aggregate. Entries hold only value fields, so copying
// the slices is enough.
func (d *Dashboard) Clone() *Dashboard {
	c := *d
	c.Accounts = append([]Account{}, d.Accounts...)
	c.Transactions = append([]Transaction{}, d.Transactions...)
	c.UpcomingCharges = append([]UpcomingCharge{}, d.UpcomingCharges...)
	c.Debts = append([]Debt{}, d.Debts...)
	c.Goals = append([]Goal{}, d.Goals...)
	c.Income = append([]Income{}, d.Income...)
	return &c
}

// ListAny returns the named sub-collection as a JSON-serializable value.
func (d *Dashboard) ListAny(list string) (any, bool) {
	switch list {
	case ListAccounts:
		return d.Accounts, true
	case ListTransactions:
		return d.Transactions, true
	case ListUpcomingCharges:
		return d.UpcomingCharges, true
	case ListDebts:
		return d.Debts, true
	case ListGoals:
		return d.Goals, true
	case ListIncome:
		return d.Income, true
	}
	return nil, false
}

// Append adds an entry to the named list. The entry must be the pointer type
// NewEntryForList returns for that list.
func (d *Dashboard) Append(list string, e Entry) bool {
	switch list {
	case ListAccounts:
		v, ok := e.(*Account)
		if !ok {
			return false
		}
		d.Accounts = append(d.Accounts, *v)
	case ListTransactions:
		v, ok := e.(*Transaction)
		if !ok {
			return false
		}
		d.Transactions = append(d.Transactions, *v)
	case ListUpcomingCharges:
		v, ok := e.(*UpcomingCharge)
		if !ok {
			return false
		}
		d.UpcomingCharges = append(d.UpcomingCharges, *v)
	case ListDebts:
		v, ok := e.(*Debt)
		if !ok {
			return false
		}
		d.Debts = append(d.Debts, *v)
	case ListGoals:
		v, ok := e.(*Goal)
		if !ok {
			return false
		}
		d.Goals = append(d.Goals, *v)
	case ListIncome:
		v, ok := e.(*Income)
		if !ok {
			return false
		}
		d.Income = append(d.Income, *v)
	default:
		return false
	}
	return true
}

// ReplaceEntry overwrites the entry with the given id, keeping the id itself.
// Returns false when no entry matches.
func (d *Dashboard) ReplaceEntry(list, id string, e Entry) bool {
	e.SetEntryID(id)
	switch list {
	case ListAccounts:
		v, ok := e.(*Account)
		if !ok {
			return false
		}
		for i := range d.Accounts {
			if d.Accounts[i].ID == id {
				d.Accounts[i] = *v
				return true
			}
		}
	case ListTransactions:
		v, ok := e.(*Transaction)
		if !ok {
			return false
		}
		for i := range d.Transactions {
			if d.Transactions[i].ID == id {
				d.Transactions[i] = *v
				return true
			}
		}
	case ListUpcomingCharges:
		v, ok := e.(*UpcomingCharge)
		if !ok {
			return false
		}
		for i := range d.UpcomingCharges {
			if d.UpcomingCharges[i].ID == id {
				d.UpcomingCharges[i] = *v
				return true
			}
		}
	case ListDebts:
		v, ok := e.(*Debt)
		if !ok {
			return false
		}
		for i := range d.Debts {
			if d.Debts[i].ID == id {
				d.Debts[i] = *v
				return true
			}
		}
	case ListGoals:
		v, ok := e.(*Goal)
		if !ok {
			return false
		}
		for i := range d.Goals {
			if d.Goals[i].ID == id {
				d.Goals[i] = *v
				return true
			}
		}
	case ListIncome:
		v, ok := e.(*Income)
		if !ok {
			return false
		}
		for i := range d.Income {
			if d.Income[i].ID == id {
				d.Income[i] = *v
				return true
			}
		}
	}
	return false
}

// RemoveEntry deletes the entry with the given id. Returns false when no
// entry matches.
func (d *Dashboard) RemoveEntry(list, id string) bool {
	switch list {
	case ListAccounts:
		for i := range d.Accounts {
			if d.Accounts[i].ID == id {
				d.Accounts = append(d.Accounts[:i], d.Accounts[i+1:]...)
				return true
			}
		}
	case ListTransactions:
		for i := range d.Transactions {
			if d.Transactions[i].ID == id {
				d.Transactions = append(d.Transactions[:i], d.Transactions[i+1:]...)
				return true
			}
		}
	case ListUpcomingCharges:
		for i := range d.UpcomingCharges {
			if d.UpcomingCharges[i].ID == id {
				d.UpcomingCharges = append(d.UpcomingCharges[:i], d.UpcomingCharges[i+1:]...)
				return true
			}
		}
	case ListDebts:
		for i := range d.Debts {
			if d.Debts[i].ID == id {
				d.Debts = append(d.Debts[:i], d.Debts[i+1:]...)
				return true
			}
		}
	case ListGoals:
		for i := range d.Goals {
			if d.Goals[i].ID == id {
				d.Goals = append(d.Goals[:i], d.Goals[i+1:]...)
				return true
			}
		}
	case ListIncome:
		for i := range d.Income {
			if d.Income[i].ID == id {
				d.Income = append(d.Income[:i], d.Income[i+1:]...)
				return true
			}
		}
	}
	return false
}
