package api

// User is a registered person.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

// Member is a user as seen from inside a group.
type Member struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt int64  `json:"joined_at"`
}

// Group is a set of members sharing expenses.
// TotalExpenses is only filled by GetGroup.
type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Members       []Member `json:"members"`
	CreatedAt     int64    `json:"created_at"`
	TotalExpenses float64  `json:"total_expenses,omitempty"`
}

// Expense is an amount paid by one member and split between participants.
type Expense struct {
	ID          string         `json:"id"`
	GroupID     string         `json:"group_id"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	PaidBy      string         `json:"paid_by"`
	SplitType   string         `json:"split_type"`
	CreatedAt   int64          `json:"created_at"`
	Splits      []ExpenseSplit `json:"splits"`
}

// ExpenseSplit is one participant's portion of an expense.
type ExpenseSplit struct {
	UserID     string   `json:"user_id"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// SplitInput names a participant of a new or updated expense.
// Percentage is required for PERCENTAGE splits and ignored for EQUAL.
type SplitInput struct {
	UserID     string   `json:"user_id"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// Settlement is a payment between two group members.
type Settlement struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	PayerID     string  `json:"payer_id"`
	PayeeID     string  `json:"payee_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	SettledAt   int64   `json:"settled_at"`
}

// Balance is one member's position within a group.
type Balance struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	Owes       float64 `json:"owes"`
	Owed       float64 `json:"owed"`
	NetBalance float64 `json:"net_balance"`
}

// GroupBalance lists every member's balance in join order.
type GroupBalance struct {
	GroupID   string    `json:"group_id"`
	GroupName string    `json:"group_name"`
	Balances  []Balance `json:"balances"`
}

// UserBalance is a user's balance across all of their groups.
type UserBalance struct {
	UserID          string         `json:"user_id"`
	UserName        string         `json:"user_name"`
	GroupBalances   []GroupBalance `json:"group_balances"`
	TotalNetBalance float64        `json:"total_net_balance"`
}

// Transfer is a suggested payment that settles balances.
type Transfer struct {
	FromUserID string  `json:"from_user_id"`
	ToUserID   string  `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}
