package models

// Settlement represents a payment between group members to clear debts.
// Settlements are immutable; deleting one removes it from all balances.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// PayeeID is the user who received payment (creditor being paid).
	PayeeID string

	// Amount is the payment amount. Always positive.
	Amount float64

	// Description is an optional note. Defaults to "<payer> paid <payee>".
	Description string

	// SettledAt is the Unix timestamp when the settlement was recorded.
	SettledAt int64
}

// SettlementRole narrows a settlement listing to one side of the payment.
type SettlementRole string

const (
	RoleAny   SettlementRole = ""
	RolePayer SettlementRole = "payer"
	RolePayee SettlementRole = "payee"
)

// SettlementFilter selects settlements by the role a user played in them.
// A zero filter matches every settlement in the group.
type SettlementFilter struct {
	Role   SettlementRole
	UserID string
}

// Matches reports whether s passes the filter.
func (f SettlementFilter) Matches(s *Settlement) bool {
	if f.UserID == "" {
		return true
	}
	switch f.Role {
	case RolePayer:
		return s.PayerID == f.UserID
	case RolePayee:
		return s.PayeeID == f.UserID
	default:
		return s.PayerID == f.UserID || s.PayeeID == f.UserID
	}
}
