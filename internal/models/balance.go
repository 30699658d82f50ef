package models

// Balance is one member's position within a group.
//
// NetBalance is the signed truth: positive means the member is owed money,
// negative means they owe money. Owes and Owed are clamped at zero for
// display and can both be positive at once.
type Balance struct {
	UserID     string
	UserName   string
	Owes       float64
	Owed       float64
	NetBalance float64
}

// GroupBalance holds the balances of every member of a group, in join order.
type GroupBalance struct {
	GroupID   string
	GroupName string
	Balances  []Balance
}

// Find returns the balance row for userID.
func (g *GroupBalance) Find(userID string) (Balance, bool) {
	for _, b := range g.Balances {
		if b.UserID == userID {
			return b, true
		}
	}
	return Balance{}, false
}

// UserBalance aggregates a user's balances across all of their groups.
type UserBalance struct {
	UserID          string
	UserName        string
	GroupBalances   []GroupBalance
	TotalNetBalance float64
}

// Transfer is a suggested payment that moves balances towards zero.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     float64
}
