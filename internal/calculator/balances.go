package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// GroupSnapshot is an immutable, read-only view of one group's ledger:
// the group with its members in join order, every expense with its splits,
// and every settlement. The store builds it inside a single read transaction.
type GroupSnapshot struct {
	Group       models.Group
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// tally accumulates one member's raw sums for a group.
type tally struct {
	owes     decimal.Decimal // all of the member's split amounts
	paid     decimal.Decimal // amounts of expenses the member paid
	ownShare decimal.Decimal // the member's splits on expenses they paid
	made     decimal.Decimal // settlements paid by the member
	received decimal.Decimal // settlements received by the member
}

// ComputeGroupBalances computes every member's position in the group.
//
// For each member u:
//
//	owed_to_user  = total_paid - own_share_of_paid
//	adjusted_owes = (total_owes - own_share_of_paid) - settlements_made
//	adjusted_owed = owed_to_user - settlements_received
//	net_balance   = adjusted_owed - adjusted_owes
//
// Owes and Owed are clamped at zero; NetBalance is not. Sums are exact
// decimal additions of the stored floats so the result does not depend on
// record order. The snapshot is not modified.
func ComputeGroupBalances(snap *GroupSnapshot) models.GroupBalance {
	groupID := snap.Group.ID
	tallies := make(map[string]*tally, len(snap.Group.Members))
	for _, m := range snap.Group.Members {
		tallies[m.UserID] = &tally{}
	}

	for i := range snap.Expenses {
		e := &snap.Expenses[i]
		if e.GroupID != "" && e.GroupID != groupID {
			continue
		}
		if t, ok := tallies[e.PaidBy]; ok {
			t.paid = t.paid.Add(decimal.NewFromFloat(e.Amount))
		}
		for _, s := range e.Splits {
			t, ok := tallies[s.UserID]
			if !ok {
				continue
			}
			amt := decimal.NewFromFloat(s.Amount)
			t.owes = t.owes.Add(amt)
			if s.UserID == e.PaidBy {
				t.ownShare = t.ownShare.Add(amt)
			}
		}
	}

	for i := range snap.Settlements {
		s := &snap.Settlements[i]
		if s.GroupID != "" && s.GroupID != groupID {
			continue
		}
		amt := decimal.NewFromFloat(s.Amount)
		if t, ok := tallies[s.PayerID]; ok {
			t.made = t.made.Add(amt)
		}
		if t, ok := tallies[s.PayeeID]; ok {
			t.received = t.received.Add(amt)
		}
	}

	balances := make([]models.Balance, 0, len(snap.Group.Members))
	for _, m := range snap.Group.Members {
		t := tallies[m.UserID]

		owedToUser := t.paid.Sub(t.ownShare)
		adjustedOwes := t.owes.Sub(t.ownShare).Sub(t.made)
		adjustedOwed := owedToUser.Sub(t.received)
		net := adjustedOwed.Sub(adjustedOwes)

		balances = append(balances, models.Balance{
			UserID:     m.UserID,
			UserName:   m.Name,
			Owes:       decimal.Max(decimal.Zero, adjustedOwes).InexactFloat64(),
			Owed:       decimal.Max(decimal.Zero, adjustedOwed).InexactFloat64(),
			NetBalance: net.InexactFloat64(),
		})
	}

	return models.GroupBalance{
		GroupID:   groupID,
		GroupName: snap.Group.Name,
		Balances:  balances,
	}
}
