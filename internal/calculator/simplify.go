package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/splitledger/internal/models"
)

// SuggestTransfers proposes payments that would bring every balance to zero.
//
// Debtors are matched against creditors greedily, largest amounts first
// (ties broken by user ID so the output is stable). Residues at or below
// models.AmountEpsilon are treated as settled.
func SuggestTransfers(balances []models.Balance) []models.Transfer {
	type position struct {
		userID string
		amount float64 // always positive
	}

	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.NetBalance > models.AmountEpsilon:
			creditors = append(creditors, position{b.UserID, b.NetBalance})
		case b.NetBalance < -models.AmountEpsilon:
			debtors = append(debtors, position{b.UserID, -b.NetBalance})
		}
	}

	byAmount := func(a, b position) int {
		if c := cmp.Compare(b.amount, a.amount); c != 0 {
			return c
		}
		return cmp.Compare(a.userID, b.userID)
	}
	slices.SortFunc(creditors, byAmount)
	slices.SortFunc(debtors, byAmount)

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := min(d.amount, c.amount)
		if amount > models.AmountEpsilon {
			transfers = append(transfers, models.Transfer{
				FromUserID: d.userID,
				ToUserID:   c.userID,
				Amount:     amount,
			})
		}

		d.amount -= amount
		c.amount -= amount

		if d.amount <= models.AmountEpsilon {
			i++
		}
		if c.amount <= models.AmountEpsilon {
			j++
		}
	}

	return transfers
}
