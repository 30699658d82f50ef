package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ComputeUserBalance rolls the user's row of each group's balances into a
// cross-group summary. Groups whose computed balances have no row for the
// user are skipped.
func ComputeUserBalance(user models.User, groups []*GroupSnapshot) models.UserBalance {
	result := models.UserBalance{
		UserID:        user.ID,
		UserName:      user.Name,
		GroupBalances: make([]models.GroupBalance, 0, len(groups)),
	}

	total := decimal.Zero
	for _, snap := range groups {
		gb := ComputeGroupBalances(snap)
		row, ok := gb.Find(user.ID)
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(row.NetBalance))
		result.GroupBalances = append(result.GroupBalances, gb)
	}
	result.TotalNetBalance = total.InexactFloat64()

	return result
}
