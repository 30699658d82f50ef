package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			JoinedAt: m.JoinedAt,
		}
	}
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     members,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.ExpenseSplit{
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitType:   string(e.SplitType),
		CreatedAt:   e.CreatedAt,
		Splits:      splits,
	}
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:          s.ID,
		GroupID:     s.GroupID,
		PayerID:     s.PayerID,
		PayeeID:     s.PayeeID,
		Amount:      s.Amount,
		Description: s.Description,
		SettledAt:   s.SettledAt,
	}
}

func toAPIGroupBalance(gb *models.GroupBalance) *api.GroupBalance {
	balances := make([]api.Balance, len(gb.Balances))
	for i, b := range gb.Balances {
		balances[i] = api.Balance{
			UserID:     b.UserID,
			UserName:   b.UserName,
			Owes:       b.Owes,
			Owed:       b.Owed,
			NetBalance: b.NetBalance,
		}
	}
	return &api.GroupBalance{
		GroupID:   gb.GroupID,
		GroupName: gb.GroupName,
		Balances:  balances,
	}
}

func toAPIUserBalance(ub *models.UserBalance) *api.UserBalance {
	groups := make([]api.GroupBalance, len(ub.GroupBalances))
	for i := range ub.GroupBalances {
		groups[i] = *toAPIGroupBalance(&ub.GroupBalances[i])
	}
	return &api.UserBalance{
		UserID:          ub.UserID,
		UserName:        ub.UserName,
		GroupBalances:   groups,
		TotalNetBalance: ub.TotalNetBalance,
	}
}

// toShares converts wire split inputs. A missing percentage reads as 0,
// which the percentage policy rejects through the sum check.
func toShares(in []api.SplitInput) []calculator.Share {
	if len(in) == 0 {
		return nil
	}
	shares := make([]calculator.Share, len(in))
	for i, s := range in {
		shares[i] = calculator.Share{UserID: s.UserID}
		if s.Percentage != nil {
			shares[i].Percentage = *s.Percentage
		}
	}
	return shares
}
