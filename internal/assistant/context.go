// Package assistant answers plain-language questions about the ledger.
//
// Answers come from a chain of Generators: an optional remote text
// generation backend first, then deterministic keyword rules that always
// produce a reply. Balances are computed with the same calculator the
// balance RPCs use.
package assistant

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Source is the read access the assistant needs. storage.Store satisfies it.
type Source interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	GroupSnapshot(ctx context.Context, groupID string) (*calculator.GroupSnapshot, error)
}

// Context is a point-in-time view of the ledger handed to generators.
type Context struct {
	Users    []*models.User
	Groups   []*models.Group
	Expenses []ExpenseView // newest first
	Totals   []UserTotal   // in user order
}

// ExpenseView is an expense with its payer and group resolved to names.
type ExpenseView struct {
	Description string
	Amount      float64
	PaidBy      string
	GroupName   string
	CreatedAt   int64
}

// UserTotal is a user's net balance summed over all of their groups.
type UserTotal struct {
	UserID string
	Name   string
	Net    float64
}

// LoadContext reads users, groups and every group's snapshot from src.
func LoadContext(ctx context.Context, src Source) (*Context, error) {
	users, err := src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	groups, err := src.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	net := make(map[string]float64, len(users))
	var expenses []ExpenseView
	for _, g := range groups {
		snap, err := src.GroupSnapshot(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load group %s: %w", g.ID, err)
		}
		for _, e := range snap.Expenses {
			expenses = append(expenses, ExpenseView{
				Description: e.Description,
				Amount:      e.Amount,
				PaidBy:      names[e.PaidBy],
				GroupName:   g.Name,
				CreatedAt:   e.CreatedAt,
			})
		}
		for _, b := range calculator.ComputeGroupBalances(snap).Balances {
			net[b.UserID] += b.NetBalance
		}
	}

	// Reversed insertion order breaks ties within the same second.
	slices.Reverse(expenses)
	slices.SortStableFunc(expenses, func(a, b ExpenseView) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})

	totals := make([]UserTotal, len(users))
	for i, u := range users {
		totals[i] = UserTotal{UserID: u.ID, Name: u.Name, Net: net[u.ID]}
	}

	return &Context{Users: users, Groups: groups, Expenses: expenses, Totals: totals}, nil
}

// Summary renders the context as short plain text for a remote model prompt.
func (c *Context) Summary() string {
	var b strings.Builder

	if len(c.Users) > 0 {
		names := make([]string, len(c.Users))
		for i, u := range c.Users {
			names[i] = u.Name
		}
		fmt.Fprintf(&b, "Users: %s\n", strings.Join(names, ", "))
	}

	if len(c.Groups) > 0 {
		info := make([]string, len(c.Groups))
		for i, g := range c.Groups {
			info[i] = fmt.Sprintf("%s (%d members)", g.Name, len(g.Members))
		}
		fmt.Fprintf(&b, "Groups: %s\n", strings.Join(info, ", "))
	}

	if len(c.Expenses) > 0 {
		var total float64
		for _, e := range c.Expenses {
			total += e.Amount
		}
		fmt.Fprintf(&b, "Total expenses: %d ($%.2f)\n", len(c.Expenses), total)

		recent := make([]string, 0, 3)
		for _, e := range c.Expenses[:min(3, len(c.Expenses))] {
			recent = append(recent, fmt.Sprintf("%s: $%.2f by %s", e.Description, e.Amount, e.PaidBy))
		}
		fmt.Fprintf(&b, "Recent: %s\n", strings.Join(recent, "; "))
	}

	var owing []string
	for _, t := range c.Totals {
		if t.Net < -models.AmountEpsilon {
			owing = append(owing, fmt.Sprintf("%s owes $%.2f", t.Name, -t.Net))
		}
	}
	if len(owing) > 0 {
		fmt.Fprintf(&b, "Balances: %s\n", strings.Join(owing, "; "))
	}

	return strings.TrimRight(b.String(), "\n")
}
