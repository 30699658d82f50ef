package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func mustCreateGroup(t *testing.T, store *SQLiteStore, name string, members ...*models.User) *models.Group {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	group := &models.Group{Name: name}
	if err := store.CreateGroup(context.Background(), group, ids); err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", name, err)
	}
	return group
}

func mustCreateExpense(t *testing.T, store *SQLiteStore, group *models.Group, paidBy *models.User, amount float64) *models.Expense {
	t.Helper()
	per := amount / float64(len(group.Members))
	expense := &models.Expense{
		Description: "Dinner",
		Amount:      amount,
		GroupID:     group.ID,
		PaidBy:      paidBy.ID,
		SplitType:   models.SplitEqual,
	}
	for _, m := range group.Members {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{UserID: m.UserID, Amount: per})
	}
	if err := store.CreateExpense(context.Background(), expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return expense
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")
	carol := mustCreateUser(t, store, "carol")

	t.Run("CreateUser generates ID and CreatedAt", func(t *testing.T) {
		if alice.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if alice.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Name: "Alice Again", Email: alice.Email})
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("GetUser returns NotFoundError", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nonexistent-id")
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Expected NotFoundError, got %v", err)
		}
		if nf.Entity != "user" {
			t.Errorf("Entity = %s, want user", nf.Entity)
		}
	})

	t.Run("CreateGroup keeps members in join order", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Trip", carol, alice, bob, alice)

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{carol.ID, alice.ID, bob.ID}
		got := retrieved.MemberIDs()
		if len(got) != len(want) {
			t.Fatalf("Members count mismatch: got %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Member %d = %s, want %s", i, got[i], want[i])
			}
		}
		if retrieved.Members[0].Name != "carol" {
			t.Errorf("Member name = %s, want carol", retrieved.Members[0].Name)
		}
	})

	t.Run("CreateGroup with unknown member writes nothing", func(t *testing.T) {
		group := &models.Group{Name: "Ghosts"}
		err := store.CreateGroup(ctx, group, []string{alice.ID, "ghost"})
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Expected NotFoundError, got %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); err == nil {
			t.Error("Expected group to be rolled back")
		}
	})

	t.Run("AddMember rejects existing member", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Flat", alice)

		m, err := store.AddMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if m.GroupID != group.ID || m.UserID != bob.ID {
			t.Errorf("Membership = %+v", m)
		}

		_, err = store.AddMember(ctx, group.ID, bob.ID)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}

		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 || members[1].UserID != bob.ID {
			t.Errorf("Members = %+v, want alice then bob", members)
		}
	})

	t.Run("CreateExpense round-trips splits in order", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Dinner Club", alice, bob)
		pct := 70.0
		pct2 := 30.0
		expense := &models.Expense{
			Description: "Sushi",
			Amount:      100,
			GroupID:     group.ID,
			PaidBy:      bob.ID,
			SplitType:   models.SplitPercentage,
			Splits: []models.ExpenseSplit{
				{UserID: bob.ID, Amount: 70, Percentage: &pct},
				{UserID: alice.ID, Amount: 30, Percentage: &pct2},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.SplitType != models.SplitPercentage {
			t.Errorf("SplitType = %s, want PERCENTAGE", retrieved.SplitType)
		}
		if len(retrieved.Splits) != 2 {
			t.Fatalf("Splits count = %d, want 2", len(retrieved.Splits))
		}
		if retrieved.Splits[0].UserID != bob.ID || retrieved.Splits[1].UserID != alice.ID {
			t.Errorf("Split order = %s, %s", retrieved.Splits[0].UserID, retrieved.Splits[1].UserID)
		}
		if retrieved.Splits[0].Percentage == nil || *retrieved.Splits[0].Percentage != 70 {
			t.Errorf("Percentage = %v, want 70", retrieved.Splits[0].Percentage)
		}
	})

	t.Run("CreateExpense with bad split rolls back", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Rollback", alice, bob)
		expense := &models.Expense{
			Description: "Broken",
			Amount:      10,
			GroupID:     group.ID,
			PaidBy:      alice.ID,
			SplitType:   models.SplitEqual,
			Splits: []models.ExpenseSplit{
				{UserID: alice.ID, Amount: 5},
				{UserID: alice.ID, Amount: 5}, // duplicate primary key
			},
		}
		if err := store.CreateExpense(ctx, expense); err == nil {
			t.Fatal("Expected error for duplicate split")
		}

		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected no expenses after rollback, got %d", len(expenses))
		}
	})

	t.Run("ReplaceExpense swaps the whole split set", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Replace", alice, bob, carol)
		expense := mustCreateExpense(t, store, group, alice, 90)

		expense.Amount = 40
		expense.Description = "Lunch"
		expense.PaidBy = bob.ID
		expense.Splits = []models.ExpenseSplit{
			{UserID: bob.ID, Amount: 20},
			{UserID: carol.ID, Amount: 20},
		}
		if err := store.ReplaceExpense(ctx, expense); err != nil {
			t.Fatalf("ReplaceExpense failed: %v", err)
		}

		splits, err := store.ListSplits(ctx, expense.ID)
		if err != nil {
			t.Fatalf("ListSplits failed: %v", err)
		}
		if len(splits) != 2 {
			t.Fatalf("Splits count = %d, want 2", len(splits))
		}
		for _, s := range splits {
			if s.UserID == alice.ID {
				t.Error("Old split for alice survived replacement")
			}
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Amount != 40 || retrieved.PaidBy != bob.ID || retrieved.Description != "Lunch" {
			t.Errorf("Expense not updated: %+v", retrieved)
		}
	})

	t.Run("ReplaceExpense returns NotFoundError", func(t *testing.T) {
		err := store.ReplaceExpense(ctx, &models.Expense{ID: "missing", Amount: 1, SplitType: models.SplitEqual})
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("DeleteExpense removes splits", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Delete", alice, bob)
		expense := mustCreateExpense(t, store, group, alice, 10)

		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		splits, err := store.ListSplits(ctx, expense.ID)
		if err != nil {
			t.Fatalf("ListSplits failed: %v", err)
		}
		if len(splits) != 0 {
			t.Errorf("Expected splits to be deleted, got %d", len(splits))
		}

		err = store.DeleteExpense(ctx, expense.ID)
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("Expected NotFoundError on second delete, got %v", err)
		}
	})

	t.Run("ListSettlements filters by role", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Settle", alice, bob, carol)
		for _, s := range []*models.Settlement{
			{GroupID: group.ID, PayerID: bob.ID, PayeeID: alice.ID, Amount: 10},
			{GroupID: group.ID, PayerID: carol.ID, PayeeID: alice.ID, Amount: 5},
			{GroupID: group.ID, PayerID: alice.ID, PayeeID: bob.ID, Amount: 2, Description: "change"},
		} {
			if err := store.CreateSettlement(ctx, s); err != nil {
				t.Fatalf("CreateSettlement failed: %v", err)
			}
		}

		tests := []struct {
			filter models.SettlementFilter
			want   int
		}{
			{models.SettlementFilter{}, 3},
			{models.SettlementFilter{Role: models.RolePayee, UserID: alice.ID}, 2},
			{models.SettlementFilter{Role: models.RolePayer, UserID: alice.ID}, 1},
			{models.SettlementFilter{UserID: bob.ID}, 2},
		}
		for _, tt := range tests {
			got, err := store.ListSettlements(ctx, group.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListSettlements failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListSettlements(%+v) = %d, want %d", tt.filter, len(got), tt.want)
			}
		}
	})

	t.Run("DeleteSettlement", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Undo", alice, bob)
		s := &models.Settlement{GroupID: group.ID, PayerID: bob.ID, PayeeID: alice.ID, Amount: 3}
		if err := store.CreateSettlement(ctx, s); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		if err := store.DeleteSettlement(ctx, s.ID); err != nil {
			t.Fatalf("DeleteSettlement failed: %v", err)
		}
		_, err := store.GetSettlement(ctx, s.ID)
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("Expected NotFoundError after delete, got %v", err)
		}
	})

	t.Run("GroupSnapshot collects the whole ledger", func(t *testing.T) {
		group := mustCreateGroup(t, store, "Snapshot", alice, bob)
		mustCreateExpense(t, store, group, alice, 60)
		mustCreateExpense(t, store, group, bob, 20)
		if err := store.CreateSettlement(ctx, &models.Settlement{
			GroupID: group.ID, PayerID: bob.ID, PayeeID: alice.ID, Amount: 20,
		}); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		snap, err := store.GroupSnapshot(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupSnapshot failed: %v", err)
		}
		if len(snap.Group.Members) != 2 {
			t.Errorf("Members = %d, want 2", len(snap.Group.Members))
		}
		if len(snap.Expenses) != 2 {
			t.Fatalf("Expenses = %d, want 2", len(snap.Expenses))
		}
		for _, e := range snap.Expenses {
			if len(e.Splits) != 2 {
				t.Errorf("Expense %s splits = %d, want 2", e.ID, len(e.Splits))
			}
		}
		if snap.Expenses[0].Amount != 60 {
			t.Errorf("Expenses not in creation order: first amount = %v", snap.Expenses[0].Amount)
		}
		if len(snap.Settlements) != 1 {
			t.Errorf("Settlements = %d, want 1", len(snap.Settlements))
		}

		total, err := store.GroupTotalExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupTotalExpenses failed: %v", err)
		}
		if total != 80 {
			t.Errorf("Total = %v, want 80", total)
		}
	})

	t.Run("GroupSnapshot of missing group", func(t *testing.T) {
		_, err := store.GroupSnapshot(ctx, "missing")
		var nf *models.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("Expected NotFoundError, got %v", err)
		}
	})
}

func TestDeletionGuards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")
	dave := mustCreateUser(t, store, "dave")

	busy := mustCreateGroup(t, store, "Busy", alice, bob)
	mustCreateExpense(t, store, busy, alice, 30)
	idle := mustCreateGroup(t, store, "Idle", bob, dave)

	t.Run("group with expenses is blocked", func(t *testing.T) {
		err := store.DeleteGroup(ctx, busy.ID)
		var block *models.ReferentialBlockError
		if !errors.As(err, &block) {
			t.Fatalf("Expected ReferentialBlockError, got %v", err)
		}
		if block.Count != 1 || block.Name != "Busy" {
			t.Errorf("Block = %+v", block)
		}
	})

	t.Run("user in group with expenses is blocked", func(t *testing.T) {
		err := store.DeleteUser(ctx, bob.ID)
		var block *models.ReferentialBlockError
		if !errors.As(err, &block) {
			t.Fatalf("Expected ReferentialBlockError, got %v", err)
		}
		if block.Scope != "Busy" {
			t.Errorf("Scope = %q, want Busy", block.Scope)
		}
	})

	t.Run("user outside expense groups is deleted", func(t *testing.T) {
		if err := store.CreateSettlement(ctx, &models.Settlement{
			GroupID: idle.ID, PayerID: dave.ID, PayeeID: bob.ID, Amount: 1,
		}); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		if err := store.DeleteUser(ctx, dave.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		memberships, err := store.ListMemberships(ctx, dave.ID)
		if err != nil {
			t.Fatalf("ListMemberships failed: %v", err)
		}
		if len(memberships) != 0 {
			t.Errorf("Expected memberships to be removed, got %d", len(memberships))
		}
	})

	t.Run("group without expenses is deleted with memberships", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, idle.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		memberships, err := store.ListMemberships(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListMemberships failed: %v", err)
		}
		for _, m := range memberships {
			if m.GroupID == idle.ID {
				t.Error("Membership of deleted group survived")
			}
		}
		var nf *models.NotFoundError
		if _, err := store.GetGroup(ctx, idle.ID); !errors.As(err, &nf) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("missing group", func(t *testing.T) {
		var nf *models.NotFoundError
		if err := store.DeleteGroup(ctx, "missing"); !errors.As(err, &nf) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})
}
