package calculator

import (
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func tripGroup(members ...string) models.Group {
	g := models.Group{ID: "trip", Name: "Trip"}
	for i, m := range members {
		g.Members = append(g.Members, models.Member{UserID: m, Name: m, JoinedAt: int64(i)})
	}
	return g
}

func equalExpense(t *testing.T, id, paidBy string, amount float64, members []string) models.Expense {
	t.Helper()
	splits, err := ComputeSplits(amount, models.SplitEqual, members, nil)
	if err != nil {
		t.Fatalf("ComputeSplits failed: %v", err)
	}
	for i := range splits {
		splits[i].ExpenseID = id
	}
	return models.Expense{
		ID:        id,
		GroupID:   "trip",
		PaidBy:    paidBy,
		Amount:    amount,
		SplitType: models.SplitEqual,
		Splits:    splits,
	}
}

func balanceOf(t *testing.T, gb models.GroupBalance, userID string) models.Balance {
	t.Helper()
	b, ok := gb.Find(userID)
	if !ok {
		t.Fatalf("no balance row for %s", userID)
	}
	return b
}

func assertClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func TestComputeGroupBalances_DinnerScenario(t *testing.T) {
	group := tripGroup("alice", "bob")
	snap := &GroupSnapshot{
		Group:    group,
		Expenses: []models.Expense{equalExpense(t, "dinner", "alice", 60, group.MemberIDs())},
	}

	gb := ComputeGroupBalances(snap)

	if gb.GroupID != "trip" || gb.GroupName != "Trip" {
		t.Errorf("group = %s/%s, want trip/Trip", gb.GroupID, gb.GroupName)
	}
	if len(gb.Balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(gb.Balances))
	}

	alice := balanceOf(t, gb, "alice")
	assertClose(t, "alice net", alice.NetBalance, 30)
	assertClose(t, "alice owed", alice.Owed, 30)
	assertClose(t, "alice owes", alice.Owes, 0)

	bob := balanceOf(t, gb, "bob")
	assertClose(t, "bob net", bob.NetBalance, -30)
	assertClose(t, "bob owes", bob.Owes, 30)
	assertClose(t, "bob owed", bob.Owed, 0)
}

func TestComputeGroupBalances_JoinOrder(t *testing.T) {
	group := tripGroup("zoe", "adam", "mia")
	gb := ComputeGroupBalances(&GroupSnapshot{Group: group})

	for i, want := range []string{"zoe", "adam", "mia"} {
		if gb.Balances[i].UserID != want {
			t.Errorf("balance %d = %s, want %s", i, gb.Balances[i].UserID, want)
		}
		if gb.Balances[i].NetBalance != 0 {
			t.Errorf("%s net = %v, want 0 with empty ledger", want, gb.Balances[i].NetBalance)
		}
	}
}

func TestComputeGroupBalances_SettlementOffsets(t *testing.T) {
	group := tripGroup("u1", "u2")
	snap := &GroupSnapshot{
		Group:    group,
		Expenses: []models.Expense{equalExpense(t, "e1", "u1", 100, group.MemberIDs())},
		Settlements: []models.Settlement{
			{ID: "s1", GroupID: "trip", PayerID: "u2", PayeeID: "u1", Amount: 50},
		},
	}

	gb := ComputeGroupBalances(snap)

	assertClose(t, "u1 net", balanceOf(t, gb, "u1").NetBalance, 0)
	assertClose(t, "u2 net", balanceOf(t, gb, "u2").NetBalance, 0)
}

func TestComputeGroupBalances_ClosedLedgerConservation(t *testing.T) {
	group := tripGroup("a", "b", "c")
	members := group.MemberIDs()

	pct := func(v float64) *float64 { return &v }
	snap := &GroupSnapshot{
		Group: group,
		Expenses: []models.Expense{
			equalExpense(t, "e1", "a", 100, members),
			equalExpense(t, "e2", "b", 45.5, members),
			{
				ID: "e3", GroupID: "trip", PaidBy: "c", Amount: 80, SplitType: models.SplitPercentage,
				Splits: []models.ExpenseSplit{
					{UserID: "a", Amount: 40, Percentage: pct(50)},
					{UserID: "b", Amount: 24, Percentage: pct(30)},
					{UserID: "c", Amount: 16, Percentage: pct(20)},
				},
			},
		},
	}

	sum := func(gb models.GroupBalance) float64 {
		var total float64
		for _, b := range gb.Balances {
			total += b.NetBalance
		}
		return total
	}

	open := ComputeGroupBalances(snap)
	assertClose(t, "sum of nets before settling", sum(open), 0)

	// Pay off every suggested transfer; the ledger must close at zero.
	for i, tr := range SuggestTransfers(open.Balances) {
		snap.Settlements = append(snap.Settlements, models.Settlement{
			ID: "s" + strconv.Itoa(i), GroupID: "trip", PayerID: tr.FromUserID, PayeeID: tr.ToUserID, Amount: tr.Amount,
		})
	}

	closed := ComputeGroupBalances(snap)
	assertClose(t, "sum of nets after settling", sum(closed), 0)
	for _, b := range closed.Balances {
		assertClose(t, b.UserID+" net after settling", b.NetBalance, 0)
	}
}

func TestComputeGroupBalances_Idempotent(t *testing.T) {
	group := tripGroup("a", "b", "c")
	snap := &GroupSnapshot{
		Group: group,
		Expenses: []models.Expense{
			equalExpense(t, "e1", "a", 10.1, group.MemberIDs()),
			equalExpense(t, "e2", "c", 0.3, group.MemberIDs()),
		},
		Settlements: []models.Settlement{{ID: "s1", GroupID: "trip", PayerID: "b", PayeeID: "a", Amount: 1.7}},
	}

	first := ComputeGroupBalances(snap)
	second := ComputeGroupBalances(snap)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between calls:\n%+v\n%+v", first, second)
	}
}

func TestComputeGroupBalances_OrderIndependent(t *testing.T) {
	group := tripGroup("a", "b", "c")
	members := group.MemberIDs()
	expenses := []models.Expense{
		equalExpense(t, "e1", "a", 0.1, members),
		equalExpense(t, "e2", "a", 0.2, members),
		equalExpense(t, "e3", "b", 0.7, members),
		equalExpense(t, "e4", "c", 1e6+0.3, members),
	}
	reversed := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		reversed[len(expenses)-1-i] = e
	}

	forward := ComputeGroupBalances(&GroupSnapshot{Group: group, Expenses: expenses})
	backward := ComputeGroupBalances(&GroupSnapshot{Group: group, Expenses: reversed})

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("balances depend on expense order:\n%+v\n%+v", forward, backward)
	}
}

// Clamping owes and owed independently can leave both positive. NetBalance is
// the only signed figure and is asserted on its own.
func TestComputeGroupBalances_ClampedPairBothPositive(t *testing.T) {
	group := tripGroup("a", "b")
	members := group.MemberIDs()
	snap := &GroupSnapshot{
		Group: group,
		Expenses: []models.Expense{
			equalExpense(t, "e1", "a", 100, members), // b owes a 50
			equalExpense(t, "e2", "b", 40, members),  // a owes b 20
		},
	}

	gb := ComputeGroupBalances(snap)

	a := balanceOf(t, gb, "a")
	assertClose(t, "a owes", a.Owes, 20)
	assertClose(t, "a owed", a.Owed, 50)
	assertClose(t, "a net", a.NetBalance, 30)

	b := balanceOf(t, gb, "b")
	assertClose(t, "b owes", b.Owes, 50)
	assertClose(t, "b owed", b.Owed, 20)
	assertClose(t, "b net", b.NetBalance, -30)
}

func TestComputeGroupBalances_OverpaidSettlementClampsOwes(t *testing.T) {
	group := tripGroup("a", "b")
	snap := &GroupSnapshot{
		Group:       group,
		Expenses:    []models.Expense{equalExpense(t, "e1", "a", 60, group.MemberIDs())},
		Settlements: []models.Settlement{{ID: "s1", GroupID: "trip", PayerID: "b", PayeeID: "a", Amount: 50}},
	}

	gb := ComputeGroupBalances(snap)

	b := balanceOf(t, gb, "b")
	assertClose(t, "b owes", b.Owes, 0) // 30 - 50 clamped
	assertClose(t, "b net", b.NetBalance, 20)

	a := balanceOf(t, gb, "a")
	assertClose(t, "a owed", a.Owed, 0) // 30 - 50 clamped
	assertClose(t, "a net", a.NetBalance, -20)
}

func TestComputeGroupBalances_IgnoresOtherGroups(t *testing.T) {
	group := tripGroup("a", "b")
	stray := equalExpense(t, "e9", "a", 500, group.MemberIDs())
	stray.GroupID = "elsewhere"

	gb := ComputeGroupBalances(&GroupSnapshot{
		Group:       group,
		Expenses:    []models.Expense{stray},
		Settlements: []models.Settlement{{GroupID: "elsewhere", PayerID: "b", PayeeID: "a", Amount: 10}},
	})

	for _, b := range gb.Balances {
		if b.NetBalance != 0 || b.Owes != 0 || b.Owed != 0 {
			t.Errorf("%s = %+v, want zero balance", b.UserID, b)
		}
	}
}

func TestComputeUserBalance(t *testing.T) {
	trip := tripGroup("alice", "bob")

	flat := models.Group{ID: "flat", Name: "Flat", Members: []models.Member{
		{UserID: "bob", Name: "bob"}, {UserID: "alice", Name: "alice"}, {UserID: "carol", Name: "carol"},
	}}

	rent := equalExpense(t, "rent", "bob", 90, flat.MemberIDs())
	rent.GroupID = "flat"

	unrelated := models.Group{ID: "work", Name: "Work", Members: []models.Member{{UserID: "carol", Name: "carol"}}}

	snaps := []*GroupSnapshot{
		{Group: trip, Expenses: []models.Expense{equalExpense(t, "dinner", "alice", 60, trip.MemberIDs())}},
		{Group: flat, Expenses: []models.Expense{rent}},
		{Group: unrelated},
	}

	ub := ComputeUserBalance(models.User{ID: "alice", Name: "Alice"}, snaps)

	if ub.UserID != "alice" || ub.UserName != "Alice" {
		t.Errorf("user = %s/%s", ub.UserID, ub.UserName)
	}
	if len(ub.GroupBalances) != 2 {
		t.Fatalf("expected 2 group balances (work skipped), got %d", len(ub.GroupBalances))
	}
	// +30 in trip, -30 in flat.
	assertClose(t, "total net", ub.TotalNetBalance, 0)

	bob := ComputeUserBalance(models.User{ID: "bob", Name: "Bob"}, snaps)
	// -30 in trip, +60 in flat.
	assertClose(t, "bob total net", bob.TotalNetBalance, 30)
}

func TestComputeUserBalance_NoGroups(t *testing.T) {
	ub := ComputeUserBalance(models.User{ID: "x", Name: "X"}, nil)
	if ub.GroupBalances == nil || len(ub.GroupBalances) != 0 {
		t.Errorf("expected empty non-nil group balances, got %#v", ub.GroupBalances)
	}
	if ub.TotalNetBalance != 0 {
		t.Errorf("total = %v, want 0", ub.TotalNetBalance)
	}
}
