package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestSuggestTransfers(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.Balance
		want     []models.Transfer
	}{
		{
			name: "single debtor and creditor",
			balances: []models.Balance{
				{UserID: "alice", NetBalance: 30},
				{UserID: "bob", NetBalance: -30},
			},
			want: []models.Transfer{{FromUserID: "bob", ToUserID: "alice", Amount: 30}},
		},
		{
			name: "one creditor, two debtors, largest first",
			balances: []models.Balance{
				{UserID: "alice", NetBalance: 60},
				{UserID: "bob", NetBalance: -20},
				{UserID: "carol", NetBalance: -40},
			},
			want: []models.Transfer{
				{FromUserID: "carol", ToUserID: "alice", Amount: 40},
				{FromUserID: "bob", ToUserID: "alice", Amount: 20},
			},
		},
		{
			name: "debtor split across creditors",
			balances: []models.Balance{
				{UserID: "alice", NetBalance: 25},
				{UserID: "bob", NetBalance: 25},
				{UserID: "carol", NetBalance: -50},
			},
			want: []models.Transfer{
				{FromUserID: "carol", ToUserID: "alice", Amount: 25},
				{FromUserID: "carol", ToUserID: "bob", Amount: 25},
			},
		},
		{
			name: "noise below epsilon ignored",
			balances: []models.Balance{
				{UserID: "alice", NetBalance: 0.004},
				{UserID: "bob", NetBalance: -0.004},
			},
			want: nil,
		},
		{
			name:     "empty",
			balances: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTransfers(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].FromUserID != tt.want[i].FromUserID || got[i].ToUserID != tt.want[i].ToUserID {
					t.Errorf("transfer %d = %s->%s, want %s->%s", i,
						got[i].FromUserID, got[i].ToUserID, tt.want[i].FromUserID, tt.want[i].ToUserID)
				}
				if math.Abs(got[i].Amount-tt.want[i].Amount) > 0.01 {
					t.Errorf("transfer %d amount = %v, want %v", i, got[i].Amount, tt.want[i].Amount)
				}
			}
		})
	}
}
