package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Share is a caller-supplied split participant.
// Percentage is only read for percentage splits.
type Share struct {
	UserID     string
	Percentage float64
}

var hundred = decimal.NewFromInt(100)

// ComputeSplits divides amount between participants according to splitType.
//
// members is the group's current membership in join order. For equal splits
// the participants are the explicit shares when given, otherwise every
// member. For percentage splits the shares are required and must sum to 100
// within models.PercentTolerance.
//
// Amounts are percentage/100 × amount (or amount/count) with no rounding
// reconciliation: the last-cent drift stays where it falls.
func ComputeSplits(amount float64, splitType models.SplitType, members []string, shares []Share) ([]models.ExpenseSplit, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	switch splitType {
	case models.SplitEqual:
		return equalSplits(amount, members, shares, memberSet)
	case models.SplitPercentage:
		return percentageSplits(amount, shares, memberSet)
	default:
		return nil, &models.ValidationError{Field: "split_type", Reason: fmt.Sprintf("unknown split type %q", splitType)}
	}
}

func equalSplits(amount float64, members []string, shares []Share, memberSet map[string]bool) ([]models.ExpenseSplit, error) {
	participants := members
	explicit := len(shares) > 0
	if explicit {
		participants = make([]string, 0, len(shares))
		seen := make(map[string]bool, len(shares))
		for _, sh := range shares {
			if err := checkParticipant(sh.UserID, memberSet, seen); err != nil {
				return nil, err
			}
			participants = append(participants, sh.UserID)
		}
	}

	if len(participants) == 0 {
		return nil, &models.InvalidSplitError{Reason: "no participants to split between"}
	}

	count := float64(len(participants))
	perPerson := amount / count

	splits := make([]models.ExpenseSplit, len(participants))
	for i, userID := range participants {
		splits[i] = models.ExpenseSplit{UserID: userID, Amount: perPerson}
		if explicit {
			pct := 100.0 / count
			splits[i].Percentage = &pct
		}
	}
	return splits, nil
}

func percentageSplits(amount float64, shares []Share, memberSet map[string]bool) ([]models.ExpenseSplit, error) {
	if len(shares) == 0 {
		return nil, &models.InvalidSplitError{Reason: "percentage splits must be provided for percentage split type"}
	}

	seen := make(map[string]bool, len(shares))
	sum := decimal.Zero
	for _, sh := range shares {
		if err := checkParticipant(sh.UserID, memberSet, seen); err != nil {
			return nil, err
		}
		if math.IsNaN(sh.Percentage) || sh.Percentage < 0 {
			return nil, &models.InvalidSplitError{UserID: sh.UserID, Reason: "percentage must not be negative"}
		}
		sum = sum.Add(decimal.NewFromFloat(sh.Percentage))
	}

	if sum.Sub(hundred).Abs().GreaterThan(decimal.NewFromFloat(models.PercentTolerance)) {
		return nil, &models.SplitSumError{Sum: sum.InexactFloat64()}
	}

	splits := make([]models.ExpenseSplit, len(shares))
	for i, sh := range shares {
		pct := sh.Percentage
		splits[i] = models.ExpenseSplit{
			UserID:     sh.UserID,
			Amount:     pct / 100.0 * amount,
			Percentage: &pct,
		}
	}
	return splits, nil
}

// checkParticipant rejects non-members and repeated users.
func checkParticipant(userID string, memberSet, seen map[string]bool) error {
	if userID == "" {
		return &models.InvalidSplitError{Reason: "participant user_id is required"}
	}
	if !memberSet[userID] {
		return &models.InvalidSplitError{UserID: userID, Reason: "user is not a member of this group"}
	}
	if seen[userID] {
		return &models.InvalidSplitError{UserID: userID, Reason: "user listed more than once"}
	}
	seen[userID] = true
	return nil
}
