package models

import (
	"fmt"
	"strings"
)

// SplitType selects how an expense amount is divided between participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly between participants.
	SplitEqual SplitType = "EQUAL"

	// SplitPercentage divides the amount by caller-supplied percentages.
	SplitPercentage SplitType = "PERCENTAGE"
)

// ParseSplitType accepts "EQUAL" and "PERCENTAGE" in any letter case.
func ParseSplitType(s string) (SplitType, error) {
	switch SplitType(strings.ToUpper(strings.TrimSpace(s))) {
	case SplitEqual:
		return SplitEqual, nil
	case SplitPercentage:
		return SplitPercentage, nil
	default:
		return "", &ValidationError{Field: "split_type", Reason: fmt.Sprintf("unknown split type %q", s)}
	}
}

// Expense represents an amount paid by one group member on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// Amount is the total paid. Always positive.
	Amount float64

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// SplitType is the policy used to generate Splits.
	SplitType SplitType

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Splits are the per-user owed amounts. They sum to Amount.
	// Splits are always written and replaced as a whole with the expense.
	Splits []ExpenseSplit
}

// ExpenseSplit is one participant's portion of an expense.
type ExpenseSplit struct {
	ExpenseID string
	UserID    string

	// Amount is what this user owes for the expense.
	Amount float64

	// Percentage is set for percentage splits and for equal splits over an
	// explicit participant list. Nil otherwise.
	Percentage *float64
}

// SplitTotal returns the sum of the split amounts.
func (e *Expense) SplitTotal() float64 {
	var total float64
	for _, s := range e.Splits {
		total += s.Amount
	}
	return total
}
