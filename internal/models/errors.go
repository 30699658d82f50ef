package models

import "fmt"

// Tolerances used across the ledger.
const (
	// PercentTolerance is the allowed absolute drift of a percentage split sum from 100.
	PercentTolerance = 0.01

	// AmountEpsilon is the residue below which an amount is treated as zero.
	AmountEpsilon = 0.01
)

// NotFoundError reports a missing user, group, expense or settlement.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ValidationError reports input that can never succeed as given: a
// non-member payer, a self-settlement, a non-positive amount.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidSplitError reports a split set that cannot be applied to the group,
// e.g. a participant who is not a member or an empty participant list.
type InvalidSplitError struct {
	UserID string
	Reason string
}

func (e *InvalidSplitError) Error() string {
	if e.UserID == "" {
		return fmt.Sprintf("invalid split: %s", e.Reason)
	}
	return fmt.Sprintf("invalid split for user %s: %s", e.UserID, e.Reason)
}

// SplitSumError reports percentages that do not add up to 100.
type SplitSumError struct {
	Sum float64
}

func (e *SplitSumError) Error() string {
	return fmt.Sprintf("percentages must sum to 100, got %.2f", e.Sum)
}

// ReferentialBlockError reports a deletion refused because expenses exist in scope.
type ReferentialBlockError struct {
	Entity string
	Name   string
	// Scope names the group holding the expenses when it differs from the
	// entity being deleted (user deletion).
	Scope string
	// Count is the number of expenses blocking the deletion.
	Count int
}

func (e *ReferentialBlockError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("cannot delete %s %q: group %q has %d expense(s)", e.Entity, e.Name, e.Scope, e.Count)
	}
	return fmt.Sprintf("cannot delete %s %q: %d expense(s) recorded", e.Entity, e.Name, e.Count)
}
