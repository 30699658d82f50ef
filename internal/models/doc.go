// Package models defines the core domain models for splitledger.
//
// # Persisted records
//
//   - User: a person who can join groups
//   - Group: a set of users sharing expenses, with Membership join records
//   - Expense: an amount paid by one member, owning its ExpenseSplit rows
//   - Settlement: a payment between two members that offsets balances
//
// # Derived views
//
// Balance, GroupBalance and UserBalance are computed on every query by the
// calculator package and are never stored.
//
// # Design Principles
//
//  1. IDs are UUID strings, relationships are ID fields rather than pointers
//  2. Timestamps are Unix seconds
//  3. Amounts are float64; comparisons use the tolerances defined here
package models
