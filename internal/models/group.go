package models

// Group represents a set of users sharing expenses.
//
// A group with at least one recorded expense can no longer be deleted.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Trip", "Roommates").
	Name string

	// Description is an optional free-form note.
	Description string

	// Members is the list of members in join order.
	// Populated by reads; ignored on create (member IDs are passed separately).
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is a user as seen through a group membership.
type Member struct {
	UserID   string
	Name     string
	Email    string
	JoinedAt int64
}

// Membership is the join record authorizing a user to pay for, or take part
// in, a group's expenses. (GroupID, UserID) is unique.
type Membership struct {
	GroupID  string
	UserID   string
	JoinedAt int64
}

// GroupDetails is a group together with the sum of its expense amounts.
type GroupDetails struct {
	Group
	TotalExpenses float64
}

// MemberIDs returns the user IDs of the group's members in join order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Member returns the member with the given user ID.
func (g *Group) Member(userID string) (Member, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}
