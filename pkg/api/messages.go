package api

// Users

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

type DeleteUserResponse struct{}

// Groups

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type AddMemberResponse struct {
	GroupID  string `json:"group_id"`
	UserID   string `json:"user_id"`
	JoinedAt int64  `json:"joined_at"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

// Expenses

type CreateExpenseRequest struct {
	GroupID     string       `json:"group_id"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	PaidBy      string       `json:"paid_by"`
	SplitType   string       `json:"split_type"`
	Splits      []SplitInput `json:"splits,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// UpdateExpenseRequest replaces the expense fields; the splits are always
// regenerated from SplitType and Splits.
type UpdateExpenseRequest struct {
	ExpenseID   string       `json:"expense_id"`
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	PaidBy      string       `json:"paid_by"`
	SplitType   string       `json:"split_type"`
	Splits      []SplitInput `json:"splits,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// Settlements

type CreateSettlementRequest struct {
	GroupID     string  `json:"group_id"`
	PayerID     string  `json:"payer_id"`
	PayeeID     string  `json:"payee_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

// ListSettlementsRequest filters a group's settlements. Role is "payer",
// "payee" or empty (either side) and only applies when UserID is set.
type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
	Role    string `json:"role,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

// Balances

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	GroupBalance *GroupBalance `json:"group_balance"`
}

type GetUserBalancesRequest struct {
	UserID string `json:"user_id"`
}

type GetUserBalancesResponse struct {
	UserBalance *UserBalance `json:"user_balance"`
}

type SuggestSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type SuggestSettlementsResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

// Assistant

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply and the generator that produced it.
type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}
