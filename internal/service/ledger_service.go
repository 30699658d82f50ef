package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/assistant"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// Ensure LedgerService implements the Connect handler interface.
var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledger    *ledger.Service
	assistant *assistant.Assistant
}

// NewLedgerService creates a LedgerService. asst may be nil, in which case
// Chat reports the assistant as unavailable.
func NewLedgerService(l *ledger.Service, asst *assistant.Assistant) *LedgerService {
	return &LedgerService{ledger: l, assistant: asst}
}

// toConnectError maps ledger errors to Connect status codes.
func toConnectError(err error) *connect.Error {
	var (
		notFound   *models.NotFoundError
		validation *models.ValidationError
		split      *models.InvalidSplitError
		sum        *models.SplitSumError
		block      *models.ReferentialBlockError
	)
	switch {
	case errors.As(err, &notFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.As(err, &validation), errors.As(err, &split), errors.As(err, &sum):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &block):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// CreateUser registers a new user.
func (s *LedgerService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name)

	user, err := s.ledger.CreateUser(ctx, ledger.UserInput{Name: req.Msg.Name, Email: req.Msg.Email})
	if err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("User created", "user_id", user.ID)

	return connect.NewResponse(&api.CreateUserResponse{User: toAPIUser(user)}), nil
}

// GetUser retrieves a user by ID.
func (s *LedgerService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	slog.Info("GetUser request received", "user_id", req.Msg.UserID)

	user, err := s.ledger.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		slog.Error("GetUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetUserResponse{User: toAPIUser(user)}), nil
}

// ListUsers retrieves all users.
func (s *LedgerService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	slog.Info("ListUsers request received")

	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		return nil, toConnectError(err)
	}

	apiUsers := make([]*api.User, len(users))
	for i, u := range users {
		apiUsers[i] = toAPIUser(u)
	}

	slog.Info("ListUsers successful", "count", len(users))

	return connect.NewResponse(&api.ListUsersResponse{Users: apiUsers}), nil
}

// DeleteUser removes a user with no expenses in any of their groups.
func (s *LedgerService) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error) {
	slog.Info("DeleteUser request received", "user_id", req.Msg.UserID)

	if err := s.ledger.DeleteUser(ctx, req.Msg.UserID); err != nil {
		slog.Error("DeleteUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("User deleted", "user_id", req.Msg.UserID)

	return connect.NewResponse(&api.DeleteUserResponse{}), nil
}

// CreateGroup creates a new group with its initial members.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	group, err := s.ledger.CreateGroup(ctx, ledger.GroupInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		MemberIDs:   req.Msg.MemberIDs,
	})
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group with its members and expense total.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	details, err := s.ledger.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", details.ID, "name", details.Name)

	group := toAPIGroup(&details.Group)
	group.TotalExpenses = details.TotalExpenses
	return connect.NewResponse(&api.GetGroupResponse{Group: group}), nil
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.ledger.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, g := range groups {
		apiGroups[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// AddMember adds an existing user to a group.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	m, err := s.ledger.AddMember(ctx, req.Msg.GroupID, req.Msg.UserID)
	if err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", m.GroupID, "user_id", m.UserID)

	return connect.NewResponse(&api.AddMemberResponse{
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		JoinedAt: m.JoinedAt,
	}), nil
}

// DeleteGroup removes a group with no expenses.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.ledger.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}
