// Package apiconnect wires the LedgerService messages from package api to
// Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, in the form "/<service>/<method>".
const (
	LedgerServiceCreateUserProcedure         = "/" + LedgerServiceName + "/CreateUser"
	LedgerServiceGetUserProcedure            = "/" + LedgerServiceName + "/GetUser"
	LedgerServiceListUsersProcedure          = "/" + LedgerServiceName + "/ListUsers"
	LedgerServiceDeleteUserProcedure         = "/" + LedgerServiceName + "/DeleteUser"
	LedgerServiceCreateGroupProcedure        = "/" + LedgerServiceName + "/CreateGroup"
	LedgerServiceGetGroupProcedure           = "/" + LedgerServiceName + "/GetGroup"
	LedgerServiceListGroupsProcedure         = "/" + LedgerServiceName + "/ListGroups"
	LedgerServiceAddMemberProcedure          = "/" + LedgerServiceName + "/AddMember"
	LedgerServiceDeleteGroupProcedure        = "/" + LedgerServiceName + "/DeleteGroup"
	LedgerServiceCreateExpenseProcedure      = "/" + LedgerServiceName + "/CreateExpense"
	LedgerServiceGetExpenseProcedure         = "/" + LedgerServiceName + "/GetExpense"
	LedgerServiceUpdateExpenseProcedure      = "/" + LedgerServiceName + "/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure      = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerServiceListExpensesProcedure       = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceCreateSettlementProcedure   = "/" + LedgerServiceName + "/CreateSettlement"
	LedgerServiceListSettlementsProcedure    = "/" + LedgerServiceName + "/ListSettlements"
	LedgerServiceDeleteSettlementProcedure   = "/" + LedgerServiceName + "/DeleteSettlement"
	LedgerServiceGetGroupBalancesProcedure   = "/" + LedgerServiceName + "/GetGroupBalances"
	LedgerServiceGetUserBalancesProcedure    = "/" + LedgerServiceName + "/GetUserBalances"
	LedgerServiceSuggestSettlementsProcedure = "/" + LedgerServiceName + "/SuggestSettlements"
	LedgerServiceChatProcedure               = "/" + LedgerServiceName + "/Chat"
)

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	DeleteUser(context.Context, *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetUserBalances(context.Context, *connect.Request[api.GetUserBalancesRequest]) (*connect.Response[api.GetUserBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error)
	Chat(context.Context, *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler serving every LedgerService
// procedure. It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateUserProcedure, connect.NewUnaryHandler(LedgerServiceCreateUserProcedure, svc.CreateUser, opts...))
	mux.Handle(LedgerServiceGetUserProcedure, connect.NewUnaryHandler(LedgerServiceGetUserProcedure, svc.GetUser, opts...))
	mux.Handle(LedgerServiceListUsersProcedure, connect.NewUnaryHandler(LedgerServiceListUsersProcedure, svc.ListUsers, opts...))
	mux.Handle(LedgerServiceDeleteUserProcedure, connect.NewUnaryHandler(LedgerServiceDeleteUserProcedure, svc.DeleteUser, opts...))
	mux.Handle(LedgerServiceCreateGroupProcedure, connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(LedgerServiceGetGroupProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(LedgerServiceListGroupsProcedure, connect.NewUnaryHandler(LedgerServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(LedgerServiceAddMemberProcedure, connect.NewUnaryHandler(LedgerServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(LedgerServiceDeleteGroupProcedure, connect.NewUnaryHandler(LedgerServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(LedgerServiceCreateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(LedgerServiceGetExpenseProcedure, connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(LedgerServiceUpdateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(LedgerServiceDeleteExpenseProcedure, connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceCreateSettlementProcedure, connect.NewUnaryHandler(LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts...))
	mux.Handle(LedgerServiceListSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(LedgerServiceDeleteSettlementProcedure, connect.NewUnaryHandler(LedgerServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...))
	mux.Handle(LedgerServiceGetGroupBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...))
	mux.Handle(LedgerServiceGetUserBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetUserBalancesProcedure, svc.GetUserBalances, opts...))
	mux.Handle(LedgerServiceSuggestSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceSuggestSettlementsProcedure, svc.SuggestSettlements, opts...))
	mux.Handle(LedgerServiceChatProcedure, connect.NewUnaryHandler(LedgerServiceChatProcedure, svc.Chat, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a typed client for LedgerService.
type LedgerServiceClient interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	DeleteUser(context.Context, *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetUserBalances(context.Context, *connect.Request[api.GetUserBalancesRequest]) (*connect.Response[api.GetUserBalancesResponse], error)
	SuggestSettlements(context.Context, *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error)
	Chat(context.Context, *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error)
}

type ledgerServiceClient struct {
	createUser         *connect.Client[api.CreateUserRequest, api.CreateUserResponse]
	getUser            *connect.Client[api.GetUserRequest, api.GetUserResponse]
	listUsers          *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	deleteUser         *connect.Client[api.DeleteUserRequest, api.DeleteUserResponse]
	createGroup        *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup           *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups         *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	addMember          *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	deleteGroup        *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	createExpense      *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense         *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	updateExpense      *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense      *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses       *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	createSettlement   *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	listSettlements    *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	deleteSettlement   *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
	getGroupBalances   *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getUserBalances    *connect.Client[api.GetUserBalancesRequest, api.GetUserBalancesResponse]
	suggestSettlements *connect.Client[api.SuggestSettlementsRequest, api.SuggestSettlementsResponse]
	chat               *connect.Client[api.ChatRequest, api.ChatResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService served at
// baseURL (e.g. "http://localhost:8080"). Requests use the JSON codec.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	return &ledgerServiceClient{
		createUser:         connect.NewClient[api.CreateUserRequest, api.CreateUserResponse](httpClient, baseURL+LedgerServiceCreateUserProcedure, opts...),
		getUser:            connect.NewClient[api.GetUserRequest, api.GetUserResponse](httpClient, baseURL+LedgerServiceGetUserProcedure, opts...),
		listUsers:          connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+LedgerServiceListUsersProcedure, opts...),
		deleteUser:         connect.NewClient[api.DeleteUserRequest, api.DeleteUserResponse](httpClient, baseURL+LedgerServiceDeleteUserProcedure, opts...),
		createGroup:        connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		getGroup:           connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		listGroups:         connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+LedgerServiceListGroupsProcedure, opts...),
		addMember:          connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+LedgerServiceAddMemberProcedure, opts...),
		deleteGroup:        connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+LedgerServiceDeleteGroupProcedure, opts...),
		createExpense:      connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		getExpense:         connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		updateExpense:      connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:      connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		createSettlement:   connect.NewClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL+LedgerServiceCreateSettlementProcedure, opts...),
		listSettlements:    connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		deleteSettlement:   connect.NewClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+LedgerServiceDeleteSettlementProcedure, opts...),
		getGroupBalances:   connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+LedgerServiceGetGroupBalancesProcedure, opts...),
		getUserBalances:    connect.NewClient[api.GetUserBalancesRequest, api.GetUserBalancesResponse](httpClient, baseURL+LedgerServiceGetUserBalancesProcedure, opts...),
		suggestSettlements: connect.NewClient[api.SuggestSettlementsRequest, api.SuggestSettlementsResponse](httpClient, baseURL+LedgerServiceSuggestSettlementsProcedure, opts...),
		chat:               connect.NewClient[api.ChatRequest, api.ChatResponse](httpClient, baseURL+LedgerServiceChatProcedure, opts...),
	}
}

func (c *ledgerServiceClient) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error) {
	return c.deleteUser.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUserBalances(ctx context.Context, req *connect.Request[api.GetUserBalancesRequest]) (*connect.Response[api.GetUserBalancesResponse], error) {
	return c.getUserBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	return c.suggestSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) Chat(ctx context.Context, req *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error) {
	return c.chat.CallUnary(ctx, req)
}
