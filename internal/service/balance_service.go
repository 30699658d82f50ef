package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// GetGroupBalances computes every member's balance in a group.
func (s *LedgerService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	balance, err := s.ledger.GroupBalances(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", balance.GroupID,
		"members_count", len(balance.Balances),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{GroupBalance: toAPIGroupBalance(balance)}), nil
}

// GetUserBalances computes a user's balances across all of their groups.
func (s *LedgerService) GetUserBalances(ctx context.Context, req *connect.Request[api.GetUserBalancesRequest]) (*connect.Response[api.GetUserBalancesResponse], error) {
	slog.Info("GetUserBalances request received", "user_id", req.Msg.UserID)

	balance, err := s.ledger.UserBalances(ctx, req.Msg.UserID)
	if err != nil {
		slog.Error("GetUserBalances failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetUserBalances successful",
		"user_id", balance.UserID,
		"groups_count", len(balance.GroupBalances),
		"total_net_balance", balance.TotalNetBalance,
	)

	return connect.NewResponse(&api.GetUserBalancesResponse{UserBalance: toAPIUserBalance(balance)}), nil
}

// SuggestSettlements proposes transfers that settle a group.
func (s *LedgerService) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	slog.Info("SuggestSettlements request received", "group_id", req.Msg.GroupID)

	transfers, err := s.ledger.SuggestSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("SuggestSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiTransfers := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		apiTransfers[i] = &api.Transfer{FromUserID: t.FromUserID, ToUserID: t.ToUserID, Amount: t.Amount}
	}

	return connect.NewResponse(&api.SuggestSettlementsResponse{Transfers: apiTransfers}), nil
}

// Chat answers a plain-language question about the ledger.
func (s *LedgerService) Chat(ctx context.Context, req *connect.Request[api.ChatRequest]) (*connect.Response[api.ChatResponse], error) {
	slog.Info("Chat request received", "message_length", len(req.Msg.Message))

	if s.assistant == nil {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("assistant is not configured"))
	}

	reply, err := s.assistant.Ask(ctx, req.Msg.Message)
	if err != nil {
		slog.Error("Chat failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Chat successful", "source", reply.Source)

	return connect.NewResponse(&api.ChatResponse{Reply: reply.Text, Source: reply.Source}), nil
}
