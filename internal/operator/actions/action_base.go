package actions

import (
	"context"

	"github.com/carson-networks/cashflow-gateway/internal/remote"
)

// CashFlowWriter is the mutating half of the remote cash-flow API.
type CashFlowWriter interface {
	CreateCashFlow(ctx context.Context, in remote.CashFlowInput) (int64, error)
	UpdateCashFlow(ctx context.Context, id int64, in remote.CashFlowInput) error
	DeleteCashFlow(ctx context.Context, id int64) error
}

type IAction interface {
	Perform(ctx context.Context, writer CashFlowWriter) error
}
