package actions

import (
	"context"

	"github.com/carson-networks/cashflow-gateway/internal/remote"
)

type UpdateCashFlow struct {
	ID    int64
	Input remote.CashFlowInput
	IAction
}

func (u *UpdateCashFlow) Perform(ctx context.Context, writer CashFlowWriter) error {
	return writer.UpdateCashFlow(ctx, u.ID, u.Input)
}
