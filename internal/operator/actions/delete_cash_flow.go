package actions

import (
	"context"
)

type DeleteCashFlow struct {
	ID int64
	IAction
}

func (d *DeleteCashFlow) Perform(ctx context.Context, writer CashFlowWriter) error {
	return writer.DeleteCashFlow(ctx, d.ID)
}
