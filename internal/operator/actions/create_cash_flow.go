package actions

import (
	"context"

	"github.com/carson-networks/cashflow-gateway/internal/remote"
)

type CreateCashFlow struct {
	Input remote.CashFlowInput

	// CreatedID is set by Perform when the API reports the new id.
	CreatedID int64
	IAction
}

func (c *CreateCashFlow) Perform(ctx context.Context, writer CashFlowWriter) error {
	id, err := writer.CreateCashFlow(ctx, c.Input)
	if err != nil {
		return err
	}

	c.CreatedID = id
	return nil
}
