package operator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashflow-gateway/internal/operator/actions"
)

// CommitHook runs after an action succeeds, before its caller is answered.
type CommitHook func(ctx context.Context, action actions.IAction)

// Operator is the worker that processes items from the queue.
type Operator struct {
	writer   actions.CashFlowWriter
	queue    chan ActionItem
	onCommit CommitHook
	logger   *logrus.Logger
}

func NewOperator(writer actions.CashFlowWriter, queue chan ActionItem, onCommit CommitHook, logger *logrus.Logger) *Operator {
	return &Operator{
		writer:   writer,
		queue:    queue,
		onCommit: onCommit,
		logger:   logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// The caller stopped waiting; do not mutate on its behalf.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err := item.action.Perform(item.ctx, o.writer)
	if err != nil {
		o.logger.WithError(err).WithField("action", actionName(item.action)).Warn("Operator.Perform.Error")
		item.response <- ActionItemResponse{err: err}
		return
	}

	if o.onCommit != nil {
		o.onCommit(item.ctx, item.action)
	}

	item.response <- ActionItemResponse{}
}

func actionName(action actions.IAction) string {
	switch action.(type) {
	case *actions.CreateCashFlow:
		return "CreateCashFlow"
	case *actions.UpdateCashFlow:
		return "UpdateCashFlow"
	case *actions.DeleteCashFlow:
		return "DeleteCashFlow"
	}
	return "Unknown"
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
