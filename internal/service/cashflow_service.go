package service

import (
	"context"
	"time"

	"github.com/carson-networks/cashflow-gateway/internal/cache"
	"github.com/carson-networks/cashflow-gateway/internal/operator/actions"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
)

const labelsKey = "labels"

// CashFlowService reads entries straight from the remote API and routes
// every mutation through the action queue.
type CashFlowService struct {
	api       CashFlowAPI
	processor ActionProcessor
	labels    *cache.LRUCache[[]string]
}

func NewCashFlowService(api CashFlowAPI, processor ActionProcessor, labelTTL time.Duration) *CashFlowService {
	return &CashFlowService{
		api:       api,
		processor: processor,
		labels:    cache.NewLRUCache[[]string](1, labelTTL),
	}
}

func (s *CashFlowService) List(ctx context.Context, filter ListFilter) (*remote.CashFlowList, error) {
	remoteFilter, err := filter.validate()
	if err != nil {
		return nil, err
	}
	return s.api.ListCashFlows(ctx, remoteFilter)
}

func (s *CashFlowService) Get(ctx context.Context, id int64) (*remote.CashFlow, error) {
	if id <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"id": "must be positive"}}
	}
	return s.api.GetCashFlow(ctx, id)
}

// Labels returns the distinct labels, cached for the configured TTL.
func (s *CashFlowService) Labels(ctx context.Context) ([]string, error) {
	if labels, ok := s.labels.Get(labelsKey); ok {
		return labels, nil
	}

	labels, err := s.api.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	s.labels.Set(labelsKey, labels)
	return labels, nil
}

func (s *CashFlowService) InvalidateLabels() {
	s.labels.Purge()
}

// Create validates form and queues the creation. It returns the new id when
// the API reports one.
func (s *CashFlowService) Create(ctx context.Context, form CashFlowForm) (int64, error) {
	in, err := form.validate()
	if err != nil {
		return 0, err
	}

	action := &actions.CreateCashFlow{Input: in}
	if err := s.processor.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.CreatedID, nil
}

func (s *CashFlowService) Update(ctx context.Context, id int64, form CashFlowForm) error {
	in, err := form.validate()
	if err != nil {
		return err
	}
	if id <= 0 {
		return &ValidationError{Fields: map[string]string{"id": "must be positive"}}
	}

	return s.processor.Process(ctx, &actions.UpdateCashFlow{ID: id, Input: in})
}

func (s *CashFlowService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &ValidationError{Fields: map[string]string{"id": "must be positive"}}
	}
	return s.processor.Process(ctx, &actions.DeleteCashFlow{ID: id})
}
