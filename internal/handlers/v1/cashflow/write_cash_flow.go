package cashflow

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
	"github.com/carson-networks/cashflow-gateway/internal/service"
)

// CashFlowBody is the request body for creating or updating an entry.
type CashFlowBody struct {
	Type        string `json:"type" required:"true" doc:"inflow or outflow"`
	Source      string `json:"source" required:"true" doc:"cash, savings or loans"`
	Label       string `json:"label" required:"true" doc:"Category label"`
	Description string `json:"description,omitempty" doc:"Optional description"`
	Nominal     string `json:"nominal" required:"true" doc:"Decimal amount greater than zero"`
}

type CreateCashFlowInput struct {
	Body CashFlowBody
}

type CreateCashFlowResponse struct {
	ID int64 `json:"id,omitempty" doc:"New entry id, when the remote API reports one"`
}

type CreateCashFlowOutput struct {
	Status int
	Body   CreateCashFlowResponse
}

type UpdateCashFlowInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Remote entry id"`
	Body CashFlowBody
}

type WriteCashFlowOutput struct {
	Status int
}

// parseCashFlowBody converts the body into a service form. Field rules are
// checked by the service; only the amount's syntax is checked here.
func parseCashFlowBody(body CashFlowBody) (service.CashFlowForm, error) {
	nominal, err := decimal.NewFromString(body.Nominal)
	if err != nil {
		return service.CashFlowForm{}, huma.NewError(http.StatusBadRequest, "invalid nominal", err)
	}
	return service.CashFlowForm{
		Type:        body.Type,
		Source:      body.Source,
		Label:       body.Label,
		Description: body.Description,
		Nominal:     nominal,
	}, nil
}

func (h *Handler) registerCreate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-cash-flow",
		Method:        http.MethodPost,
		Path:          "/v1/cash-flows",
		Summary:       "Create cash flow",
		Description:   "Records a new inflow or outflow.",
		Tags:          []string{"CashFlows"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
}

func (h *Handler) registerUpdate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "update-cash-flow",
		Method:        http.MethodPut,
		Path:          "/v1/cash-flows/{id}",
		Summary:       "Update cash flow",
		Description:   "Replaces an entry's fields.",
		Tags:          []string{"CashFlows"},
		DefaultStatus: http.StatusNoContent,
	}, h.update)
}

func (h *Handler) registerDelete(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-cash-flow",
		Method:        http.MethodDelete,
		Path:          "/v1/cash-flows/{id}",
		Summary:       "Delete cash flow",
		Description:   "Deletes an entry.",
		Tags:          []string{"CashFlows"},
		DefaultStatus: http.StatusNoContent,
	}, h.remove)
}

func (h *Handler) create(ctx context.Context, input *CreateCashFlowInput) (*CreateCashFlowOutput, error) {
	form, err := parseCashFlowBody(input.Body)
	if err != nil {
		return nil, err
	}

	id, err := h.CashFlowService.Create(ctx, form)
	if err != nil {
		return nil, apierr.From(err, "failed to create cash flow")
	}

	return &CreateCashFlowOutput{
		Status: http.StatusCreated,
		Body:   CreateCashFlowResponse{ID: id},
	}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateCashFlowInput) (*WriteCashFlowOutput, error) {
	form, err := parseCashFlowBody(input.Body)
	if err != nil {
		return nil, err
	}

	if err := h.CashFlowService.Update(ctx, input.ID, form); err != nil {
		return nil, apierr.From(err, "failed to update cash flow")
	}
	return &WriteCashFlowOutput{Status: http.StatusNoContent}, nil
}

func (h *Handler) remove(ctx context.Context, input *CashFlowIDInput) (*WriteCashFlowOutput, error) {
	if err := h.CashFlowService.Delete(ctx, input.ID); err != nil {
		return nil, apierr.From(err, "failed to delete cash flow")
	}
	return &WriteCashFlowOutput{Status: http.StatusNoContent}, nil
}
