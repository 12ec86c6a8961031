// SPDX-License-Identifier: MIT

// Package bridge maps JSON action requests onto backend model operations and
// reshapes the results into uniform response envelopes.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wizsmith/odoo-bridge/internal/log"
)

// Executor runs one backend model operation. Satisfied by *odoo.Session;
// tests substitute a fake.
type Executor interface {
	ExecuteKw(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error)
}

// ErrUnexpectedPayload marks a backend response whose shape does not match
// the invoked operation.
var ErrUnexpectedPayload = errors.New("bridge: unexpected backend payload")

// ActionNames lists the supported actions in their documented order.
var ActionNames = []string{
	"search_customer",
	"get_customer",
	"create_lead",
	"list_leads",
	"update_lead_stage",
	"search_products",
	"get_lead_stages",
}

type actionFunc func(ctx context.Context, req Request, exec Executor) (any, error)

var actions = map[string]actionFunc{
	"search_customer":   searchCustomer,
	"get_customer":      getCustomer,
	"create_lead":       createLead,
	"list_leads":        listLeads,
	"update_lead_stage": updateLeadStage,
	"search_products":   searchProducts,
	"get_lead_stages":   getLeadStages,
}

// Fixed field sets requested from the backend per action.
var (
	customerSearchFields = []string{"id", "name", "email", "phone", "mobile", "street", "city", "country_id"}
	customerReadFields   = []string{"id", "name", "email", "phone", "street", "city", "zip", "country_id", "website"}
	leadListFields       = []string{"id", "name", "contact_name", "phone", "email", "stage_id", "expected_revenue", "create_date"}
	productSearchFields  = []string{"id", "name", "list_price", "qty_available", "default_code"}
	stageFields          = []string{"id", "name", "sequence"}
)

// Dispatch routes one request to its action handler. Handled outcomes
// (success, validation failure, unknown action) come back as an envelope with
// a nil error; a non-nil error means the backend call itself failed and the
// caller turns it into a 500.
func Dispatch(ctx context.Context, req Request, exec Executor) (any, error) {
	logger := log.WithComponentFromContext(ctx, "bridge")

	fn, ok := actions[req.Action]
	if !ok {
		logger.Warn().
			Str(log.FieldEvent, "dispatch.unknown_action").
			Str(log.FieldAction, req.Action).
			Msg("unknown action requested")
		// Unknown names are client input; a fixed label avoids cardinality blowup.
		observeDispatch("unknown", "unknown")
		return Failure{
			Success:          false,
			Error:            fmt.Sprintf("Unknown action: %s", req.Action),
			AvailableActions: ActionNames,
		}, nil
	}

	out, err := fn(ctx, req, exec)
	switch {
	case err != nil:
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "dispatch.failed").
			Str(log.FieldAction, req.Action).
			Msg("action failed")
		observeDispatch(req.Action, "error")
	case isFailure(out):
		observeDispatch(req.Action, "validation_failed")
	default:
		logger.Debug().
			Str(log.FieldEvent, "dispatch.handled").
			Str(log.FieldAction, req.Action).
			Msg("action handled")
		observeDispatch(req.Action, "success")
	}
	return out, err
}

func isFailure(out any) bool {
	_, ok := out.(Failure)
	return ok
}

func searchCustomer(ctx context.Context, req Request, exec Executor) (any, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return fail("Phone number is required"), nil
	}

	domain := []any{
		"|",
		[]any{"phone", "ilike", phone},
		[]any{"mobile", "ilike", phone},
	}
	raw, err := exec.ExecuteKw(ctx, "res.partner", "search_read",
		[]any{domain},
		map[string]any{"fields": customerSearchFields, "limit": 5},
	)
	if err != nil {
		return nil, err
	}
	customers, err := asRecords(raw)
	if err != nil {
		return nil, err
	}

	return CustomerSearchResult{
		Success:   true,
		Action:    "search_customer",
		Count:     len(customers),
		Customers: customers,
	}, nil
}

func getCustomer(ctx context.Context, req Request, exec Executor) (any, error) {
	id, err := coerceID(req.CustomerID, "customer_id")
	if err != nil {
		return fail(err.Error()), nil
	}
	if id == 0 {
		return fail("customer_id is required"), nil
	}

	raw, err := exec.ExecuteKw(ctx, "res.partner", "read",
		[]any{[]any{id}},
		map[string]any{"fields": customerReadFields},
	)
	if err != nil {
		return nil, err
	}
	records, err := asRecords(raw)
	if err != nil {
		return nil, err
	}

	var customer Record
	if len(records) > 0 {
		customer = records[0]
	}
	return CustomerResult{
		Success:  true,
		Action:   "get_customer",
		Customer: customer,
	}, nil
}

func createLead(ctx context.Context, req Request, exec Executor) (any, error) {
	name := "WhatsApp Lead"
	if req.OpportunityName != nil {
		name = *req.OpportunityName
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	values := map[string]any{}
	putNonEmpty(values, "name", name)
	putNonEmpty(values, "contact_name", req.ContactName)
	putNonEmpty(values, "phone", req.Phone)
	putNonEmpty(values, "email_from", req.Email)
	putNonEmpty(values, "description", description)

	if values["phone"] == nil && values["email_from"] == nil {
		return fail("Either phone or email is required"), nil
	}

	raw, err := exec.ExecuteKw(ctx, "crm.lead", "create", []any{values}, nil)
	if err != nil {
		return nil, err
	}
	id, err := asCreatedID(raw)
	if err != nil {
		return nil, err
	}

	return LeadCreateResult{
		Success: true,
		Action:  "create_lead",
		LeadID:  id,
		Message: fmt.Sprintf("Lead created successfully with ID: %d", id),
	}, nil
}

func listLeads(ctx context.Context, req Request, exec Executor) (any, error) {
	limit, err := coerceLimit(req.Limit, 10)
	if err != nil {
		return fail(err.Error()), nil
	}

	raw, err := exec.ExecuteKw(ctx, "crm.lead", "search_read",
		[]any{[]any{}},
		map[string]any{"fields": leadListFields, "limit": limit, "order": "create_date desc"},
	)
	if err != nil {
		return nil, err
	}
	leads, err := asRecords(raw)
	if err != nil {
		return nil, err
	}

	return LeadListResult{
		Success: true,
		Action:  "list_leads",
		Count:   len(leads),
		Leads:   leads,
	}, nil
}

func updateLeadStage(ctx context.Context, req Request, exec Executor) (any, error) {
	leadID, err := coerceID(req.LeadID, "lead_id")
	if err != nil {
		return fail(err.Error()), nil
	}
	stageID, err := coerceID(req.StageID, "stage_id")
	if err != nil {
		return fail(err.Error()), nil
	}
	if leadID == 0 || stageID == 0 {
		return fail("lead_id and stage_id are required"), nil
	}

	_, err = exec.ExecuteKw(ctx, "crm.lead", "write",
		[]any{[]any{leadID}, map[string]any{"stage_id": stageID}},
		nil,
	)
	if err != nil {
		return nil, err
	}

	return LeadStageUpdateResult{
		Success: true,
		Action:  "update_lead_stage",
		Message: fmt.Sprintf("Lead %d updated to stage %d", leadID, stageID),
	}, nil
}

func searchProducts(ctx context.Context, req Request, exec Executor) (any, error) {
	term := strings.TrimSpace(req.SearchTerm)
	if term == "" {
		return fail("search_term is required"), nil
	}

	domain := []any{
		[]any{"name", "ilike", term},
		[]any{"sale_ok", "=", true},
	}
	raw, err := exec.ExecuteKw(ctx, "product.product", "search_read",
		[]any{domain},
		map[string]any{"fields": productSearchFields, "limit": 10},
	)
	if err != nil {
		return nil, err
	}
	products, err := asRecords(raw)
	if err != nil {
		return nil, err
	}

	return ProductSearchResult{
		Success:  true,
		Action:   "search_products",
		Count:    len(products),
		Products: products,
	}, nil
}

func getLeadStages(ctx context.Context, req Request, exec Executor) (any, error) {
	raw, err := exec.ExecuteKw(ctx, "crm.stage", "search_read",
		[]any{[]any{}},
		map[string]any{"fields": stageFields},
	)
	if err != nil {
		return nil, err
	}
	stages, err := asRecords(raw)
	if err != nil {
		return nil, err
	}

	return LeadStagesResult{
		Success: true,
		Action:  "get_lead_stages",
		Stages:  stages,
	}, nil
}

// asRecords converts a dynamic search_read/read result into records.
func asRecords(raw any) ([]Record, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected record list, got %T", ErrUnexpectedPayload, raw)
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected record, got %T", ErrUnexpectedPayload, item)
		}
		records = append(records, rec)
	}
	return records, nil
}

// asCreatedID converts a dynamic create result into the new record id.
func asCreatedID(raw any) (int64, error) {
	switch id := raw.(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case float64:
		return int64(id), nil
	default:
		return 0, fmt.Errorf("%w: expected created id, got %T", ErrUnexpectedPayload, raw)
	}
}
