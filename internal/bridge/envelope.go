// SPDX-License-Identifier: MIT

package bridge

// Record is one backend record, keyed by the field names that were requested.
type Record = map[string]any

// Request is the inbound action envelope. Only Action is mandatory; the rest
// is action-dependent. ID-like fields stay untyped because clients send them
// as numbers or strings interchangeably.
type Request struct {
	Action          string  `json:"action"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	OpportunityName *string `json:"opportunity_name"`
	ContactName     string  `json:"contact_name"`
	Description     *string `json:"description"`
	SearchTerm      string  `json:"search_term"`
	CustomerID      any     `json:"customer_id"`
	LeadID          any     `json:"lead_id"`
	StageID         any     `json:"stage_id"`
	Limit           any     `json:"limit"`
}

// Failure is the uniform envelope for handled non-success outcomes. These are
// routine results and ship with HTTP 200.
type Failure struct {
	Success          bool     `json:"success"`
	Error            string   `json:"error"`
	AvailableActions []string `json:"available_actions,omitempty"`
}

func fail(msg string) Failure {
	return Failure{Success: false, Error: msg}
}

// CustomerSearchResult answers search_customer.
type CustomerSearchResult struct {
	Success   bool     `json:"success"`
	Action    string   `json:"action"`
	Count     int      `json:"count"`
	Customers []Record `json:"customers"`
}

// CustomerResult answers get_customer. Customer is null when the id does not
// resolve to a record.
type CustomerResult struct {
	Success  bool   `json:"success"`
	Action   string `json:"action"`
	Customer Record `json:"customer"`
}

// LeadCreateResult answers create_lead.
type LeadCreateResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	LeadID  int64  `json:"lead_id"`
	Message string `json:"message"`
}

// LeadListResult answers list_leads.
type LeadListResult struct {
	Success bool     `json:"success"`
	Action  string   `json:"action"`
	Count   int      `json:"count"`
	Leads   []Record `json:"leads"`
}

// LeadStageUpdateResult answers update_lead_stage.
type LeadStageUpdateResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

// ProductSearchResult answers search_products.
type ProductSearchResult struct {
	Success  bool     `json:"success"`
	Action   string   `json:"action"`
	Count    int      `json:"count"`
	Products []Record `json:"products"`
}

// LeadStagesResult answers get_lead_stages.
type LeadStagesResult struct {
	Success bool     `json:"success"`
	Action  string   `json:"action"`
	Stages  []Record `json:"stages"`
}
