// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

// TicketTypeRequest is one line of a purchase. Type is one of ADULT, CHILD or INFANT,
// matched exactly. Count is bounded well above any purchase limit so that oversized
// lines are rejected before they reach pricing.
type TicketTypeRequest struct {
	Type  string `json:"type" validate:"required,ticket_type"`
	Count int    `json:"count" validate:"min=1,max=1000"`
}

// PurchaseRequest is the body of both quote and purchase calls. AccountId is kept raw
// so that strings, floats and null can be told apart from integers.
type PurchaseRequest struct {
	AccountId      json.RawMessage     `json:"accountId"`
	TicketRequests []TicketTypeRequest `json:"ticketRequests" validate:"dive"`
}

type TicketCounts struct {
	Adult  int `json:"adult"`
	Child  int `json:"child"`
	Infant int `json:"infant"`
}

type QuoteResponse struct {
	TotalAmountDue     string       `json:"totalAmountDue"`
	Currency           string       `json:"currency"`
	TotalSeatsRequired int          `json:"totalSeatsRequired"`
	TicketCounts       TicketCounts `json:"ticketCounts"`
}
