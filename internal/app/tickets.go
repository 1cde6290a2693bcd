package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/domain"
)

func (app *Application) QuoteTicketsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, requests, ok := app.readPurchaseRequest(w, r)
	if !ok {
		return
	}

	order, err := app.ticketService.Quote(accountID, requests...)
	if err != nil {
		app.invalidPurchaseResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toQuoteResponse(order), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) PurchaseTicketsHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	accountID, requests, ok := app.readPurchaseRequest(w, r)
	if !ok {
		return
	}

	err := app.ticketService.PurchaseTickets(r.Context(), accountID, requests...)
	if err != nil {
		logger.Warn("ticket purchase rejected", "account_id", accountID, "code", domain.ReasonCode(err))
		app.invalidPurchaseResponse(w, r, err)
		return
	}

	logger.Info("tickets purchased", "account_id", accountID, "lines", len(requests))

	w.WriteHeader(http.StatusNoContent)
}

// readPurchaseRequest decodes and validates the body shared by quote and purchase.
// It writes the error response itself and reports whether the caller may continue.
func (app *Application) readPurchaseRequest(w http.ResponseWriter, r *http.Request) (int64, []domain.TicketRequest, bool) {
	var input api.PurchaseRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return 0, nil, false
	}

	accountID, err := parseAccountID(input.AccountId)
	if err != nil {
		app.invalidPurchaseResponse(w, r, err)
		return 0, nil, false
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return 0, nil, false
	}

	requests, err := toTicketRequests(input.TicketRequests)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return 0, nil, false
	}

	return accountID, requests, true
}

// parseAccountID accepts only a JSON integer. Strings, floats, null and a missing
// field are all rejected as an invalid account ID.
func parseAccountID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)

	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return 0, domain.NewInvalidPurchase(domain.ErrInvalidAccountID, "")
	}

	accountID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, domain.NewInvalidPurchase(domain.ErrInvalidAccountID, "")
	}

	return accountID, nil
}

func toTicketRequests(input []api.TicketTypeRequest) ([]domain.TicketRequest, error) {
	requests := make([]domain.TicketRequest, 0, len(input))

	for _, v := range input {
		category, err := domain.ParseTicketCategory(v.Type)
		if err != nil {
			return nil, err
		}

		req, err := domain.NewTicketRequest(category, v.Count)
		if err != nil {
			return nil, err
		}

		requests = append(requests, req)
	}

	return requests, nil
}

func toQuoteResponse(order domain.PurchaseOrder) api.QuoteResponse {
	return api.QuoteResponse{
		TotalAmountDue:     order.TotalAmountDue.StringFixed(2),
		Currency:           domain.Currency,
		TotalSeatsRequired: order.TotalSeatsRequired,
		TicketCounts: api.TicketCounts{
			Adult:  order.TicketCounts.Adult,
			Child:  order.TicketCounts.Child,
			Infant: order.TicketCounts.Infant,
		},
	}
}
