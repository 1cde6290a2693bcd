package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/cinema-tickets/api"
	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/metinatakli/cinema-tickets/internal/mocks"
	"github.com/metinatakli/cinema-tickets/internal/service"
	"github.com/metinatakli/cinema-tickets/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:        Config{Env: "test"},
		validator:     validator.NewValidator(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		ticketService: &mocks.MockTicketService{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// withTicketService wires a real ticket service over the default pricing and the given collaborators.
func withTicketService(t *testing.T, payments domain.PaymentService, reservations domain.SeatReservationService) func(*Application) {
	return func(a *Application) {
		engine, err := domain.NewEngine(domain.DefaultPricingConfig())
		if err != nil {
			t.Fatalf("Failed to create engine: %v", err)
		}

		a.ticketService, err = service.NewTicketService(engine, payments, reservations)
		if err != nil {
			t.Fatalf("Failed to create ticket service: %v", err)
		}
	}
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	switch v := body.(type) {
	case nil:
		reader = http.NoBody
	case string:
		reader = bytes.NewBufferString(v)
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
	wantErrCode    string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if _, ok := raw["validationErrors"]; ok {
		var validationErrs []api.ValidationError
		if err := json.Unmarshal(raw["validationErrors"], &validationErrs); err != nil {
			t.Fatalf("Failed to decode validation errors: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationErrs {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

		return
	}

	var message, code string
	_ = json.Unmarshal(raw["message"], &message)
	_ = json.Unmarshal(raw["code"], &code)

	if tt.wantErrMessage != "" && message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", message, tt.wantErrMessage)
	}

	if tt.wantErrCode != "" && code != tt.wantErrCode {
		t.Errorf("Error code = %v, want %v", code, tt.wantErrCode)
	}
}
