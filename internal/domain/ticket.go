package domain

import "fmt"

type TicketCategory int

const (
	TicketCategoryAdult TicketCategory = iota + 1
	TicketCategoryChild
	TicketCategoryInfant
)

// TicketCategories lists every category in a stable order.
var TicketCategories = []TicketCategory{
	TicketCategoryAdult,
	TicketCategoryChild,
	TicketCategoryInfant,
}

func (c TicketCategory) String() string {
	switch c {
	case TicketCategoryAdult:
		return "ADULT"
	case TicketCategoryChild:
		return "CHILD"
	case TicketCategoryInfant:
		return "INFANT"
	default:
		return fmt.Sprintf("TicketCategory(%d)", int(c))
	}
}

func (c TicketCategory) Valid() bool {
	return c >= TicketCategoryAdult && c <= TicketCategoryInfant
}

// SeatBearing reports whether a ticket of this category occupies a seat.
// Infants sit on an adult's lap.
func (c TicketCategory) SeatBearing() bool {
	return c == TicketCategoryAdult || c == TicketCategoryChild
}

// ParseTicketCategory decodes a wire token. Only the exact tokens "ADULT", "CHILD"
// and "INFANT" are accepted; case and surrounding space are significant.
func ParseTicketCategory(token string) (TicketCategory, error) {
	switch token {
	case "ADULT":
		return TicketCategoryAdult, nil
	case "CHILD":
		return TicketCategoryChild, nil
	case "INFANT":
		return TicketCategoryInfant, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTicketCategory, token)
	}
}

// TicketRequest is an immutable "count tickets of category" line item.
// The zero value is not a valid request; use NewTicketRequest.
type TicketRequest struct {
	category TicketCategory
	count    int
}

func NewTicketRequest(category TicketCategory, count int) (TicketRequest, error) {
	if !category.Valid() {
		return TicketRequest{}, fmt.Errorf("%w: unknown ticket category %s", ErrInvalidTicketRequest, category)
	}

	if count <= 0 {
		return TicketRequest{}, fmt.Errorf("%w: number of tickets must be greater than 0, got %d",
			ErrInvalidTicketRequest, count)
	}

	return TicketRequest{category: category, count: count}, nil
}

// MustTicketRequest is like NewTicketRequest but panics on error. Intended for fixtures.
func MustTicketRequest(category TicketCategory, count int) TicketRequest {
	req, err := NewTicketRequest(category, count)
	if err != nil {
		panic(err)
	}

	return req
}

func (r TicketRequest) Category() TicketCategory {
	return r.category
}

func (r TicketRequest) Count() int {
	return r.count
}

func (r TicketRequest) String() string {
	return fmt.Sprintf("%s x%d", r.category, r.count)
}
