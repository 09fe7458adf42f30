package member

import (
	"errors"
	"strings"

	"dangol/internal/domain/phone"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxRegionLength  = 100
	MaxAddressLength = 200
)

// Member is a customer identified uniquely by normalized phone number.
// A member is created on the first order from a phone number, mutated on
// every subsequent order, and never deleted.
type Member struct {
	Phone         string // canonical form, the join key
	Name          string
	Region        string
	Address       string
	LastOrderDate string // KST date, 2006-01-02
	JoinedDate    string // KST date, set once at first order
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized with a normalized phone
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Phone must carry at least phone.MinDigits digits
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("member name cannot be empty")
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if strings.TrimSpace(m.Region) == "" {
		return errors.New("member region cannot be empty")
	}
	if len(m.Region) > MaxRegionLength {
		return errors.New("member region cannot exceed 100 characters")
	}
	if strings.TrimSpace(m.Address) == "" {
		return errors.New("member address cannot be empty")
	}
	if len(m.Address) > MaxAddressLength {
		return errors.New("member address cannot exceed 200 characters")
	}
	if len(phone.Digits(m.Phone)) < phone.MinDigits {
		return errors.New("member phone number is too short")
	}
	return nil
}

// Touch overwrites the mutable contact fields and the last-order date.
// JoinedDate is deliberately left alone; it is written once at creation.
// POST: Name/Region/Address/LastOrderDate reflect the latest order
func (m *Member) Touch(name, region, address, orderDate string) {
	m.Name = name
	m.Region = region
	m.Address = address
	m.LastOrderDate = orderDate
}
