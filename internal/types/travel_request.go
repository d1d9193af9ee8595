package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day encoded as YYYY-MM-DD in JSON.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("date must use YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

// TravelerType represents the DB ENUM 'traveler_type_enum'.
type TravelerType string

const (
	TravelerCouple  TravelerType = "couple"
	TravelerFamily  TravelerType = "family"
	TravelerSolo    TravelerType = "solo"
	TravelerFriends TravelerType = "friends"
)

func (t TravelerType) Valid() bool {
	switch t {
	case TravelerCouple, TravelerFamily, TravelerSolo, TravelerFriends:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for TravelerType.
func (t *TravelerType) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan TravelerType: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	if !TravelerType(strVal).Valid() {
		return fmt.Errorf("unknown TravelerType value: %s", strVal)
	}
	*t = TravelerType(strVal)
	return nil
}

// Value implements the driver.Valuer interface for TravelerType.
func (t TravelerType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid TravelerType value: %s", t)
	}
	return string(t), nil
}

// Pace is how densely the traveler wants days packed.
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

func (p Pace) Valid() bool {
	switch p {
	case PaceSlow, PaceNormal, PaceFast:
		return true
	}
	return false
}

// PreferenceSet is the per-request preference block.
type PreferenceSet struct {
	Interests           []string `json:"interests"`
	MustHave            []string `json:"must_have"`
	Avoid               []string `json:"avoid"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Pace                Pace     `json:"pace"`
	Notes               string   `json:"notes,omitempty"`
	OriginAirport       string   `json:"origin_airport,omitempty"` // IATA code used for flight search
}

// TravelRequest is what a user submits to generate a plan. It is never mutated after submission.
type TravelRequest struct {
	Title         string        `json:"title,omitempty"`
	Destination   string        `json:"destination"`
	Country       string        `json:"country"`
	StartDate     Date          `json:"start_date"`
	EndDate       Date          `json:"end_date"`
	BudgetTotal   int64         `json:"budget_total"`
	Currency      string        `json:"currency,omitempty"`
	TravelerType  TravelerType  `json:"traveler_type"`
	TravelerCount int           `json:"traveler_count"`
	Preferences   PreferenceSet `json:"preferences"`
}

// Validate rejects requests before any planning stage runs. Missing optional
// fields are filled with their defaults.
func (r *TravelRequest) Validate() error {
	r.Destination = strings.TrimSpace(r.Destination)
	r.Country = strings.TrimSpace(r.Country)
	if r.Destination == "" {
		return NewValidationError("destination", "must not be empty")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return NewValidationError("start_date", "start_date and end_date are required")
	}
	if r.EndDate.Before(r.StartDate.Time) {
		return NewValidationError("end_date", "must not be before start_date")
	}
	if r.BudgetTotal <= 0 {
		return NewValidationError("budget_total", "must be greater than zero")
	}
	if r.TravelerType == "" {
		r.TravelerType = TravelerSolo
	}
	if !r.TravelerType.Valid() {
		return NewValidationError("traveler_type", fmt.Sprintf("unknown value %q", r.TravelerType))
	}
	if r.TravelerCount == 0 {
		r.TravelerCount = 1
	}
	if r.TravelerCount < 1 {
		return NewValidationError("traveler_count", "must be at least 1")
	}
	if r.Preferences.Pace == "" {
		r.Preferences.Pace = PaceNormal
	}
	if !r.Preferences.Pace.Valid() {
		return NewValidationError("preferences.pace", fmt.Sprintf("unknown value %q", r.Preferences.Pace))
	}
	if r.Currency == "" {
		r.Currency = "KRW"
	}
	return nil
}

// TotalDays counts both the start and end date.
func (r TravelRequest) TotalDays() int {
	days := int(r.EndDate.Sub(r.StartDate.Time).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
