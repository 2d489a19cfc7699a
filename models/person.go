package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PersonID is the server-assigned identifier of a person. The API sends it as a
// number; it is kept opaque here.
type PersonID string

func (id *PersonID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid person id %s: %w", data, err)
		}
		*id = PersonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid person id %s: %w", data, err)
	}
	*id = PersonID(n.String())
	return nil
}

func (id PersonID) String() string { return string(id) }

type Gender string

const (
	GenderMale           Gender = "M"
	GenderFemale         Gender = "F"
	GenderOther          Gender = "O"
	GenderPreferNotToSay Gender = "U"
)

// Genders lists the known codes in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	default:
		return false
	}
}

// Label returns the human readable name, or the raw code when it is unknown.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	case GenderPreferNotToSay:
		return "Prefer not to say"
	default:
		return string(g)
	}
}

const (
	MaxHeightInCM = 300
	MaxWeightInKG = 500

	DateLayout    = "2006-01-02"
	displayLayout = "1/2/2006"
)

// Person is the resource served by the remote API. Instances are short-lived copies
// fetched for a single page.
type Person struct {
	ID         PersonID `json:"id"`
	FirstName  string   `json:"first_name"`
	MiddleName *string  `json:"middle_name"`
	LastName   string   `json:"last_name"`
	FullName   string   `json:"full_name,omitempty"` // read-only, computed by the API
	Gender     Gender   `json:"gender,omitempty"`
	BirthDate  string   `json:"birth_date,omitempty"`
	HeightInCM *int     `json:"height_in_cm,omitempty"`
	WeightInKG *float64 `json:"weight_in_kg,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

func (p Person) Middle() string {
	if p.MiddleName == nil {
		return ""
	}
	return *p.MiddleName
}

// DisplayName joins first, middle and last name, skipping empty parts.
func (p Person) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.Middle(), p.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (p Person) HasHeight() bool { return p.HeightInCM != nil && *p.HeightInCM != 0 }
func (p Person) HasWeight() bool { return p.WeightInKG != nil && *p.WeightInKG != 0 }

func (p Person) HeightLabel() string {
	if !p.HasHeight() {
		return ""
	}
	return strconv.Itoa(*p.HeightInCM) + " cm"
}

func (p Person) WeightLabel() string {
	if !p.HasWeight() {
		return ""
	}
	return strconv.FormatFloat(*p.WeightInKG, 'f', -1, 64) + " kg"
}

func (p Person) BirthDateLabel() string { return FormatDate(p.BirthDate) }
func (p Person) CreatedLabel() string   { return FormatDate(p.CreatedAt) }
func (p Person) UpdatedLabel() string   { return FormatDate(p.UpdatedAt) }

// FormatDate renders a date or timestamp from the API as M/D/YYYY. Values that do not
// parse are returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{DateLayout, time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayLayout)
		}
	}
	return s
}

// PersonPayload is the body of create and replace requests. Every key is always sent;
// absent optional values go out as null.
type PersonPayload struct {
	FirstName  string   `json:"first_name"`
	MiddleName *string  `json:"middle_name"`
	LastName   string   `json:"last_name"`
	Gender     *Gender  `json:"gender"`
	BirthDate  *string  `json:"birth_date"`
	HeightInCM *int     `json:"height_in_cm"`
	WeightInKG *float64 `json:"weight_in_kg"`
}
