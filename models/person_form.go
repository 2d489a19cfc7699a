package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	FieldFirstName  = "first_name"
	FieldMiddleName = "middle_name"
	FieldLastName   = "last_name"
	FieldGender     = "gender"
	FieldBirthDate  = "birth_date"
	FieldHeightInCM = "height_in_cm"
	FieldWeightInKG = "weight_in_kg"
)

// FormFields lists the editable fields in form order.
var FormFields = []string{
	FieldFirstName, FieldMiddleName, FieldLastName, FieldGender,
	FieldBirthDate, FieldHeightInCM, FieldWeightInKG,
}

const msgRequired = "This field is required."

// PersonForm is the edge representation of the create and edit forms: every value is
// the raw string the user typed.
type PersonForm struct {
	FirstName  string
	MiddleName string
	LastName   string
	Gender     string
	BirthDate  string
	HeightInCM string
	WeightInKG string
}

// FormFromPerson fills a form from a fetched person. Absent and zero values become
// empty strings.
func FormFromPerson(p Person) PersonForm {
	f := PersonForm{
		FirstName:  p.FirstName,
		MiddleName: p.Middle(),
		LastName:   p.LastName,
		Gender:     string(p.Gender),
		BirthDate:  p.BirthDate,
	}
	if p.HasHeight() {
		f.HeightInCM = strconv.Itoa(*p.HeightInCM)
	}
	if p.HasWeight() {
		f.WeightInKG = strconv.FormatFloat(*p.WeightInKG, 'f', -1, 64)
	}
	return f
}

// FormFromValues builds a form from submitted key/value pairs.
func FormFromValues(get func(string) string) PersonForm {
	return PersonForm{
		FirstName:  get(FieldFirstName),
		MiddleName: get(FieldMiddleName),
		LastName:   get(FieldLastName),
		Gender:     get(FieldGender),
		BirthDate:  get(FieldBirthDate),
		HeightInCM: get(FieldHeightInCM),
		WeightInKG: get(FieldWeightInKG),
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Payload coerces the form into a request body, applying the same shallow checks the
// HTML inputs carry. today bounds the birth date.
func (f PersonForm) Payload(today time.Time) (PersonPayload, FieldErrors) {
	var errs FieldErrors
	p := PersonPayload{
		FirstName:  strings.TrimSpace(f.FirstName),
		MiddleName: optionalString(f.MiddleName),
		LastName:   strings.TrimSpace(f.LastName),
	}

	if p.FirstName == "" {
		errs = errs.Add(FieldFirstName, msgRequired)
	}
	if p.LastName == "" {
		errs = errs.Add(FieldLastName, msgRequired)
	}

	if g := optionalString(f.Gender); g != nil {
		gender := Gender(*g)
		if !gender.Valid() {
			errs = errs.Add(FieldGender, fmt.Sprintf("%q is not a valid choice.", *g))
		} else {
			p.Gender = &gender
		}
	}

	if d := optionalString(f.BirthDate); d != nil {
		bd, err := time.Parse(DateLayout, *d)
		switch {
		case err != nil:
			errs = errs.Add(FieldBirthDate, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		case bd.After(truncateDay(today)):
			errs = errs.Add(FieldBirthDate, "Birth date cannot be in the future.")
		default:
			p.BirthDate = d
		}
	}

	if h := optionalString(f.HeightInCM); h != nil {
		n, err := strconv.Atoi(*h)
		switch {
		case err != nil:
			errs = errs.Add(FieldHeightInCM, "A valid integer is required.")
		case n <= 0:
			errs = errs.Add(FieldHeightInCM, "Ensure this value is greater than 0.")
		case n > MaxHeightInCM:
			errs = errs.Add(FieldHeightInCM, fmt.Sprintf("Ensure this value is less than or equal to %d.", MaxHeightInCM))
		default:
			p.HeightInCM = &n
		}
	}

	if w := optionalString(f.WeightInKG); w != nil {
		n, err := strconv.ParseFloat(*w, 64)
		switch {
		case err != nil:
			errs = errs.Add(FieldWeightInKG, "A valid number is required.")
		case n <= 0:
			errs = errs.Add(FieldWeightInKG, "Ensure this value is greater than 0.")
		case n > MaxWeightInKG:
			errs = errs.Add(FieldWeightInKG, fmt.Sprintf("Ensure this value is less than or equal to %d.", MaxWeightInKG))
		default:
			p.WeightInKG = &n
		}
	}

	return p, errs
}

// MaxBirthDate is the value of the date input's max attribute.
func MaxBirthDate(today time.Time) string {
	return today.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
