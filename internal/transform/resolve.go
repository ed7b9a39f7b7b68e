package transform

import (
	"strings"

	"applygate/internal/applicant"
)

// Record is an alias kept local so adapter signatures read naturally.
type Record = applicant.Record

var ssnSeparators = strings.NewReplacer("-", "", " ", "", "\t", "", "\n", "", "\r", "")

// resolved holds the schema-neutral values every adapter starts from.
type resolved struct {
	firstName string
	lastName  string
	line1     string
	line2     string
	city      string
	state     string
	zip       string
	country   string
	birthDate string
	ssn       string
	email     string
	phone     string
}

// resolve applies the precedence rules shared by all schema versions: nested
// address fields win over flat ones, birth_date wins over dob, and a present
// but empty phone falls through to phoneNumber.
func resolve(rec Record) resolved {
	addr := rec.Address
	if addr == nil {
		addr = &applicant.Address{}
	}

	country := applicant.Coalesce(addr.Country, rec.Country)
	if addr.Country == nil && rec.Country == nil {
		country = applicant.DefaultCountry
	}

	return resolved{
		firstName: applicant.Value(rec.FirstName),
		lastName:  applicant.Value(rec.LastName),
		line1:     applicant.Coalesce(addr.Line1, rec.Address1),
		line2:     applicant.Coalesce(addr.Line2, rec.Address2),
		city:      applicant.Coalesce(addr.City, rec.City),
		state:     applicant.Coalesce(addr.State, rec.State),
		zip:       applicant.Coalesce(addr.Zip, rec.Zip),
		country:   country,
		birthDate: applicant.Coalesce(rec.BirthDate, rec.DOB),
		ssn:       StripSSN(applicant.Value(rec.SSN)),
		email:     applicant.Value(rec.Email),
		phone:     firstNonEmpty(rec.Phone, rec.PhoneNumber),
	}
}

// StripSSN removes hyphens and whitespace so only the digits are transmitted.
func StripSSN(ssn string) string {
	return ssnSeparators.Replace(ssn)
}

func firstNonEmpty(candidates ...*string) string {
	for _, c := range candidates {
		if v := applicant.Value(c); v != "" {
			return v
		}
	}
	return ""
}
