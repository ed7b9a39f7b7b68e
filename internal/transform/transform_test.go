package transform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applygate/internal/applicant"
)

var p = applicant.Ptr

func flatRecord() Record {
	return Record{
		FirstName: p("Jane"),
		LastName:  p("Approve"),
		Email:     p("jane@x.com"),
		Phone:     p("5551234567"),
		BirthDate: p("1990-01-01"),
		SSN:       p("123-45-6789"),
		Address1:  p("1 Main St"),
		Address2:  p("Apt 2"),
		City:      p("Springfield"),
		State:     p("IL"),
		Zip:       p("62704"),
		Country:   p("US"),
	}
}

func nestedRecord() Record {
	rec := flatRecord()
	rec.Address = &applicant.Address{
		Line1:   rec.Address1,
		Line2:   rec.Address2,
		City:    rec.City,
		State:   rec.State,
		Zip:     rec.Zip,
		Country: rec.Country,
	}
	rec.Address1, rec.Address2, rec.City, rec.State, rec.Zip, rec.Country = nil, nil, nil, nil, nil, nil
	return rec
}

func mustAdapter(t *testing.T, v Version) Adapter {
	t.Helper()
	a, err := ForVersion(v)
	require.NoError(t, err)
	return a
}

func TestV2Transform(t *testing.T) {
	got := mustAdapter(t, V2).Transform(flatRecord())

	assert.Equal(t, Payload{
		"name_first":             "Jane",
		"name_last":              "Approve",
		"address_line_1":         "1 Main St",
		"address_line_2":         "Apt 2",
		"address_city":           "Springfield",
		"address_state":          "IL",
		"address_postal_code":    "62704",
		"address_country_code":   "US",
		"social_security_number": "123456789",
		"email":                  "jane@x.com",
		"phone_number":           "5551234567",
		"birth_date":             "1990-01-01",
	}, got)
}

func TestSSNIsStrippedToDigits(t *testing.T) {
	for _, ssn := range []string{"123-45-6789", "123 45 6789", " 123-45 6789\t", "123456789"} {
		rec := Record{SSN: p(ssn)}
		assert.Equal(t, "123456789", mustAdapter(t, V2).Transform(rec)["social_security_number"], ssn)
		assert.Equal(t, "123456789", mustAdapter(t, V1).Transform(rec)["document_ssn"], ssn)
	}
}

func TestFlatAndNestedAddressProduceIdenticalPayloads(t *testing.T) {
	for _, v := range Versions() {
		t.Run(string(v), func(t *testing.T) {
			a := mustAdapter(t, v)
			assert.Equal(t, a.Transform(flatRecord()), a.Transform(nestedRecord()))
		})
	}
}

func TestNestedAddressTakesPrecedence(t *testing.T) {
	rec := flatRecord()
	rec.Address = &applicant.Address{City: p("Shelbyville"), Line2: p("")}

	got := mustAdapter(t, V2).Transform(rec)
	assert.Equal(t, "Shelbyville", got["address_city"])
	assert.Equal(t, "", got["address_line_2"], "present but empty nested value still wins")
	assert.Equal(t, "1 Main St", got["address_line_1"], "unset nested fields fall back to flat")
}

func TestDefaults(t *testing.T) {
	got := mustAdapter(t, V2).Transform(Record{})

	assert.Equal(t, "US", got["address_country_code"])
	for key, value := range got {
		if key == "address_country_code" {
			continue
		}
		assert.Equal(t, "", value, key)
	}

	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "null")
}

func TestExplicitEmptyCountryIsKept(t *testing.T) {
	got := mustAdapter(t, V2).Transform(Record{Country: p("")})
	assert.Equal(t, "", got["address_country_code"])
}

func TestBirthDateFallsBackToDOB(t *testing.T) {
	a := mustAdapter(t, V2)
	assert.Equal(t, "1985-05-05", a.Transform(Record{DOB: p("1985-05-05")})["birth_date"])
	assert.Equal(t, "1990-01-01", a.Transform(Record{BirthDate: p("1990-01-01"), DOB: p("1985-05-05")})["birth_date"])
}

func TestPhoneFallsBackToPhoneNumber(t *testing.T) {
	a := mustAdapter(t, V2)
	assert.Equal(t, "5550000000", a.Transform(Record{PhoneNumber: p("5550000000")})["phone_number"])
	assert.Equal(t, "5550000000", a.Transform(Record{Phone: p(""), PhoneNumber: p("5550000000")})["phone_number"])
	assert.Equal(t, "5551234567", a.Transform(Record{Phone: p("5551234567"), PhoneNumber: p("5550000000")})["phone_number"])
	assert.Equal(t, "", a.Transform(Record{})["phone_number"])
}

func TestV1Schema(t *testing.T) {
	got := mustAdapter(t, V1).Transform(flatRecord())

	assert.Equal(t, "123456789", got["document_ssn"])
	assert.Equal(t, "jane@x.com", got["email_address"])
	assert.NotContains(t, got, "social_security_number")
	assert.NotContains(t, got, "address_country_code")
}

func TestForVersion(t *testing.T) {
	a, err := ForVersion("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, a.Version())

	_, err = ForVersion("v9")
	assert.ErrorIs(t, err, ErrUnknownVersion)

	assert.Equal(t, []Version{V1, V2}, Versions())
}
