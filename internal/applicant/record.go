// Package applicant defines the applicant record submitted by the intake form.
package applicant

// Form field names as they appear on the wire.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldAddress1  = "address1"
	FieldAddress2  = "address2"
	FieldCity      = "city"
	FieldState     = "state"
	FieldZip       = "zip"
	FieldCountry   = "country"
	FieldSSN       = "ssn"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldBirthDate = "birth_date"
)

// DefaultCountry is the only country the intake form accepts.
const DefaultCountry = "US"

// FormFields lists every field the intake form renders, in display order.
var FormFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldBirthDate,
	FieldSSN,
	FieldAddress1,
	FieldAddress2,
	FieldCity,
	FieldState,
	FieldZip,
	FieldCountry,
}

// RequiredFields lists the fields that must be non-blank before submission.
var RequiredFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldAddress1,
	FieldCity,
	FieldState,
	FieldZip,
	FieldCountry,
	FieldSSN,
	FieldEmail,
	FieldPhone,
	FieldBirthDate,
}

// Record is the client-to-gateway wire shape. Pointer fields distinguish an
// absent key (or JSON null) from an explicitly empty string.
type Record struct {
	FirstName   *string  `json:"firstName,omitempty"`
	LastName    *string  `json:"lastName,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	PhoneNumber *string  `json:"phoneNumber,omitempty"`
	BirthDate   *string  `json:"birth_date,omitempty"`
	DOB         *string  `json:"dob,omitempty"`
	SSN         *string  `json:"ssn,omitempty"`
	Address     *Address `json:"address,omitempty"`

	// Flat address fields, used when Address is absent or leaves a field unset.
	Address1 *string `json:"address1,omitempty"`
	Address2 *string `json:"address2,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Zip      *string `json:"zip,omitempty"`
	Country  *string `json:"country,omitempty"`
}

// Address is the nested address form of a Record.
type Address struct {
	Line1   *string `json:"line1,omitempty"`
	Line2   *string `json:"line2,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zip     *string `json:"zip,omitempty"`
	Country *string `json:"country,omitempty"`
}

// FromFields builds a flat Record from form values. Keys missing from values
// stay absent on the record.
func FromFields(values map[string]string) Record {
	get := func(name string) *string {
		v, ok := values[name]
		if !ok {
			return nil
		}
		return &v
	}
	return Record{
		FirstName: get(FieldFirstName),
		LastName:  get(FieldLastName),
		Email:     get(FieldEmail),
		Phone:     get(FieldPhone),
		BirthDate: get(FieldBirthDate),
		SSN:       get(FieldSSN),
		Address1:  get(FieldAddress1),
		Address2:  get(FieldAddress2),
		City:      get(FieldCity),
		State:     get(FieldState),
		Zip:       get(FieldZip),
		Country:   get(FieldCountry),
	}
}

// Value dereferences an optional field, returning "" when absent.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Coalesce returns the first present value, or "" when every candidate is absent.
// An explicitly empty string counts as present.
func Coalesce(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return ""
}

// Ptr returns a pointer to s. Handy for building records in code.
func Ptr(s string) *string {
	return &s
}
