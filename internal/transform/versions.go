package transform

type v1Adapter struct{}

func (v1Adapter) Version() Version { return V1 }

func (v1Adapter) Transform(rec Record) Payload {
	r := resolve(rec)
	return Payload{
		"name_first":          r.firstName,
		"name_last":           r.lastName,
		"address_line_1":      r.line1,
		"address_line_2":      r.line2,
		"address_city":        r.city,
		"address_state":       r.state,
		"address_postal_code": r.zip,
		"document_ssn":        r.ssn,
		"email_address":       r.email,
		"phone_number":        r.phone,
		"birth_date":          r.birthDate,
	}
}

type v2Adapter struct{}

func (v2Adapter) Version() Version { return V2 }

func (v2Adapter) Transform(rec Record) Payload {
	r := resolve(rec)
	return Payload{
		"name_first":             r.firstName,
		"name_last":              r.lastName,
		"address_line_1":         r.line1,
		"address_line_2":         r.line2,
		"address_city":           r.city,
		"address_state":          r.state,
		"address_postal_code":    r.zip,
		"address_country_code":   r.country,
		"social_security_number": r.ssn,
		"email":                  r.email,
		"phone_number":           r.phone,
		"birth_date":             r.birthDate,
	}
}
