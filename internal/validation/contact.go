package validation

// ContactFields is the {name, number} pair every contact write carries.
//
// Both fields must be non-empty. The number has no format constraint.
type ContactFields struct {
	Name   string `json:"name" validate:"required"`
	Number string `json:"number" validate:"required"`
}

func (f *ContactFields) Validate() error {
	return validate.Struct(f)
}

// ValidateContact checks a candidate record outside of an HTTP request
// (service layer, seeding). It fails with a MISSING_FIELD *errs.HTTPError
// when name or number is empty.
func ValidateContact(name, number string) error {
	return ValidatePayload(&ContactFields{Name: name, Number: number})
}
