package types

// CreateAgrovetInput carries the fields of a new agrovet.
type CreateAgrovetInput struct {
	Name     string
	Location string
	Contact  string
	Email    string
	Products []string
}

// UpdateAgrovetInput lists the attributes to overwrite on an existing
// agrovet. Omitted fields keep their stored value; a blank Name is ignored.
type UpdateAgrovetInput struct {
	ID       uint64
	Name     Field[string]
	Location Field[string]
	Contact  Field[string]
	Email    Field[string]
}
