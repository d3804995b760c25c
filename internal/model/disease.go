package model

// Disease is reference data only. Patient.Disease is free text and does not
// point at these records.
type Disease struct {
	ID        int    `json:"id"`
	Name      string `json:"name" validate:"max=99"`
	Symptoms  string `json:"symptoms" validate:"max=199"`
	Treatment string `json:"treatment" validate:"max=199"`
}
