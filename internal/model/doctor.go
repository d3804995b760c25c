package model

// Doctor is append-only: doctors are never edited or deleted once created.
type Doctor struct {
	ID             int    `json:"id"`
	Name           string `json:"name" validate:"max=99"`
	Specialization string `json:"specialization" validate:"max=99"`
	Phone          string `json:"phone" validate:"max=19"`
}
