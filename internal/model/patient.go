package model

type Patient struct {
	ID       int    `json:"id"`
	Name     string `json:"name" validate:"max=99"`
	Age      int    `json:"age" validate:"gte=0"`
	Gender   string `json:"gender" validate:"max=9"`
	Phone    string `json:"phone" validate:"max=19"`
	Disease  string `json:"disease" validate:"max=99"`
	DoctorID int    `json:"doctor_id" validate:"gte=0"`
}

// HasDoctor reports whether a primary doctor is assigned.
func (p *Patient) HasDoctor() bool {
	return p.DoctorID != 0
}

// Assignment is the outcome of assigning a primary doctor to a patient.
type Assignment int

const (
	// AssignmentNone means no doctor was requested (ID 0).
	AssignmentNone Assignment = iota
	// AssignmentAssigned means the doctor exists and is now the primary doctor.
	AssignmentAssigned
	// AssignmentUnknownDoctor means the requested doctor does not exist; the
	// patient is left without a primary doctor.
	AssignmentUnknownDoctor
)

func (a Assignment) String() string {
	switch a {
	case AssignmentAssigned:
		return "assigned"
	case AssignmentUnknownDoctor:
		return "unknown_doctor"
	default:
		return "none"
	}
}
