package model

type Appointment struct {
	ID        int    `json:"id"`
	PatientID int    `json:"patient_id"`
	DoctorID  int    `json:"doctor_id"`
	Date      string `json:"date" validate:"max=19"` // YYYY-MM-DD, not validated
	Time      string `json:"time" validate:"max=9"`  // HH:MM, not validated
}

// CreateAppointmentRequest carries the operator's input. Patient and doctor
// IDs are checked against the store, not here.
type CreateAppointmentRequest struct {
	PatientID int    `json:"patient_id"`
	DoctorID  int    `json:"doctor_id"`
	Date      string `json:"date" validate:"max=19"`
	Time      string `json:"time" validate:"max=9"`
}
