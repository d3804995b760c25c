package model

// Default collection capacities.
const (
	DefaultMaxPatients     = 500
	DefaultMaxDiseases     = 200
	DefaultMaxDoctors      = 100
	DefaultMaxAppointments = 1000
)

// Limits caps the size of each collection. Exceeding a limit is a business
// rule violation, not a resize.
type Limits struct {
	Patients     int `json:"patients" mapstructure:"patients"`
	Diseases     int `json:"diseases" mapstructure:"diseases"`
	Doctors      int `json:"doctors" mapstructure:"doctors"`
	Appointments int `json:"appointments" mapstructure:"appointments"`
}

func DefaultLimits() Limits {
	return Limits{
		Patients:     DefaultMaxPatients,
		Diseases:     DefaultMaxDiseases,
		Doctors:      DefaultMaxDoctors,
		Appointments: DefaultMaxAppointments,
	}
}

// Counters holds the next ID each collection will hand out.
type Counters struct {
	NextPatientID     int `json:"next_patient_id"`
	NextDiseaseID     int `json:"next_disease_id"`
	NextDoctorID      int `json:"next_doctor_id"`
	NextAppointmentID int `json:"next_appointment_id"`
}

func InitialCounters() Counters {
	return Counters{
		NextPatientID:     1,
		NextDiseaseID:     1,
		NextDoctorID:      1,
		NextAppointmentID: 1,
	}
}

// Snapshot is the whole database as plain values, in collection order.
type Snapshot struct {
	Patients     []Patient     `json:"patients"`
	Diseases     []Disease     `json:"diseases"`
	Doctors      []Doctor      `json:"doctors"`
	Appointments []Appointment `json:"appointments"`
	Counters     Counters      `json:"counters"`
}

// NewSnapshot returns an empty database with counters at 1.
func NewSnapshot() *Snapshot {
	return &Snapshot{Counters: InitialCounters()}
}

// Counts summarizes collection sizes.
type Counts struct {
	Patients     int `json:"patients"`
	Diseases     int `json:"diseases"`
	Doctors      int `json:"doctors"`
	Appointments int `json:"appointments"`
}

func (s *Snapshot) Counts() Counts {
	return Counts{
		Patients:     len(s.Patients),
		Diseases:     len(s.Diseases),
		Doctors:      len(s.Doctors),
		Appointments: len(s.Appointments),
	}
}

// Field length limits in characters. The validate tags on the record types
// carry the same numbers.
const (
	MaxNameLen           = 99
	MaxGenderLen         = 9
	MaxPhoneLen          = 19
	MaxDiseaseLen        = 99
	MaxSpecializationLen = 99
	MaxSymptomsLen       = 199
	MaxTreatmentLen      = 199
	MaxDateLen           = 19
	MaxTimeLen           = 9
)
