package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/repository/memory"
	"github.com/jwalitptl/hms/internal/service/appointment"
	"github.com/jwalitptl/hms/internal/service/audit"
	"github.com/jwalitptl/hms/internal/service/disease"
	"github.com/jwalitptl/hms/internal/service/doctor"
	"github.com/jwalitptl/hms/internal/service/patient"
)

type fakeSaver struct {
	saves int
	err   error
}

func (f *fakeSaver) Save(context.Context) error {
	f.saves++
	return f.err
}

type session struct {
	store *memory.Store
	saver *fakeSaver
	out   *bytes.Buffer
	err   error
}

func newServices(store *memory.Store) Services {
	auditor := audit.NewService(nil)
	patients := memory.NewPatientRepository(store)
	doctors := memory.NewDoctorRepository(store)
	return Services{
		Patients:     patient.NewService(patients, doctors, auditor, nil, nil),
		Doctors:      doctor.NewService(doctors, auditor, nil, nil),
		Diseases:     disease.NewService(memory.NewDiseaseRepository(store), auditor, nil, nil),
		Appointments: appointment.NewService(memory.NewAppointmentRepository(store), patients, doctors, auditor, nil, nil),
	}
}

// run feeds lines to a fresh console and runs it to completion.
func run(t *testing.T, pause bool, lines ...string) *session {
	t.Helper()
	return runWith(t, memory.NewStore(model.DefaultLimits()), &fakeSaver{}, pause, lines...)
}

func runWith(t *testing.T, store *memory.Store, saver *fakeSaver, pause bool, lines ...string) *session {
	t.Helper()
	input := strings.Join(lines, "\n")
	if len(lines) > 0 {
		input += "\n"
	}
	out := &bytes.Buffer{}
	c := New(strings.NewReader(input), out, newServices(store), saver, Options{Pause: pause})
	err := c.Run(context.Background())
	return &session{store: store, saver: saver, out: out, err: err}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		problem string
	}{
		{"42", 42, ""},
		{"  7", 7, ""},
		{"\t-3", -3, ""},
		{"+5", 5, ""},
		{"0", 0, ""},
		{"2147483647", 2147483647, ""},
		{"-2147483648", -2147483648, ""},
		{"", 0, msgNotANumber},
		{"   ", 0, msgNotANumber},
		{"abc", 0, msgNotANumber},
		{"-", 0, msgNotANumber},
		{"12abc", 0, msgOnlyANumber},
		{"5 ", 0, msgOnlyANumber},
		{"1.5", 0, msgOnlyANumber},
		{"2147483648", 0, msgOutOfRange},
		{"-2147483649", 0, msgOutOfRange},
		{"99999999999999999999999", 0, msgOutOfRange},
		{"99999999999999999999999x", 0, msgOnlyANumber},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, problem := parseInt(tt.in)
			assert.Equal(t, tt.problem, problem)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "zö", truncate("zöe", 2))
	assert.Equal(t, "abc", truncate("abc", 0))
}

func TestEndOfInputSavesAndExits(t *testing.T) {
	s := run(t, false)
	require.NoError(t, s.err)
	assert.Equal(t, 1, s.saver.saves)
	assert.Contains(t, s.out.String(), "Data saved successfully.")
	assert.Contains(t, s.out.String(), "Exiting. Goodbye!")
}

func TestExitSaves(t *testing.T) {
	s := run(t, false, "15")
	require.NoError(t, s.err)
	assert.Equal(t, 1, s.saver.saves)
	assert.Contains(t, s.out.String(), "Professional Hospital Management System")
}

func TestExitReturnsSaveError(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	s := runWith(t, memory.NewStore(model.DefaultLimits()), saver, false, "15")
	assert.EqualError(t, s.err, "disk full")
	assert.Contains(t, s.out.String(), "could not save data")
}

func TestIntegerPromptReasks(t *testing.T) {
	s := run(t, false, "abc", "3x", "99999999999", "15")
	require.NoError(t, s.err)
	out := s.out.String()
	assert.Contains(t, out, msgNotANumber)
	assert.Contains(t, out, msgOnlyANumber)
	assert.Contains(t, out, msgOutOfRange)
	assert.Equal(t, 1, s.saver.saves)
}

func TestInvalidChoice(t *testing.T) {
	s := run(t, false, "42", "0", "15")
	assert.Equal(t, 2, strings.Count(s.out.String(), "Invalid choice. Try again."))
}

func TestSaveMenuEntry(t *testing.T) {
	s := run(t, false, "14", "15")
	assert.Equal(t, 2, s.saver.saves)
}

func TestCarriageReturnsAreStripped(t *testing.T) {
	s := run(t, false, "7\r", "Dr. Crlf\r", "GP\r", "1\r", "15\r")
	require.NoError(t, s.err)

	snap := s.store.Snapshot()
	require.Len(t, snap.Doctors, 1)
	assert.Equal(t, "Dr. Crlf", snap.Doctors[0].Name)
}

func TestPatientIntakeWithDoctor(t *testing.T) {
	s := run(t, false,
		"7", "Dr. House", "Diagnostics", "555",
		"1", "John", "40", "M", "123", "Flu", "1",
		"3", "1",
		"15")
	require.NoError(t, s.err)
	out := s.out.String()

	assert.Contains(t, out, "Doctor added successfully! (ID: 1)")
	assert.Contains(t, out, "DOCTOR LIST")
	assert.Contains(t, out, "Doctor (ID: 1) assigned.")
	assert.Contains(t, out, "Patient added successfully! (ID: 1)")
	assert.Contains(t, out, "Patient Found!")
	assert.Contains(t, out, "Doctor: Dr. House (ID: 1)")

	snap := s.store.Snapshot()
	require.Len(t, snap.Patients, 1)
	assert.Equal(t, model.Patient{ID: 1, Name: "John", Age: 40, Gender: "M", Phone: "123", Disease: "Flu", DoctorID: 1}, snap.Patients[0])
}

func TestPatientIntakeUnknownDoctor(t *testing.T) {
	s := run(t, false,
		"7", "Dr. House", "Diagnostics", "555",
		"1", "John", "40", "M", "123", "Flu", "9",
		"2",
		"15")
	out := s.out.String()
	assert.Contains(t, out, "No doctor found with ID 9. Patient assigned 'None'.")
	assert.Contains(t, out, "Doctor: Not Assigned")
}

func TestPatientIntakeWithoutDoctors(t *testing.T) {
	// no doctor prompt: the next line is read as a menu choice
	s := run(t, false, "1", "Jane", "30", "F", "1", "Cold", "15")
	require.NoError(t, s.err)
	out := s.out.String()
	assert.Contains(t, out, "No doctors in system. Patient assigned 'None'.")
	assert.NotContains(t, out, "Enter Doctor ID")
	assert.Equal(t, 1, s.store.Counts().Patients)
}

func TestPatientIntakeTruncatesLongFields(t *testing.T) {
	long := strings.Repeat("n", 150)
	s := run(t, false, "1", long, "30", "Nonbinary-ish", "1", "Cold", "15")
	require.NoError(t, s.err)

	snap := s.store.Snapshot()
	require.Len(t, snap.Patients, 1)
	assert.Len(t, snap.Patients[0].Name, model.MaxNameLen)
	assert.Equal(t, "Nonbinary", snap.Patients[0].Gender)
}

func TestSearchAndInvalidIDs(t *testing.T) {
	s := run(t, false,
		"1", "John", "40", "M", "1", "Flu",
		"3", "0",
		"3", "7",
		"4", "JOHN",
		"4", "Johnny",
		"5", "-1",
		"13", "0",
		"15")
	out := s.out.String()
	assert.Equal(t, 3, strings.Count(out, msgBadID))
	assert.Contains(t, out, "Patient with ID 7 not found.")
	assert.Contains(t, out, "ID: 1 | Name: John | Disease: Flu")
	assert.Contains(t, out, "No patient named 'Johnny' found.")
}

func TestDeletePatientConfirmation(t *testing.T) {
	s := run(t, false,
		"1", "Alice", "30", "F", "1", "Flu",
		"1", "Bob", "31", "M", "2", "Cold",
		"5", "1", "n",
		"5", "1", "yes",
		"5", "9",
		"15")
	out := s.out.String()
	assert.Contains(t, out, "Found: Alice. Are you sure you want to delete? (y/n):")
	assert.Contains(t, out, "Deletion canceled.")
	assert.Contains(t, out, "Patient deleted successfully.")
	assert.Contains(t, out, "No patient found with ID 9.")

	snap := s.store.Snapshot()
	require.Len(t, snap.Patients, 1)
	assert.Equal(t, "Bob", snap.Patients[0].Name)
}

func TestSortPatients(t *testing.T) {
	s := run(t, false,
		"6",
		"1", "bob", "1", "M", "", "",
		"1", "Alice", "1", "F", "", "",
		"6",
		"15")
	out := s.out.String()
	assert.Contains(t, out, "Not enough patients to sort.")
	assert.Contains(t, out, "Patients sorted by name.")

	snap := s.store.Snapshot()
	assert.Equal(t, "Alice", snap.Patients[0].Name)
	assert.Equal(t, "bob", snap.Patients[1].Name)
}

func TestScheduleAndCancelAppointment(t *testing.T) {
	s := run(t, false,
		"11",
		"1", "John", "40", "M", "1", "Flu",
		"11",
		"7", "Dr. Who", "Time", "0",
		"11", "1", "1", "2024-05-01", "09:30",
		"11", "1", "5", "2024-05-02", "10:00",
		"12",
		"13", "1", "y",
		"13", "1",
		"15")
	require.NoError(t, s.err)
	out := s.out.String()

	assert.Equal(t, 2, strings.Count(out, "Need at least one patient and one doctor to schedule."))
	assert.Contains(t, out, "Note: Dr. Who has been set as the primary doctor for John.")
	assert.Contains(t, out, "Appointment scheduled (ID: 1) for patient John with Dr. Who on 2024-05-01 09:30")
	assert.Contains(t, out, "Invalid patient or doctor ID.")
	assert.Contains(t, out, "Patient: John (ID: 1)")
	assert.Contains(t, out, "Found appointment for John. Are you sure? (y/n):")
	assert.Contains(t, out, "Appointment canceled.")
	assert.Contains(t, out, "No appointment found with ID 1.")

	snap := s.store.Snapshot()
	assert.Empty(t, snap.Appointments)
	assert.Equal(t, 2, snap.Counters.NextAppointmentID)
	assert.Equal(t, 1, snap.Patients[0].DoctorID)
}

func TestViewEmptyCollections(t *testing.T) {
	s := run(t, false, "2", "8", "10", "12", "15")
	out := s.out.String()
	assert.Contains(t, out, "No patients available.")
	assert.Contains(t, out, "No doctors added yet.")
	assert.Contains(t, out, "No diseases recorded in reference database.")
	assert.Contains(t, out, "No appointments scheduled.")
}

func TestDiseaseReference(t *testing.T) {
	s := run(t, false, "9", "Flu", "Fever", "Rest", "10", "15")
	out := s.out.String()
	assert.Contains(t, out, "Disease reference added successfully! (ID: 1)")
	assert.Contains(t, out, "DISEASE REFERENCE DATABASE")
	assert.Contains(t, out, "Symptoms: Fever")
	assert.Contains(t, out, "Treatment: Rest")
}

func TestCapacityIsReported(t *testing.T) {
	store := memory.NewStore(model.Limits{Patients: 5, Diseases: 5, Doctors: 1, Appointments: 5})
	s := runWith(t, store, &fakeSaver{}, false,
		"7", "Dr. A", "GP", "1",
		"7", "Dr. B", "GP", "2",
		"15")
	assert.Contains(t, s.out.String(), "Error: max doctors reached (1).")
	assert.Equal(t, 1, store.Counts().Doctors)
}

func TestPauseWaitsForEnter(t *testing.T) {
	s := run(t, true, "8", "", "15")
	require.NoError(t, s.err)
	out := s.out.String()
	assert.Equal(t, 1, strings.Count(out, "Press Enter to return to menu..."))
	assert.Equal(t, 1, s.saver.saves)
}

func TestNoColourWhenNotATerminal(t *testing.T) {
	s := run(t, false, "15")
	assert.NotContains(t, s.out.String(), "\x1b[")
}

func TestWelcome(t *testing.T) {
	out := &bytes.Buffer{}
	c := New(strings.NewReader(""), out, newServices(memory.NewStore(model.DefaultLimits())), &fakeSaver{}, Options{})

	c.Welcome(Startup{FileFound: false})
	assert.Contains(t, out.String(), "No save file found. Starting new database.")

	out.Reset()
	c.Welcome(Startup{FileFound: true, Counts: model.Counts{Patients: 2, Diseases: 1, Doctors: 3, Appointments: 4}})
	assert.Contains(t, out.String(), "Data loaded. Patients: 2, Diseases: 1, Doctors: 3, Appointments: 4")

	out.Reset()
	c.Welcome(Startup{FileFound: true, LoadErr: errors.New("bad magic"), QuarantinedTo: "data.bin.corrupt-1"})
	assert.Contains(t, out.String(), "could not load data: bad magic")
	assert.Contains(t, out.String(), "data.bin.corrupt-1")
	assert.Contains(t, out.String(), "Starting new database.")
}
