// Package console is the interactive menu front end. It reads one choice at
// a time and calls exactly one service operation for it.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jwalitptl/hms/internal/model"
	"github.com/jwalitptl/hms/internal/service/appointment"
	"github.com/jwalitptl/hms/internal/service/disease"
	"github.com/jwalitptl/hms/internal/service/doctor"
	"github.com/jwalitptl/hms/internal/service/patient"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
	"github.com/jwalitptl/hms/pkg/logger"
)

const (
	choiceExit = 15
	msgBadID   = "Invalid ID."
)

type AppointmentService interface {
	Schedule(ctx context.Context, req *model.CreateAppointmentRequest) (*appointment.ScheduleResult, error)
	GetAppointment(ctx context.Context, id int) (*model.Appointment, error)
	ListAppointments(ctx context.Context) ([]*model.Appointment, error)
	CancelAppointment(ctx context.Context, id int, confirmed bool) (*model.Appointment, error)
}

// Saver writes the database to its data file.
type Saver interface {
	Save(ctx context.Context) error
}

type Services struct {
	Patients     patient.PatientService
	Doctors      doctor.Service
	Diseases     disease.Service
	Appointments AppointmentService
}

type Options struct {
	// Pause waits for Enter after each action before showing the menu again.
	Pause  bool
	Logger *logger.Logger
}

type Console struct {
	in     *prompter
	out    io.Writer
	styles styles
	pause  bool
	logger *logger.Logger

	patients     patient.PatientService
	doctors      doctor.Service
	diseases     disease.Service
	appointments AppointmentService
	saver        Saver
}

func New(in io.Reader, out io.Writer, svc Services, saver Saver, opts Options) *Console {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	st := newStyles(out)
	return &Console{
		in:           newPrompter(in, out, st),
		out:          out,
		styles:       st,
		pause:        opts.Pause,
		logger:       log.With("console"),
		patients:     svc.Patients,
		doctors:      svc.Doctors,
		diseases:     svc.Diseases,
		appointments: svc.Appointments,
		saver:        saver,
	}
}

// Run shows the menu until the operator exits or input ends. Both paths
// save before returning; the save error, if any, is returned.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return c.exit(ctx)
		}

		c.renderMenu()
		choice, err := c.in.integer("\nEnter your choice: ")
		if err != nil {
			return c.exitOn(ctx, err)
		}
		if choice == choiceExit {
			return c.exit(ctx)
		}

		if err := c.dispatch(ctx, choice); err != nil {
			return c.exitOn(ctx, err)
		}

		if c.pause {
			if _, err := c.in.line("\nPress Enter to return to menu...", 0); err != nil {
				return c.exitOn(ctx, err)
			}
		}
	}
}

// dispatch runs one menu action. Only input errors are returned; operation
// failures are reported to the operator.
func (c *Console) dispatch(ctx context.Context, choice int) error {
	c.logger.Debug("menu choice", "choice", choice)
	switch choice {
	case 1:
		return c.addPatient(ctx)
	case 2:
		c.viewPatients(ctx)
	case 3:
		return c.searchPatientByID(ctx)
	case 4:
		return c.searchPatientByName(ctx)
	case 5:
		return c.deletePatient(ctx)
	case 6:
		c.sortPatients(ctx)
	case 7:
		return c.addDoctor(ctx)
	case 8:
		c.viewDoctors(ctx)
	case 9:
		return c.addDisease(ctx)
	case 10:
		c.viewDiseases(ctx)
	case 11:
		return c.scheduleAppointment(ctx)
	case 12:
		c.viewAppointments(ctx)
	case 13:
		return c.cancelAppointment(ctx)
	case 14:
		c.save(ctx)
	default:
		c.failure("Invalid choice. Try again.")
	}
	return nil
}

func (c *Console) exitOn(ctx context.Context, err error) error {
	if !errors.Is(err, io.EOF) {
		c.logger.Error(err, "failed to read input")
	}
	c.println("")
	return c.exit(ctx)
}

func (c *Console) exit(ctx context.Context) error {
	err := c.save(context.WithoutCancel(ctx))
	c.info("Exiting. Goodbye!")
	return err
}

func (c *Console) save(ctx context.Context) error {
	if err := c.saver.Save(ctx); err != nil {
		c.failure("Error: could not save data: %v", err)
		return err
	}
	c.success("Data saved successfully.")
	return nil
}

func (c *Console) addPatient(ctx context.Context) error {
	c.info("\n--- New Patient Registration ---")
	p := &model.Patient{}
	var err error
	if p.Name, err = c.in.line("Enter patient name: ", model.MaxNameLen); err != nil {
		return err
	}
	if p.Age, err = c.in.integer("Enter age: "); err != nil {
		return err
	}
	if p.Gender, err = c.in.line("Enter gender: ", model.MaxGenderLen); err != nil {
		return err
	}
	if p.Phone, err = c.in.line("Enter phone number: ", model.MaxPhoneLen); err != nil {
		return err
	}

	c.info("\n--- Diagnosis & Assignment ---")
	if p.Disease, err = c.in.line("Enter patient's disease/condition: ", model.MaxDiseaseLen); err != nil {
		return err
	}

	doctors, err := c.doctors.ListDoctors(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	if len(doctors) > 0 {
		c.notice("\n--- Assign a Doctor ---")
		c.renderDoctors(doctors)
		if p.DoctorID, err = c.in.integer("Enter Doctor ID to assign (or 0 for none): "); err != nil {
			return err
		}
	}

	requested := p.DoctorID
	assignment, err := c.patients.CreatePatient(ctx, p)
	if err != nil {
		c.reportError(err)
		return nil
	}

	switch {
	case len(doctors) == 0:
		c.notice("No doctors in system. Patient assigned 'None'.")
	case assignment == model.AssignmentAssigned:
		c.success("Doctor (ID: %d) assigned.", requested)
	case assignment == model.AssignmentUnknownDoctor:
		c.failure("No doctor found with ID %d. Patient assigned 'None'.", requested)
	default:
		c.notice("Patient assigned 'None'.")
	}
	c.success("\nPatient added successfully! (ID: %d)", p.ID)
	return nil
}

func (c *Console) viewPatients(ctx context.Context) {
	patients, err := c.patients.ListPatients(ctx)
	if err != nil {
		c.reportError(err)
		return
	}
	if len(patients) == 0 {
		c.notice("No patients available.")
		return
	}
	c.renderHeader("PATIENT LIST")
	for _, p := range patients {
		c.renderPatient(ctx, p)
		c.println(separator)
	}
}

func (c *Console) searchPatientByID(ctx context.Context) error {
	id, err := c.in.integer("\nEnter patient ID to search: ")
	if err != nil {
		return err
	}
	if id <= 0 {
		c.failure(msgBadID)
		return nil
	}

	p, err := c.patients.GetPatient(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			c.notice("Patient with ID %d not found.", id)
			return nil
		}
		c.reportError(err)
		return nil
	}
	c.success("\nPatient Found!")
	c.renderPatient(ctx, p)
	return nil
}

func (c *Console) searchPatientByName(ctx context.Context) error {
	name, err := c.in.line("\nEnter patient name to search: ", model.MaxNameLen)
	if err != nil {
		return err
	}

	matches, err := c.patients.SearchByName(ctx, name)
	if err != nil {
		c.reportError(err)
		return nil
	}
	if len(matches) == 0 {
		c.notice("No patient named '%s' found.", name)
		return nil
	}
	c.success("\nMatches:")
	for _, p := range matches {
		c.println(fmt.Sprintf("ID: %d | Name: %s | Disease: %s", p.ID, p.Name, p.Disease))
	}
	return nil
}

func (c *Console) deletePatient(ctx context.Context) error {
	id, err := c.in.integer("\nEnter patient ID to delete: ")
	if err != nil {
		return err
	}
	if id <= 0 {
		c.failure(msgBadID)
		return nil
	}

	p, err := c.patients.GetPatient(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			c.notice("No patient found with ID %d.", id)
			return nil
		}
		c.reportError(err)
		return nil
	}

	confirmed, err := c.in.confirm(fmt.Sprintf("Found: %s. Are you sure you want to delete? (y/n): ", p.Name))
	if err != nil {
		return err
	}
	removed, err := c.patients.DeletePatient(ctx, id, confirmed)
	switch {
	case err != nil:
		c.reportError(err)
	case removed == nil:
		c.info("Deletion canceled.")
	default:
		c.success("Patient deleted successfully.")
	}
	return nil
}

func (c *Console) sortPatients(ctx context.Context) {
	n, err := c.patients.SortByName(ctx)
	if err != nil {
		c.reportError(err)
		return
	}
	if n < 2 {
		c.notice("Not enough patients to sort.")
		return
	}
	c.success("Patients sorted by name. Please use 'View All Patients' to see the new order.")
}

func (c *Console) addDoctor(ctx context.Context) error {
	c.info("\n--- New Doctor Registration ---")
	d := &model.Doctor{}
	var err error
	if d.Name, err = c.in.line("Enter doctor name (e.g., Dr. Smith): ", model.MaxNameLen); err != nil {
		return err
	}
	if d.Specialization, err = c.in.line("Enter specialization: ", model.MaxSpecializationLen); err != nil {
		return err
	}
	if d.Phone, err = c.in.line("Enter phone: ", model.MaxPhoneLen); err != nil {
		return err
	}

	if err := c.doctors.AddDoctor(ctx, d); err != nil {
		c.reportError(err)
		return nil
	}
	c.success("Doctor added successfully! (ID: %d)", d.ID)
	return nil
}

func (c *Console) viewDoctors(ctx context.Context) {
	doctors, err := c.doctors.ListDoctors(ctx)
	if err != nil {
		c.reportError(err)
		return
	}
	if len(doctors) == 0 {
		c.notice("No doctors added yet.")
		return
	}
	c.renderDoctors(doctors)
}

func (c *Console) addDisease(ctx context.Context) error {
	c.info("\n--- Add to Disease Reference Database ---")
	d := &model.Disease{}
	var err error
	if d.Name, err = c.in.line("Enter disease name: ", model.MaxNameLen); err != nil {
		return err
	}
	if d.Symptoms, err = c.in.line("Enter common symptoms: ", model.MaxSymptomsLen); err != nil {
		return err
	}
	if d.Treatment, err = c.in.line("Enter common treatment: ", model.MaxTreatmentLen); err != nil {
		return err
	}

	if err := c.diseases.AddDisease(ctx, d); err != nil {
		c.reportError(err)
		return nil
	}
	c.success("Disease reference added successfully! (ID: %d)", d.ID)
	return nil
}

func (c *Console) viewDiseases(ctx context.Context) {
	diseases, err := c.diseases.ListDiseases(ctx)
	if err != nil {
		c.reportError(err)
		return
	}
	if len(diseases) == 0 {
		c.notice("No diseases recorded in reference database.")
		return
	}
	c.renderHeader("DISEASE REFERENCE DATABASE")
	for _, d := range diseases {
		c.renderDisease(d)
	}
}

func (c *Console) scheduleAppointment(ctx context.Context) error {
	patients, err := c.patients.ListPatients(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	doctors, err := c.doctors.ListDoctors(ctx)
	if err != nil {
		c.reportError(err)
		return nil
	}
	if len(patients) == 0 || len(doctors) == 0 {
		c.notice("Need at least one patient and one doctor to schedule.")
		return nil
	}

	c.info("\n--- Schedule New Appointment ---")
	req := &model.CreateAppointmentRequest{}
	if req.PatientID, err = c.in.integer("Enter patient ID: "); err != nil {
		return err
	}
	if req.DoctorID, err = c.in.integer("Enter doctor ID: "); err != nil {
		return err
	}
	if req.Date, err = c.in.line("Enter date (YYYY-MM-DD): ", model.MaxDateLen); err != nil {
		return err
	}
	if req.Time, err = c.in.line("Enter time (HH:MM): ", model.MaxTimeLen); err != nil {
		return err
	}

	result, err := c.appointments.Schedule(ctx, req)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrUnknownPatient) || apperrors.HasCode(err, apperrors.ErrUnknownDoctor) {
			c.notice("Invalid patient or doctor ID.")
			return nil
		}
		c.reportError(err)
		return nil
	}

	patientName := c.patients.ResolveName(ctx, req.PatientID)
	doctorName := c.doctors.ResolveName(ctx, req.DoctorID)
	if result.PrimaryDoctorAssigned {
		c.info("Note: %s has been set as the primary doctor for %s.", doctorName, patientName)
	}
	a := result.Appointment
	c.success("Appointment scheduled (ID: %d) for patient %s with %s on %s %s", a.ID, patientName, doctorName, a.Date, a.Time)
	return nil
}

func (c *Console) viewAppointments(ctx context.Context) {
	appointments, err := c.appointments.ListAppointments(ctx)
	if err != nil {
		c.reportError(err)
		return
	}
	if len(appointments) == 0 {
		c.notice("No appointments scheduled.")
		return
	}
	c.renderHeader("APPOINTMENTS")
	for _, a := range appointments {
		c.renderAppointment(ctx, a)
	}
}

func (c *Console) cancelAppointment(ctx context.Context) error {
	id, err := c.in.integer("\nEnter appointment ID to cancel: ")
	if err != nil {
		return err
	}
	if id <= 0 {
		c.failure(msgBadID)
		return nil
	}

	a, err := c.appointments.GetAppointment(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			c.notice("No appointment found with ID %d.", id)
			return nil
		}
		c.reportError(err)
		return nil
	}

	prompt := fmt.Sprintf("Found appointment for %s. Are you sure? (y/n): ", c.patients.ResolveName(ctx, a.PatientID))
	confirmed, err := c.in.confirm(prompt)
	if err != nil {
		return err
	}
	removed, err := c.appointments.CancelAppointment(ctx, id, confirmed)
	switch {
	case err != nil:
		c.reportError(err)
	case removed == nil:
		c.info("Canceled.")
	default:
		c.success("Appointment canceled.")
	}
	return nil
}

// reportError shows an operation failure without ending the session.
func (c *Console) reportError(err error) {
	c.logger.Warn("operation failed", "code", apperrors.CodeOf(err).String(), "error", err.Error())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCapacityExceeded:
			c.failure("Error: %s.", appErr.Message)
			return
		case apperrors.ErrInvalidInput:
			c.failure("Invalid input: %s.", appErr.Message)
			return
		}
	}
	c.failure("Error: %v", err)
}

// Startup describes how the database was obtained at launch.
type Startup struct {
	Counts    model.Counts
	FileFound bool
	// LoadErr is set when the data file could not be used and the session
	// started empty. QuarantinedTo names where a corrupt file was moved.
	LoadErr       error
	QuarantinedTo string
}

// Welcome prints the startup load result.
func (c *Console) Welcome(s Startup) {
	switch {
	case s.LoadErr != nil:
		c.failure("Error: could not load data: %v", s.LoadErr)
		if s.QuarantinedTo != "" {
			c.notice("The unreadable file was moved to %s.", s.QuarantinedTo)
		}
		c.notice("Starting new database.")
	case !s.FileFound:
		c.notice("No save file found. Starting new database.")
	default:
		c.info("Data loaded. Patients: %d, Diseases: %d, Doctors: %d, Appointments: %d",
			s.Counts.Patients, s.Counts.Diseases, s.Counts.Doctors, s.Counts.Appointments)
	}
}
