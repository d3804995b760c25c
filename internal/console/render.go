package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwalitptl/hms/internal/model"
)

const (
	separator   = "----------------------------------"
	notAssigned = "Not Assigned"
)

type menuItem struct {
	number int
	label  string
}

var menuSections = []struct {
	title string
	items []menuItem
}{
	{"Patient Management", []menuItem{
		{1, "Add Patient (Full Intake)"},
		{2, "View All Patients"},
		{3, "Search Patient by ID"},
		{4, "Search Patient by Name"},
		{5, "Delete Patient"},
		{6, "Sort Patients by Name"},
	}},
	{"Staff & Reference", []menuItem{
		{7, "Add Doctor"},
		{8, "View Doctors"},
		{9, "Add Disease (Reference)"},
		{10, "View Diseases (Reference)"},
	}},
	{"Scheduling", []menuItem{
		{11, "Schedule Appointment"},
		{12, "View Appointments"},
		{13, "Cancel Appointment"},
	}},
	{"System", []menuItem{
		{14, "Save Data Now"},
		{15, "Exit"},
	}},
}

func (c *Console) renderMenu() {
	rule := "============================================"
	c.println(c.styles.title.Render(rule))
	c.println(c.styles.title.Render("    Professional Hospital Management System"))
	c.println(c.styles.title.Render(rule))
	for _, section := range menuSections {
		c.println("")
		c.println(c.styles.section.Render(section.title))
		for _, item := range section.items {
			c.println(c.styles.number.Render(fmt.Sprintf(" %d.", item.number)) + " " + item.label)
		}
	}
}

func (c *Console) renderHeader(title string) {
	c.println("")
	c.println(c.styles.header.Render(fmt.Sprintf("========== %s ==========", title)))
}

// doctorLine describes a patient's primary doctor for display.
func (c *Console) doctorLine(ctx context.Context, p *model.Patient) string {
	if !p.HasDoctor() {
		return "Doctor: " + notAssigned
	}
	return fmt.Sprintf("Doctor: %s (ID: %d)", c.doctors.ResolveName(ctx, p.DoctorID), p.DoctorID)
}

func (c *Console) renderPatient(ctx context.Context, p *model.Patient) {
	c.println(c.styles.label.Render(fmt.Sprintf("ID: %d", p.ID)))
	c.println("Name: " + p.Name)
	c.println(fmt.Sprintf("Age: %d", p.Age))
	c.println("Gender: " + p.Gender)
	c.println("Phone: " + p.Phone)
	c.println(c.styles.warn.Render("Disease: " + p.Disease))
	if p.HasDoctor() {
		c.println(c.styles.success.Render(c.doctorLine(ctx, p)))
	} else {
		c.println(c.styles.err.Render(c.doctorLine(ctx, p)))
	}
}

func (c *Console) renderDoctors(doctors []*model.Doctor) {
	c.renderHeader("DOCTOR LIST")
	for _, d := range doctors {
		c.println(c.styles.info.Render(fmt.Sprintf("ID: %d", d.ID)) +
			fmt.Sprintf(" | Name: %s | Specialization: %s", d.Name, d.Specialization))
		c.println(separator)
	}
}

func (c *Console) renderDisease(d *model.Disease) {
	c.println(c.styles.label.Render(fmt.Sprintf("ID: %d", d.ID)))
	c.println(c.styles.label.Render("Name: " + d.Name))
	c.println("Symptoms: " + d.Symptoms)
	c.println("Treatment: " + d.Treatment)
	c.println(separator)
}

func (c *Console) renderAppointment(ctx context.Context, a *model.Appointment) {
	c.println(c.styles.label.Render(fmt.Sprintf("Appointment ID: %d", a.ID)))
	c.println(fmt.Sprintf("Patient: %s (ID: %d)", c.patients.ResolveName(ctx, a.PatientID), a.PatientID))
	c.println(fmt.Sprintf("Doctor: %s (ID: %d)", c.doctors.ResolveName(ctx, a.DoctorID), a.DoctorID))
	c.println("Date: " + a.Date)
	c.println("Time: " + a.Time)
	c.println(separator)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) success(format string, args ...interface{}) {
	c.emit(c.styles.success, fmt.Sprintf(format, args...))
}

func (c *Console) notice(format string, args ...interface{}) {
	c.emit(c.styles.warn, fmt.Sprintf(format, args...))
}

func (c *Console) info(format string, args ...interface{}) {
	c.emit(c.styles.info, fmt.Sprintf(format, args...))
}

func (c *Console) failure(format string, args ...interface{}) {
	c.emit(c.styles.err, fmt.Sprintf(format, args...))
}

// emit prints leading blank lines unstyled; lipgloss pads every line of a
// multi-line block to the same width.
func (c *Console) emit(style lipgloss.Style, s string) {
	body := strings.TrimLeft(s, "\n")
	fmt.Fprint(c.out, s[:len(s)-len(body)])
	c.println(style.Render(body))
}
