// Package console runs the registrar menu as a line-oriented loop over any
// reader and writer. Commands holds the menu actions and is shared with the
// terminal UI.
package console

import (
	"context"

	"github.com/zjrosen/registrar/internal/intake"
	"github.com/zjrosen/registrar/internal/presentation"
	"github.com/zjrosen/registrar/internal/registrar"
)

// Choice is a numbered menu option.
type Choice int

const (
	ChoiceListCourses Choice = iota + 1
	ChoiceListStudents
	ChoiceEnroll
	ChoiceDrop
	ChoiceAddStudent
	ChoiceExit
)

// MenuItems are the option labels in menu order.
var MenuItems = []string{
	"List courses",
	"List students",
	"Enroll student to course",
	"Drop student from course",
	"Add new student",
	"Exit",
}

// Label returns the menu text for c, or "" when out of range.
func (c Choice) Label() string {
	if c < ChoiceListCourses || c > ChoiceExit {
		return ""
	}
	return MenuItems[c-1]
}

// Result messages printed after a successful action.
const (
	MsgEnrolled     = "Enrolled successfully."
	MsgDropped      = "Dropped successfully."
	MsgStudentAdded = "Student added."
	MsgGoodbye      = "Goodbye!"
	MsgInvalid      = "Invalid."
)

// Commands performs menu actions against a registrar.
type Commands struct {
	reg      *registrar.Registrar
	intake   *intake.Validator
	currency string
}

// NewCommands creates Commands rendering fees in currency.
func NewCommands(reg *registrar.Registrar, currency string) *Commands {
	if currency == "" {
		currency = presentation.DefaultCurrency
	}
	return &Commands{reg: reg, intake: intake.New(), currency: currency}
}

// Registrar returns the underlying registrar.
func (c *Commands) Registrar() *registrar.Registrar {
	return c.reg
}

// CourseLines renders every course.
func (c *Commands) CourseLines() []string {
	courses := c.reg.Courses()
	out := make([]string, len(courses))
	for i, course := range courses {
		out[i] = presentation.CourseLine(course, c.currency)
	}
	return out
}

// StudentLines renders every student.
func (c *Commands) StudentLines() []string {
	students := c.reg.Students()
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = presentation.StudentLine(s)
	}
	return out
}

// Enroll seats a student in a course.
func (c *Commands) Enroll(ctx context.Context, studentID, courseCode string) error {
	return c.reg.Enroll(ctx, studentID, courseCode)
}

// Drop removes a student from a course.
func (c *Commands) Drop(ctx context.Context, studentID, courseCode string) error {
	return c.reg.Drop(ctx, studentID, courseCode)
}

// AddStudent validates the form and adds or replaces the student.
// Returns the stored id, which is generated when the form's id is blank.
func (c *Commands) AddStudent(ctx context.Context, in intake.StudentInput) (string, error) {
	s, err := c.intake.Student(in)
	if err != nil {
		return "", err
	}
	c.reg.AddStudent(ctx, s)
	return s.ID(), nil
}
