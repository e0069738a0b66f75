package presentation

import (
	"encoding/json"
	"io"

	"github.com/zjrosen/registrar/internal/registrar"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// Formatter handles output formatting
type Formatter struct {
	writer   io.Writer
	currency string
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer, currency string) *Formatter {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Formatter{
		writer:   writer,
		currency: currency,
	}
}

// FormatCourses writes courses as a JSON array
func (f *Formatter) FormatCourses(courses []*domain.Course) error {
	dtos := make([]CourseDTO, len(courses))
	for i, c := range courses {
		dtos[i] = FromCourse(c)
	}
	return f.encode(dtos)
}

// FormatStudents writes students as a JSON array
func (f *Formatter) FormatStudents(students []*domain.Student) error {
	dtos := make([]StudentDTO, len(students))
	for i, s := range students {
		dtos[i] = FromStudent(s)
	}
	return f.encode(dtos)
}

// FormatInstructors writes instructors as a JSON array
func (f *Formatter) FormatInstructors(instructors []*domain.Instructor) error {
	dtos := make([]InstructorDTO, len(instructors))
	for i, inst := range instructors {
		dtos[i] = FromInstructor(inst)
	}
	return f.encode(dtos)
}

// FormatFeeStatement writes a fee statement as JSON
func (f *Formatter) FormatFeeStatement(st registrar.FeeStatement) error {
	return f.encode(FromFeeStatement(st, f.currency))
}

// FormatFeeStatementText writes the fee statement as indented text.
func (f *Formatter) FormatFeeStatementText(st registrar.FeeStatement) error {
	_, err := io.WriteString(f.writer, FeeStatementText(st, f.currency))
	return err
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
