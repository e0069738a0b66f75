package presentation

import (
	"github.com/zjrosen/registrar/internal/registrar"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// TBA is shown for a course with no instructor.
const TBA = "TBA"

// StudentDTO represents a student for presentation
type StudentDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Program string `json:"program"`
}

// InstructorDTO represents an instructor for presentation
type InstructorDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// CourseDTO represents a course with its computed seat and fee figures
type CourseDTO struct {
	Kind           string   `json:"kind"`
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	InstructorID   string   `json:"instructor_id,omitempty"`
	InstructorName string   `json:"instructor"`
	Capacity       int      `json:"capacity"`
	Enrolled       []string `json:"enrolled"` // always present, empty when no students
	SeatsLeft      int      `json:"seats_left"`
	Credits        int      `json:"credits"`
	FeePerCredit   float64  `json:"fee_per_credit"`
	TotalFee       float64  `json:"total_fee"`
}

// FeeLineDTO is one course on a fee statement
type FeeLineDTO struct {
	Code  string  `json:"code"`
	Title string  `json:"title"`
	Kind  string  `json:"kind"`
	Fee   float64 `json:"fee"`
}

// FeeStatementDTO is a student's courses with the summed fee
type FeeStatementDTO struct {
	Student  StudentDTO   `json:"student"`
	Courses  []FeeLineDTO `json:"courses"`
	Total    float64      `json:"total"`
	Currency string       `json:"currency"`
}

// FromStudent converts a domain student.
func FromStudent(s *domain.Student) StudentDTO {
	return StudentDTO{ID: s.ID(), Name: s.Name(), Email: s.Email(), Program: s.Program()}
}

// FromInstructor converts a domain instructor.
func FromInstructor(i *domain.Instructor) InstructorDTO {
	return InstructorDTO{ID: i.ID(), Name: i.Name(), Email: i.Email(), Department: i.Department()}
}

// FromCourse converts a domain course, naming the instructor or TBA.
func FromCourse(c *domain.Course) CourseDTO {
	return CourseDTO{
		Kind:           c.Kind().String(),
		Code:           c.Code(),
		Title:          c.Title(),
		InstructorID:   c.InstructorID(),
		InstructorName: InstructorName(c),
		Capacity:       c.Capacity(),
		Enrolled:       c.Enrolled(),
		SeatsLeft:      c.SeatsLeft(),
		Credits:        c.Credits(),
		FeePerCredit:   c.FeePerCredit(),
		TotalFee:       c.TotalFee(),
	}
}

// FromFeeStatement converts a registrar fee statement.
func FromFeeStatement(st registrar.FeeStatement, currency string) FeeStatementDTO {
	lines := make([]FeeLineDTO, len(st.Courses))
	for i, c := range st.Courses {
		lines[i] = FeeLineDTO{Code: c.Code(), Title: c.Title(), Kind: c.Kind().String(), Fee: c.TotalFee()}
	}
	return FeeStatementDTO{
		Student:  FromStudent(st.Student),
		Courses:  lines,
		Total:    st.Total,
		Currency: currency,
	}
}

// InstructorName returns the course instructor's name, or TBA.
func InstructorName(c *domain.Course) string {
	if inst := c.Instructor(); inst != nil {
		return inst.Name()
	}
	return TBA
}
