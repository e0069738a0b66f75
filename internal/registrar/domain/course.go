package domain

import (
	"fmt"
	"slices"
)

// CourseKind identifies a course variant.
type CourseKind string

const (
	KindTheory  CourseKind = "Theory"
	KindLab     CourseKind = "Lab"
	KindProject CourseKind = "Project"
)

// String returns the kind label as persisted.
func (k CourseKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is a recognized course variant.
func (k CourseKind) IsValid() bool {
	_, ok := kindTable[k]
	return ok
}

// kindSpec holds the constants fixed by a course variant.
type kindSpec struct {
	credits      int
	feePerCredit float64
}

var kindTable = map[CourseKind]kindSpec{
	KindTheory:  {credits: 3, feePerCredit: 1500.0},
	KindLab:     {credits: 2, feePerCredit: 2000.0},
	KindProject: {credits: 4, feePerCredit: 1200.0},
}

// Kinds returns every course kind in display order.
func Kinds() []CourseKind {
	return []CourseKind{KindTheory, KindLab, KindProject}
}

// ParseCourseKind converts a persisted label to a CourseKind.
func ParseCourseKind(s string) (CourseKind, error) {
	k := CourseKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCourseKind, s)
	}
	return k, nil
}

// Course is a capacity-limited offering of one variant.
// The enrolled set keeps enrollment order and never holds duplicates.
type Course struct {
	kind       CourseKind
	spec       kindSpec
	code       string
	title      string
	capacity   int
	instructor *Instructor

	enrolled []string
	index    map[string]struct{}
}

// NewCourse creates a course of the given kind. The instructor may be nil.
func NewCourse(kind CourseKind, code, title string, capacity int, instructor *Instructor) (*Course, error) {
	spec, ok := kindTable[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCourseKind, string(kind))
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Course{
		kind:       kind,
		spec:       spec,
		code:       code,
		title:      title,
		capacity:   capacity,
		instructor: instructor,
		index:      make(map[string]struct{}),
	}, nil
}

// Kind returns the course variant.
func (c *Course) Kind() CourseKind { return c.kind }

// Code returns the unique course code.
func (c *Course) Code() string { return c.code }

// Title returns the course title.
func (c *Course) Title() string { return c.title }

// SetTitle updates the course title.
func (c *Course) SetTitle(title string) { c.title = title }

// Capacity returns the number of seats.
func (c *Course) Capacity() int { return c.capacity }

// SetCapacity changes the number of seats. Shrinking below the current
// enrollment is allowed and evicts nobody; SeatsLeft then goes negative.
func (c *Course) SetCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	c.capacity = capacity
	return nil
}

// Instructor returns the assigned instructor, or nil when unassigned.
func (c *Course) Instructor() *Instructor { return c.instructor }

// SetInstructor assigns an instructor. Pass nil to unassign.
func (c *Course) SetInstructor(instructor *Instructor) { c.instructor = instructor }

// InstructorID returns the assigned instructor's id, or "" when unassigned.
func (c *Course) InstructorID() string {
	if c.instructor == nil {
		return ""
	}
	return c.instructor.ID()
}

// Credits returns the variant's credit count.
func (c *Course) Credits() int { return c.spec.credits }

// FeePerCredit returns the variant's fee per credit.
func (c *Course) FeePerCredit() float64 { return c.spec.feePerCredit }

// TotalFee returns credits × fee per credit.
func (c *Course) TotalFee() float64 {
	return float64(c.spec.credits) * c.spec.feePerCredit
}

// Enroll adds a student to the course.
// Returns ErrAlreadyEnrolled or ErrCourseFull without changing state.
func (c *Course) Enroll(studentID string) error {
	if _, ok := c.index[studentID]; ok {
		return ErrAlreadyEnrolled
	}
	if len(c.enrolled) >= c.capacity {
		return ErrCourseFull
	}
	c.enrolled = append(c.enrolled, studentID)
	c.index[studentID] = struct{}{}
	return nil
}

// Drop removes a student from the course.
// Returns ErrNotEnrolled if the student holds no seat.
func (c *Course) Drop(studentID string) error {
	if _, ok := c.index[studentID]; !ok {
		return ErrNotEnrolled
	}
	delete(c.index, studentID)
	c.enrolled = slices.DeleteFunc(c.enrolled, func(id string) bool { return id == studentID })
	return nil
}

// IsEnrolled reports whether the student holds a seat.
func (c *Course) IsEnrolled(studentID string) bool {
	_, ok := c.index[studentID]
	return ok
}

// EnrolledCount returns the number of occupied seats.
func (c *Course) EnrolledCount() int { return len(c.enrolled) }

// Enrolled returns a copy of the enrolled student ids in enrollment order.
func (c *Course) Enrolled() []string {
	out := make([]string, len(c.enrolled))
	copy(out, c.enrolled)
	return out
}

// SeatsLeft returns capacity minus the current enrollment.
func (c *Course) SeatsLeft() int {
	return c.capacity - len(c.enrolled)
}
