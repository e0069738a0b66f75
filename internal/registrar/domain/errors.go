package domain

import "errors"

// ===========================================================================
// Enrollment Errors
// ===========================================================================

// ErrAlreadyEnrolled is returned when a student is enrolled in a course twice.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrCourseFull is returned when a course has no seats left.
var ErrCourseFull = errors.New("course full")

// ErrNotEnrolled is returned when dropping a student that is not in the course.
var ErrNotEnrolled = errors.New("student not in course")

// ===========================================================================
// Lookup Errors
// ===========================================================================

// ErrStudentNotFound is returned when a student id is not in the catalog.
var ErrStudentNotFound = errors.New("student not found")

// ErrCourseNotFound is returned when a course code is not in the catalog.
var ErrCourseNotFound = errors.New("course not found")

// ===========================================================================
// Construction Errors
// ===========================================================================

// ErrUnknownCourseKind is returned when a course kind is not Theory, Lab or Project.
var ErrUnknownCourseKind = errors.New("unknown course kind")

// ErrInvalidCapacity is returned when a course capacity is below one seat.
var ErrInvalidCapacity = errors.New("capacity must be at least 1")
