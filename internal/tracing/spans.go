package tracing

// Span names for registrar operations.
const (
	SpanBootstrap     = "registrar.bootstrap"
	SpanReload        = "registrar.reload"
	SpanAddStudent    = "registrar.add_student"
	SpanAddInstructor = "registrar.add_instructor"
	SpanAddCourse     = "registrar.add_course"
	SpanEnroll        = "registrar.enroll"
	SpanDrop          = "registrar.drop"
)

// Span attribute keys.
const (
	AttrStudentID    = "student.id"
	AttrCourseCode   = "course.code"
	AttrInstructorID = "instructor.id"

	AttrStudents    = "registrar.students"
	AttrInstructors = "registrar.instructors"
	AttrCourses     = "registrar.courses"
)
