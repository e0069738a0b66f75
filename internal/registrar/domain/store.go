package domain

// Resource names one persisted collection of rows.
type Resource string

const (
	// ResourceStudents rows are id,name,email,program.
	ResourceStudents Resource = "students"
	// ResourceInstructors rows are id,name,email,department.
	ResourceInstructors Resource = "instructors"
	// ResourceCourses rows are kind,code,title,capacity,instructorId.
	ResourceCourses Resource = "courses"
	// ResourceEnrollments rows are studentId,courseCode.
	ResourceEnrollments Resource = "enrollments"
)

// String returns the resource name.
func (r Resource) String() string {
	return string(r)
}

// Fields returns the number of fields in a row of this resource.
func (r Resource) Fields() int {
	switch r {
	case ResourceStudents, ResourceInstructors:
		return 4
	case ResourceCourses:
		return 5
	case ResourceEnrollments:
		return 2
	default:
		return 0
	}
}

// Resources returns every resource in load order.
func Resources() []Resource {
	return []Resource{ResourceInstructors, ResourceStudents, ResourceCourses, ResourceEnrollments}
}

// RowStore defines the row-oriented persistence contract used by the registrar.
// Implementations may use flat files, SQLite, or other backends.
type RowStore interface {
	// Read returns every row of the resource in stored order.
	// A resource that does not exist yet yields an empty result, not an error.
	Read(res Resource) ([][]string, error)

	// WriteAll replaces the resource's content with rows.
	WriteAll(res Resource, rows [][]string) error

	// Append adds one row after the existing content.
	Append(res Resource, row []string) error
}
