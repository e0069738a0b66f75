// Package registrar owns the student, instructor and course catalogs,
// orchestrates enrollment across them, and keeps the row store in sync.
//
// A Registrar is not safe for concurrent use; every call is expected to come
// from one goroutine. Persistence is best-effort: a failed write is logged and
// the in-memory change stands.
package registrar

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar/domain"
	"github.com/zjrosen/registrar/internal/tracing"
)

// Registrar manages the catalogs and enrollments.
type Registrar struct {
	store  domain.RowStore
	tracer trace.Tracer
	seed   bool

	students    *catalog[string, *domain.Student]
	instructors *catalog[string, *domain.Instructor]
	courses     *catalog[string, *domain.Course]
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithSeed enables or disables demo seeding of an empty store (default on).
func WithSeed(seed bool) Option {
	return func(r *Registrar) { r.seed = seed }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registrar) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// New creates a Registrar and loads its state from store.
// Instructors, students and courses are loaded in that order, persisted
// enrollments are replayed, and an empty store is seeded with demo data.
func New(ctx context.Context, store domain.RowStore, opts ...Option) *Registrar {
	r := &Registrar{
		store:  store,
		tracer: noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
		seed:   true,
	}
	for _, opt := range opts {
		opt(r)
	}

	ctx, span := r.tracer.Start(ctx, tracing.SpanBootstrap)
	defer span.End()

	cats, ok := r.load()
	r.use(cats)
	switch {
	case r.seed && ok:
		r.seedDemo(ctx)
	case r.seed:
		log.Warn(log.CatRegistrar, "Store unreadable, demo seeding skipped")
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrStudents, r.students.len()),
		attribute.Int(tracing.AttrInstructors, r.instructors.len()),
		attribute.Int(tracing.AttrCourses, r.courses.len()),
	)

	log.Info(log.CatRegistrar, "Registrar ready",
		"students", r.students.len(), "instructors", r.instructors.len(), "courses", r.courses.len())
	return r
}

// Reload rebuilds the catalogs from the store. When any resource cannot be
// read the current catalogs are kept and false is returned. No demo data is
// seeded.
func (r *Registrar) Reload(ctx context.Context) bool {
	_, span := r.tracer.Start(ctx, tracing.SpanReload)
	defer span.End()

	cats, ok := r.load()
	if !ok {
		log.Warn(log.CatRegistrar, "Reload failed, keeping current state")
		span.SetStatus(codes.Error, "store read failed")
		return false
	}
	r.use(cats)

	log.Info(log.CatRegistrar, "Reloaded from store",
		"students", r.students.len(), "instructors", r.instructors.len(), "courses", r.courses.len())
	return true
}

// ===========================================================================
// Catalog management
// ===========================================================================

// AddStudent inserts or replaces a student, then rewrites the students resource.
func (r *Registrar) AddStudent(ctx context.Context, s *domain.Student) {
	_, span := r.tracer.Start(ctx, tracing.SpanAddStudent,
		trace.WithAttributes(attribute.String(tracing.AttrStudentID, s.ID())))
	defer span.End()

	r.students.put(s.ID(), s)
	r.saveStudents()
}

// AddInstructor inserts or replaces an instructor, then rewrites the instructors resource.
func (r *Registrar) AddInstructor(ctx context.Context, i *domain.Instructor) {
	_, span := r.tracer.Start(ctx, tracing.SpanAddInstructor,
		trace.WithAttributes(attribute.String(tracing.AttrInstructorID, i.ID())))
	defer span.End()

	r.instructors.put(i.ID(), i)
	r.saveInstructors()
}

// AddCourse inserts or replaces a course, then rewrites the courses resource.
func (r *Registrar) AddCourse(ctx context.Context, c *domain.Course) {
	_, span := r.tracer.Start(ctx, tracing.SpanAddCourse,
		trace.WithAttributes(attribute.String(tracing.AttrCourseCode, c.Code())))
	defer span.End()

	r.courses.put(c.Code(), c)
	r.saveCourses()
}

// Student looks up a student by id.
func (r *Registrar) Student(id string) (*domain.Student, bool) {
	return r.students.get(id)
}

// Instructor looks up an instructor by id.
func (r *Registrar) Instructor(id string) (*domain.Instructor, bool) {
	return r.instructors.get(id)
}

// Course looks up a course by code.
func (r *Registrar) Course(code string) (*domain.Course, bool) {
	return r.courses.get(code)
}

// Students returns all students in insertion order.
func (r *Registrar) Students() []*domain.Student {
	return r.students.values()
}

// Instructors returns all instructors in insertion order.
func (r *Registrar) Instructors() []*domain.Instructor {
	return r.instructors.values()
}

// Courses returns all courses in insertion order.
func (r *Registrar) Courses() []*domain.Course {
	return r.courses.values()
}

// ===========================================================================
// Enrollment
// ===========================================================================

// Enroll seats a student in a course and appends the enrollment record.
// Returns ErrStudentNotFound, ErrCourseNotFound, or the course's own
// ErrAlreadyEnrolled / ErrCourseFull unchanged.
func (r *Registrar) Enroll(ctx context.Context, studentID, courseCode string) error {
	_, span := r.tracer.Start(ctx, tracing.SpanEnroll, trace.WithAttributes(
		attribute.String(tracing.AttrStudentID, studentID),
		attribute.String(tracing.AttrCourseCode, courseCode),
	))
	defer span.End()

	if _, ok := r.students.get(studentID); !ok {
		return spanError(span, domain.ErrStudentNotFound)
	}
	c, ok := r.courses.get(courseCode)
	if !ok {
		return spanError(span, domain.ErrCourseNotFound)
	}
	if err := c.Enroll(studentID); err != nil {
		return spanError(span, err)
	}

	r.appendRow(domain.ResourceEnrollments, []string{studentID, courseCode})
	log.Debug(log.CatRegistrar, "Enrolled", "student", studentID, "course", courseCode)
	return nil
}

// Drop releases a student's seat and rewrites the enrollment records without
// the pair. Returns ErrCourseNotFound or the course's ErrNotEnrolled unchanged.
func (r *Registrar) Drop(ctx context.Context, studentID, courseCode string) error {
	_, span := r.tracer.Start(ctx, tracing.SpanDrop, trace.WithAttributes(
		attribute.String(tracing.AttrStudentID, studentID),
		attribute.String(tracing.AttrCourseCode, courseCode),
	))
	defer span.End()

	c, ok := r.courses.get(courseCode)
	if !ok {
		return spanError(span, domain.ErrCourseNotFound)
	}
	if err := c.Drop(studentID); err != nil {
		return spanError(span, err)
	}

	rows, ok := r.readRows(domain.ResourceEnrollments)
	if !ok {
		log.Warn(log.CatRegistrar, "Drop not persisted, enrollments unreadable",
			"student", studentID, "course", courseCode)
		return nil
	}
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) >= 2 && row[0] == studentID && row[1] == courseCode {
			continue
		}
		kept = append(kept, row)
	}
	r.writeRows(domain.ResourceEnrollments, kept)
	log.Debug(log.CatRegistrar, "Dropped", "student", studentID, "course", courseCode)
	return nil
}

// CoursesFor returns the courses a student is enrolled in, in catalog order.
func (r *Registrar) CoursesFor(studentID string) []*domain.Course {
	out := make([]*domain.Course, 0)
	for _, c := range r.courses.values() {
		if c.IsEnrolled(studentID) {
			out = append(out, c)
		}
	}
	return out
}

// FeeStatement lists a student's courses with the summed fee.
type FeeStatement struct {
	Student *domain.Student
	Courses []*domain.Course
	Total   float64
}

// FeeStatement builds the fee statement for a student.
// Returns ErrStudentNotFound if the student is not in the catalog.
func (r *Registrar) FeeStatement(studentID string) (FeeStatement, error) {
	s, ok := r.students.get(studentID)
	if !ok {
		return FeeStatement{}, domain.ErrStudentNotFound
	}
	st := FeeStatement{Student: s, Courses: r.CoursesFor(studentID)}
	for _, c := range st.Courses {
		st.Total += c.TotalFee()
	}
	return st, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
