package registrar

import (
	"strconv"

	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// readRows, writeRows and appendRow are the only paths to the store.
// Each one logs a failure and returns normally. A failed read reports false
// and its rows must not be written back.

func (r *Registrar) readRows(res domain.Resource) ([][]string, bool) {
	rows, err := r.store.Read(res)
	if err != nil {
		log.ErrorErr(log.CatStore, "Read failed", err, "resource", res)
		return nil, false
	}
	return rows, true
}

func (r *Registrar) writeRows(res domain.Resource, rows [][]string) {
	if err := r.store.WriteAll(res, rows); err != nil {
		log.ErrorErr(log.CatStore, "Write failed, in-memory state kept", err, "resource", res, "rows", len(rows))
	}
}

func (r *Registrar) appendRow(res domain.Resource, row []string) {
	if err := r.store.Append(res, row); err != nil {
		log.ErrorErr(log.CatStore, "Append failed, in-memory state kept", err, "resource", res)
	}
}

func (r *Registrar) saveStudents() {
	students := r.students.values()
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, studentRow(s))
	}
	r.writeRows(domain.ResourceStudents, rows)
}

func (r *Registrar) saveInstructors() {
	instructors := r.instructors.values()
	rows := make([][]string, 0, len(instructors))
	for _, i := range instructors {
		rows = append(rows, instructorRow(i))
	}
	r.writeRows(domain.ResourceInstructors, rows)
}

func (r *Registrar) saveCourses() {
	courses := r.courses.values()
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, courseRow(c))
	}
	r.writeRows(domain.ResourceCourses, rows)
}

func studentRow(s *domain.Student) []string {
	return []string{s.ID(), s.Name(), s.Email(), s.Program()}
}

func instructorRow(i *domain.Instructor) []string {
	return []string{i.ID(), i.Name(), i.Email(), i.Department()}
}

func courseRow(c *domain.Course) []string {
	return []string{c.Kind().String(), c.Code(), c.Title(), strconv.Itoa(c.Capacity()), c.InstructorID()}
}
