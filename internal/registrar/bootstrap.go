package registrar

import (
	"context"
	"strconv"
	"strings"

	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// catalogs is one consistent view of the store.
type catalogs struct {
	students    *catalog[string, *domain.Student]
	instructors *catalog[string, *domain.Instructor]
	courses     *catalog[string, *domain.Course]
}

func newCatalogs() catalogs {
	return catalogs{
		students:    newCatalog[string, *domain.Student](),
		instructors: newCatalog[string, *domain.Instructor](),
		courses:     newCatalog[string, *domain.Course](),
	}
}

// load builds fresh catalogs from the store and replays enrollments.
// Course rows resolve their instructor by id, so instructors load first.
// ok is false when any resource could not be read.
func (r *Registrar) load() (cats catalogs, ok bool) {
	cats = newCatalogs()
	ok = true

	rows, readOK := r.readRows(domain.ResourceInstructors)
	ok = ok && readOK
	for _, row := range rows {
		if len(row) < domain.ResourceInstructors.Fields() {
			continue
		}
		cats.instructors.put(row[0], domain.NewInstructor(row[0], row[1], row[2], row[3]))
	}

	rows, readOK = r.readRows(domain.ResourceStudents)
	ok = ok && readOK
	for _, row := range rows {
		if len(row) < domain.ResourceStudents.Fields() {
			continue
		}
		cats.students.put(row[0], domain.NewStudent(row[0], row[1], row[2], row[3]))
	}

	rows, readOK = r.readRows(domain.ResourceCourses)
	ok = ok && readOK
	for _, row := range rows {
		if len(row) < domain.ResourceCourses.Fields() {
			continue
		}
		c, err := courseFromRow(cats.instructors, row)
		if err != nil {
			log.Warn(log.CatRegistrar, "Skipping course row", "code", row[1], "error", err.Error())
			continue
		}
		cats.courses.put(c.Code(), c)
	}

	rows, readOK = r.readRows(domain.ResourceEnrollments)
	ok = ok && readOK
	replayEnrollments(cats.courses, rows)
	return cats, ok
}

func (r *Registrar) use(cats catalogs) {
	r.students = cats.students
	r.instructors = cats.instructors
	r.courses = cats.courses
}

// courseFromRow builds a course from kind,code,title,capacity,instructorId.
// An unknown instructor id leaves the course unassigned.
func courseFromRow(instructors *catalog[string, *domain.Instructor], row []string) (*domain.Course, error) {
	kind, err := domain.ParseCourseKind(row[0])
	if err != nil {
		return nil, err
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, err
	}
	inst, _ := instructors.get(row[4])
	return domain.NewCourse(kind, row[1], row[2], capacity, inst)
}

// replayEnrollments re-seats every persisted enrollment. Failures are
// expected (stale rows, duplicates, courses now full) and are discarded.
func replayEnrollments(courses *catalog[string, *domain.Course], rows [][]string) {
	var replayed, discarded int
	for _, row := range rows {
		if len(row) < domain.ResourceEnrollments.Fields() {
			continue
		}
		c, ok := courses.get(row[1])
		if !ok {
			discarded++
			continue
		}
		if err := c.Enroll(row[0]); err != nil {
			discarded++
			continue
		}
		replayed++
	}
	if discarded > 0 {
		log.Debug(log.CatRegistrar, "Replay discarded records", "replayed", replayed, "discarded", discarded)
	}
}

// seedDemo populates an empty registrar so it is usable straight away.
func (r *Registrar) seedDemo(ctx context.Context) {
	if r.courses.len() == 0 {
		inst, ok := r.instructors.first()
		if !ok {
			inst = domain.NewInstructor("T01", "Dr. Meera", "meera@univ.edu", "CSE")
			r.AddInstructor(ctx, inst)
		}
		for _, seed := range []struct {
			kind     domain.CourseKind
			code     string
			title    string
			capacity int
		}{
			{domain.KindTheory, "CS101", "Programming Basics", 3},
			{domain.KindLab, "CS101L", "Programming Lab", 2},
			{domain.KindProject, "CS399", "Mini Project", 2},
		} {
			c, err := domain.NewCourse(seed.kind, seed.code, seed.title, seed.capacity, inst)
			if err != nil {
				log.ErrorErr(log.CatRegistrar, "Seed course rejected", err, "code", seed.code)
				continue
			}
			r.AddCourse(ctx, c)
		}
		log.Info(log.CatRegistrar, "Seeded demo courses", "instructor", inst.ID())
	}

	if r.students.len() == 0 {
		r.AddStudent(ctx, domain.NewStudent("S01", "Riya Agarwal", "riya@univ.edu", "B.Tech CSE"))
		r.AddStudent(ctx, domain.NewStudent("S02", "Aditya Singh", "adi@univ.edu", "B.Tech CSE"))
		log.Info(log.CatRegistrar, "Seeded demo students")
	}
}
