package registrar

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// TestRegistrar_ReloadReproducesEnrollments drives the seeded registrar with
// random enroll and drop calls, then reloads from the same store and checks
// every course comes back with the same students in the same order.
func TestRegistrar_ReloadReproducesEnrollments(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		store := newMemStore()
		r := New(ctx, store)

		for i := range 3 {
			id := fmt.Sprintf("S1%d", i)
			r.AddStudent(ctx, domain.NewStudent(id, "Student "+id, id+"@univ.edu", "B.Tech CSE"))
		}

		students := []string{"S01", "S02", "S10", "S11", "S12", "S99"}
		codes := []string{"CS101", "CS101L", "CS399", "XX000"}

		ops := rapid.IntRange(1, 50).Draw(rt, "ops")
		for range ops {
			sid := rapid.SampledFrom(students).Draw(rt, "student")
			code := rapid.SampledFrom(codes).Draw(rt, "course")

			var err error
			if rapid.Bool().Draw(rt, "enroll") {
				err = r.Enroll(ctx, sid, code)
			} else {
				err = r.Drop(ctx, sid, code)
			}
			if err != nil && !isDomainError(err) {
				rt.Fatalf("unexpected error %v", err)
			}

			for _, c := range r.Courses() {
				if c.EnrolledCount() > c.Capacity() {
					rt.Fatalf("%s over capacity: %d > %d", c.Code(), c.EnrolledCount(), c.Capacity())
				}
				if c.SeatsLeft() != c.Capacity()-c.EnrolledCount() {
					rt.Fatalf("%s seats left %d", c.Code(), c.SeatsLeft())
				}
			}
		}

		before := make(map[string][]string)
		total := 0
		for _, c := range r.Courses() {
			before[c.Code()] = c.Enrolled()
			total += c.EnrolledCount()
		}
		if got := len(store.rows[domain.ResourceEnrollments]); got != total {
			rt.Fatalf("persisted %d enrollment rows, want %d", got, total)
		}

		if !r.Reload(ctx) {
			rt.Fatalf("reload failed")
		}
		for _, c := range r.Courses() {
			want, got := before[c.Code()], c.Enrolled()
			if fmt.Sprint(want) != fmt.Sprint(got) {
				rt.Fatalf("%s after reload: got %v, want %v", c.Code(), got, want)
			}
		}
	})
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrAlreadyEnrolled,
		domain.ErrCourseFull,
		domain.ErrNotEnrolled,
		domain.ErrStudentNotFound,
		domain.ErrCourseNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
