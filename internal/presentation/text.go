package presentation

import (
	"fmt"
	"strings"

	"github.com/zjrosen/registrar/internal/registrar"
	"github.com/zjrosen/registrar/internal/registrar/domain"
)

// DefaultCurrency prefixes fees when none is configured.
const DefaultCurrency = "₹"

// CourseLine renders a course on one line:
//
//	Theory CS101 (Programming Basics) | by Dr. Meera | seats: 1/3 | credits=3, fee=₹4500.00
func CourseLine(c *domain.Course, currency string) string {
	return fmt.Sprintf("%s %s (%s) | by %s | seats: %d/%d | credits=%d, fee=%s%.2f",
		c.Kind(), c.Code(), c.Title(), InstructorName(c),
		c.EnrolledCount(), c.Capacity(), c.Credits(), currency, c.TotalFee())
}

// StudentLine renders a student as "Student Name (id) <email>".
func StudentLine(s *domain.Student) string {
	return s.String()
}

// FeeStatementText renders a fee statement as indented text.
func FeeStatementText(st registrar.FeeStatement, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", StudentLine(st.Student))
	if len(st.Courses) == 0 {
		b.WriteString("  (no courses)\n")
	}
	for _, c := range st.Courses {
		fmt.Fprintf(&b, "  %-8s %-24s %s%.2f\n", c.Code(), c.Title(), currency, c.TotalFee())
	}
	fmt.Fprintf(&b, "  Total: %s%.2f\n", currency, st.Total)
	return b.String()
}
