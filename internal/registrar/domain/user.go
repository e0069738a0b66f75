// Package domain provides the pure domain layer for course registration.
//
// It holds the Student, Instructor and Course entities, the enrollment rules
// enforced by Course, the sentinel errors callers match with errors.Is, and the
// RowStore contract the registrar persists through. It has no knowledge of
// files, databases or terminals.
package domain

import "fmt"

// Role tags a User as a student or an instructor.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
)

// String returns the role label.
func (r Role) String() string {
	return string(r)
}

// User holds the identity shared by students and instructors.
// The id is fixed at construction; name and email may change.
type User struct {
	id    string
	name  string
	email string
	role  Role
}

// ID returns the unique user id.
func (u *User) ID() string { return u.id }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// SetName updates the display name.
func (u *User) SetName(name string) { u.name = name }

// Email returns the contact email.
func (u *User) Email() string { return u.email }

// SetEmail updates the contact email.
func (u *User) SetEmail(email string) { u.email = email }

// Role returns the user's role tag.
func (u *User) Role() Role { return u.role }

// String renders "Role Name (id) <email>".
func (u *User) String() string {
	return fmt.Sprintf("%s %s (%s) <%s>", u.role, u.name, u.id, u.email)
}

// Student is a User enrolled in a program.
type Student struct {
	User
	program string
}

// NewStudent creates a student.
func NewStudent(id, name, email, program string) *Student {
	return &Student{
		User:    User{id: id, name: name, email: email, role: RoleStudent},
		program: program,
	}
}

// Program returns the student's program of study.
func (s *Student) Program() string { return s.program }

// SetProgram updates the student's program of study.
func (s *Student) SetProgram(program string) { s.program = program }

// Instructor is a User belonging to a department.
type Instructor struct {
	User
	department string
}

// NewInstructor creates an instructor.
func NewInstructor(id, name, email, department string) *Instructor {
	return &Instructor{
		User:       User{id: id, name: name, email: email, role: RoleInstructor},
		department: department,
	}
}

// Department returns the instructor's department.
func (i *Instructor) Department() string { return i.department }

// SetDepartment updates the instructor's department.
func (i *Instructor) SetDepartment(department string) { i.department = department }
