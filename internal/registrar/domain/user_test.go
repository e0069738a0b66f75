package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStudent(t *testing.T) {
	s := NewStudent("S01", "Riya Agarwal", "riya@univ.edu", "B.Tech CSE")

	require.Equal(t, "S01", s.ID())
	require.Equal(t, "Riya Agarwal", s.Name())
	require.Equal(t, "riya@univ.edu", s.Email())
	require.Equal(t, "B.Tech CSE", s.Program())
	require.Equal(t, RoleStudent, s.Role())
	require.Equal(t, "Student Riya Agarwal (S01) <riya@univ.edu>", s.String())
}

func TestNewInstructor(t *testing.T) {
	i := NewInstructor("T01", "Dr. Meera", "meera@univ.edu", "CSE")

	require.Equal(t, "T01", i.ID())
	require.Equal(t, "CSE", i.Department())
	require.Equal(t, RoleInstructor, i.Role())
	require.Equal(t, "Instructor Dr. Meera (T01) <meera@univ.edu>", i.String())
}

func TestUser_Setters(t *testing.T) {
	s := NewStudent("S01", "Riya", "riya@univ.edu", "B.Tech CSE")
	s.SetName("Riya A.")
	s.SetEmail("riya.a@univ.edu")
	s.SetProgram("M.Tech")

	require.Equal(t, "S01", s.ID())
	require.Equal(t, "Riya A.", s.Name())
	require.Equal(t, "riya.a@univ.edu", s.Email())
	require.Equal(t, "M.Tech", s.Program())

	i := NewInstructor("T02", "Prof. Arjun", "arjun@univ.edu", "ECE")
	i.SetDepartment("EEE")
	require.Equal(t, "EEE", i.Department())
}

func TestResource_Fields(t *testing.T) {
	tests := []struct {
		res    Resource
		fields int
	}{
		{ResourceStudents, 4},
		{ResourceInstructors, 4},
		{ResourceCourses, 5},
		{ResourceEnrollments, 2},
		{Resource("grades"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.res.String(), func(t *testing.T) {
			require.Equal(t, tt.fields, tt.res.Fields())
		})
	}
}
