package intake

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestValidator_Student(t *testing.T) {
	tests := []struct {
		name    string
		in      StudentInput
		wantErr string
	}{
		{
			name: "valid",
			in:   StudentInput{ID: "S10", Name: "Neha Kapoor", Email: "neha@univ.edu", Program: "B.Des"},
		},
		{
			name: "trims whitespace",
			in:   StudentInput{ID: "  S10 ", Name: " Neha Kapoor ", Email: "neha@univ.edu  ", Program: "\tB.Des"},
		},
		{
			name:    "missing name",
			in:      StudentInput{ID: "S10", Name: "   ", Email: "neha@univ.edu", Program: "B.Des"},
			wantErr: "name is required",
		},
		{
			name:    "bad email",
			in:      StudentInput{ID: "S10", Name: "Neha", Email: "neha-at-univ", Program: "B.Des"},
			wantErr: "email must be a valid email",
		},
		{
			name:    "comma in program",
			in:      StudentInput{ID: "S10", Name: "Neha", Email: "neha@univ.edu", Program: "B.Tech, CSE"},
			wantErr: "program must not contain a comma",
		},
		{
			name:    "comma in id",
			in:      StudentInput{ID: "S1,0", Name: "Neha", Email: "neha@univ.edu", Program: "B.Des"},
			wantErr: "id must not contain a comma",
		},
		{
			name:    "several failures joined",
			in:      StudentInput{ID: "S10"},
			wantErr: "name is required; email is required; program is required",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := v.Student(tt.in)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidInput)
				require.Contains(t, err.Error(), tt.wantErr)
				require.Nil(t, s)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "S10", s.ID())
			require.Equal(t, "Neha Kapoor", s.Name())
			require.Equal(t, "neha@univ.edu", s.Email())
			require.Equal(t, "B.Des", s.Program())
		})
	}
}

var generatedID = regexp.MustCompile(`^S-[0-9a-f]{8}$`)

func TestValidator_BlankIDIsGenerated(t *testing.T) {
	s, err := New().Student(StudentInput{Name: "Kabir", Email: "kabir@univ.edu", Program: "MBA"})
	require.NoError(t, err)
	require.Regexp(t, generatedID, s.ID())
}

func TestNewStudentID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := NewStudentID()
		require.Regexp(t, generatedID, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}

// Anything accepted must survive the comma-separated row format.
func TestValidator_AcceptedFieldsHaveNoComma(t *testing.T) {
	v := New()
	rapid.Check(t, func(t *rapid.T) {
		in := StudentInput{
			ID:      rapid.StringMatching(`[A-Za-z0-9, -]{0,8}`).Draw(t, "id"),
			Name:    rapid.StringMatching(`[A-Za-z, .]{0,12}`).Draw(t, "name"),
			Email:   rapid.SampledFrom([]string{"a@b.co", "x,y@b.co", "bad", ""}).Draw(t, "email"),
			Program: rapid.StringMatching(`[A-Za-z, .]{0,10}`).Draw(t, "program"),
		}
		s, err := v.Student(in)
		if err != nil {
			return
		}
		for _, f := range []string{s.ID(), s.Name(), s.Email(), s.Program()} {
			if f == "" {
				t.Fatalf("accepted empty field in %+v", in)
			}
			for _, r := range f {
				if r == ',' {
					t.Fatalf("accepted comma in %q", f)
				}
			}
		}
	})
}
