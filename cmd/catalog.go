package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/registrar/internal/presentation"
)

// withRuntime wires the configured store and registrar, runs fn, and closes
// everything. Logs go to stderr so stdout stays machine readable.
func withRuntime(cmd *cobra.Command, fn func(rt *runtime) error) error {
	c, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(c, true)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := newRuntime(cmd.Context(), c)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	return fn(rt)
}

func (rt *runtime) formatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout(), rt.cfg.UI.Currency)
}

var coursesListCmd = &cobra.Command{
	Use:   "courses:list",
	Short: "List all courses as JSON",
	Long: `List every course with its kind, capacity, instructor, fee and enrolled students.

Examples:
  registrar courses:list
  registrar courses:list | jq '.[] | select(.seats_left > 0) | .code'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			return rt.formatter(cmd).FormatCourses(rt.reg.Courses())
		})
	},
}

var studentsListCmd = &cobra.Command{
	Use:   "students:list",
	Short: "List all students as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			return rt.formatter(cmd).FormatStudents(rt.reg.Students())
		})
	},
}

var instructorsListCmd = &cobra.Command{
	Use:   "instructors:list",
	Short: "List all instructors as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			return rt.formatter(cmd).FormatInstructors(rt.reg.Instructors())
		})
	},
}

func init() {
	rootCmd.AddCommand(coursesListCmd, studentsListCmd, instructorsListCmd)
}
