package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/registrar/internal/console"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <student-id> <course-code>",
	Short: "Enroll a student in a course",
	Long: `Enroll a student in a course and record the enrollment.

Fails when the student or course is unknown, the student is already
enrolled, or the course is full.

Examples:
  registrar enroll S01 CS101`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			if err := rt.cmds.Enroll(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), console.MsgEnrolled)
			return err
		})
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop <student-id> <course-code>",
	Short: "Drop a student from a course",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			if err := rt.cmds.Drop(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), console.MsgDropped)
			return err
		})
	},
}

var feesCmd = &cobra.Command{
	Use:   "fees <student-id>",
	Short: "Print a student's fee statement",
	Long: `Print the courses a student is enrolled in with each course fee and the total.
Output is JSON unless --text is given.

Examples:
  registrar fees S01
  registrar fees S01 --text
  registrar fees S01 | jq .total`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			st, err := rt.reg.FeeStatement(args[0])
			if err != nil {
				return err
			}
			if text, _ := cmd.Flags().GetBool("text"); text {
				return rt.formatter(cmd).FormatFeeStatementText(st)
			}
			return rt.formatter(cmd).FormatFeeStatement(st)
		})
	},
}

func init() {
	feesCmd.Flags().Bool("text", false, "print a plain-text statement instead of JSON")
	rootCmd.AddCommand(enrollCmd, dropCmd, feesCmd)
}
