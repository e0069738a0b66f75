package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zjrosen/registrar/internal/intake"
	"github.com/zjrosen/registrar/internal/log"
)

// Welcome is printed once when the loop starts.
const Welcome = "Welcome to Course Registration"

// Console is the plain menu loop.
type Console struct {
	cmds *Commands
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a console reading answers from in and printing to out.
func New(cmds *Commands, in io.Reader, out io.Writer) *Console {
	return &Console{cmds: cmds, in: bufio.NewScanner(in), out: out}
}

// Run prints the menu and handles choices until Exit or end of input.
// Action failures are printed and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	c.println(Welcome)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()
		choice, ok := c.readChoice()
		if !ok {
			c.println("")
			return c.in.Err()
		}
		log.Debug(log.CatUI, "Menu choice", "choice", int(choice))

		if choice == ChoiceExit {
			c.println(MsgGoodbye)
			return nil
		}
		if !c.handle(ctx, choice) {
			c.println("")
			return c.in.Err()
		}
	}
}

// handle runs one menu action. It reports false when input ended mid-prompt.
func (c *Console) handle(ctx context.Context, choice Choice) bool {
	switch choice {
	case ChoiceListCourses:
		for _, line := range c.cmds.CourseLines() {
			c.println(" - " + line)
		}

	case ChoiceListStudents:
		for _, line := range c.cmds.StudentLines() {
			c.println(" - " + line)
		}

	case ChoiceEnroll, ChoiceDrop:
		sid, ok := c.prompt("Student ID: ")
		if !ok {
			return false
		}
		code, ok := c.prompt("Course Code: ")
		if !ok {
			return false
		}
		if choice == ChoiceEnroll {
			c.report(c.cmds.Enroll(ctx, sid, code), MsgEnrolled)
		} else {
			c.report(c.cmds.Drop(ctx, sid, code), MsgDropped)
		}

	case ChoiceAddStudent:
		var in intake.StudentInput
		fields := []struct {
			label string
			dst   *string
		}{
			{"Student ID (e.g., S10, blank to generate): ", &in.ID},
			{"Name: ", &in.Name},
			{"Email: ", &in.Email},
			{"Program: ", &in.Program},
		}
		for _, f := range fields {
			v, ok := c.prompt(f.label)
			if !ok {
				return false
			}
			*f.dst = v
		}
		_, err := c.cmds.AddStudent(ctx, in)
		c.report(err, MsgStudentAdded)

	default:
		c.println(MsgInvalid)
	}
	return true
}

func (c *Console) printMenu() {
	c.println("")
	c.println("--- Menu ---")
	for i, item := range MenuItems {
		c.println(fmt.Sprintf("%d. %s", i+1, item))
	}
	c.print("Choice: ")
}

// readChoice reads lines until one parses as an integer. Blank lines are
// skipped; anything else re-prompts.
func (c *Console) readChoice() (Choice, bool) {
	for c.in.Scan() {
		text := strings.TrimSpace(c.in.Text())
		if text == "" {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			c.print("Enter a number: ")
			continue
		}
		return Choice(n), true
	}
	return 0, false
}

func (c *Console) prompt(label string) (string, bool) {
	c.print(label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) report(err error, success string) {
	if err != nil {
		log.Debug(log.CatUI, "Action failed", "error", err.Error())
		c.println("Error: " + err.Error())
		return
	}
	c.println(success)
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

func (c *Console) println(s string) {
	_, _ = io.WriteString(c.out, s+"\n")
}
