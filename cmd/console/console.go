package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/stemsi/progresspoint/internal/export"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/stemsi/progresspoint/internal/validator"
)

const usage = `Commands:
  roster                                  list students in roster order
  leaderboard                             ranks, medals and averages
  attendance <date> <id>=<present|absent>...
                                          record a roll call
  history                                 recorded days, newest first
  marks <id> <field>=<value>...           fields: presentation efforts assignment assessment
  export <file.xlsx>                      write the roster workbook
  logout                                  end the session
  quit                                    leave the console`

var errQuit = errors.New("quit")

// console is the interactive shell over the roster services.
type console struct {
	in           *bufio.Reader
	out          io.Writer
	auth         *service.AuthService
	roster       *service.RosterService
	readPassword func() (string, error)
}

// run prompts for a login whenever no session is active and executes
// commands until quit or end of input.
func (c *console) run(ctx context.Context) error {
	for {
		if c.auth.Current() == nil {
			if err := c.login(ctx); err != nil {
				return ignoreEOF(err)
			}
			continue
		}

		fmt.Fprintf(c.out, "%s> ", c.auth.Current().Username)
		line, err := c.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if execErr := c.exec(ctx, line); execErr != nil {
				if errors.Is(execErr, errQuit) {
					return nil
				}
				fmt.Fprintf(c.out, "Error: %v\n", execErr)
			}
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *console) login(ctx context.Context) error {
	fmt.Fprint(c.out, "Username: ")
	username, err := c.in.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Fprint(c.out, "Password: ")
	password, err := c.readPassword()
	if err != nil {
		return err
	}

	ok, err := c.auth.Login(ctx, strings.TrimSpace(username), password)
	switch {
	case err != nil:
		fmt.Fprintf(c.out, "Error: %v\n", err)
	case !ok:
		fmt.Fprintln(c.out, "Invalid username or password.")
	default:
		fmt.Fprintf(c.out, "Welcome, %s.\n", c.auth.Current().DisplayName)
	}
	return nil
}

func (c *console) exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	switch args[0] {
	case "roster":
		students, err := c.roster.Students()
		if err != nil {
			return err
		}
		c.printRoster(students)
	case "leaderboard":
		board, err := c.roster.Leaderboard()
		if err != nil {
			return err
		}
		c.printLeaderboard(board)
	case "attendance":
		return c.attendance(ctx, args[1:])
	case "history":
		history, err := c.roster.AttendanceHistory()
		if err != nil {
			return err
		}
		c.printHistory(history)
	case "marks":
		return c.marks(ctx, args[1:])
	case "export":
		return c.export(args[1:])
	case "logout":
		if err := c.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Logged out.")
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(c.out, usage)
	default:
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	return nil
}

func (c *console) attendance(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: attendance <date> <id>=<present|absent>...")
	}
	date := args[0]
	if err := validator.Date(date); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	entries := make([]model.AttendanceEntry, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, status, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return fmt.Errorf("invalid entry %q, want id=status", arg)
		}
		if err := validator.Status(status); err != nil {
			return fmt.Errorf("invalid status %q for %s", status, id)
		}
		entries = append(entries, model.AttendanceEntry{StudentID: id, Status: model.AttendanceStatus(status)})
	}

	students, err := c.roster.UpdateAttendance(ctx, date, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Recorded %d entries for %s.\n", len(entries), date)
	c.printRoster(students)
	return nil
}

func (c *console) marks(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: marks <id> <field>=<value>...")
	}

	var patch model.MarksPatch
	for _, arg := range args[1:] {
		field, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid mark %q, want field=value", arg)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("mark %s must be a number", field)
		}
		switch field {
		case "presentation":
			patch.Presentation = &v
		case "efforts":
			patch.Efforts = &v
		case "assignment":
			patch.Assignment = &v
		case "assessment":
			patch.Assessment = &v
		default:
			return fmt.Errorf("unknown mark field %q", field)
		}
	}

	students, err := c.roster.UpdateStudentMarks(ctx, args[0], patch)
	if err != nil {
		return err
	}
	c.printRoster(students)
	return nil
}

func (c *console) export(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: export <file.xlsx>")
	}
	students, err := c.roster.Students()
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := export.WriteRoster(f, students); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	fmt.Fprintf(c.out, "Wrote %s.\n", args[0])
	return nil
}

func (c *console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

func (c *console) printRoster(students []model.Student) {
	w := c.table()
	fmt.Fprintln(w, "ID\tNAME\tPRES\tEFF\tASSIGN\tASSESS\tTOTAL\tATTEND%")
	for _, s := range students {
		m := s.Marks
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			s.ID, s.Name, m.Presentation, m.Efforts, m.Assignment, m.Assessment, m.Total, s.AttendancePercentage)
	}
	w.Flush()
}

func (c *console) printLeaderboard(board model.Leaderboard) {
	w := c.table()
	fmt.Fprintln(w, "RANK\tMEDAL\tNAME\tTOTAL\tATTEND%")
	for _, e := range board.Entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", e.Rank, e.Medal, e.Student.Name, e.Student.Marks.Total, e.Student.AttendancePercentage)
	}
	w.Flush()

	st := board.Stats
	fmt.Fprintf(c.out, "Averages: presentation %.1f, efforts %.1f, assignment %.1f, assessment %.1f\n",
		st.Categories.Presentation, st.Categories.Efforts, st.Categories.Assignment, st.Categories.Assessment)
	fmt.Fprintf(c.out, "Average total %d, average attendance %d%%\n", st.AverageTotal, st.AverageAttendance)
}

func (c *console) printHistory(history []model.AttendanceHistoryItem) {
	if len(history) == 0 {
		fmt.Fprintln(c.out, "No attendance recorded yet.")
		return
	}
	w := c.table()
	fmt.Fprintln(w, "DATE\tPRESENT\tTOTAL\tPERCENT")
	for _, item := range history {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d%%\n", item.Date, item.Summary.Present, item.Summary.Total, item.Summary.Percentage)
	}
	w.Flush()
}
