package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/14kear/poll-manager/internal/entity"
	"github.com/14kear/poll-manager/internal/services/polls"
)

const dateLayout = "2006-01-02"

// Menu drives the interactive poll session. All user-facing text lives here;
// the service never prints.
type Menu struct {
	polls *polls.Service
	in    *bufio.Scanner
	out   io.Writer
}

func NewMenu(service *polls.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		polls: service,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run loops over the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Main Menu:")
		fmt.Fprintln(m.out, "1. Create a new poll")
		fmt.Fprintln(m.out, "2. Vote in an active poll")
		fmt.Fprintln(m.out, "3. View poll results")
		fmt.Fprintln(m.out, "4. Exit")

		choice, ok := m.prompt("Enter your choice: ")
		if !ok {
			return
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.createPoll(ctx)
		case "2":
			m.voteInPoll(ctx)
		case "3":
			m.showResults()
		case "4":
			fmt.Fprintln(m.out, "Exiting.")
			return
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) createPoll(ctx context.Context) {
	question, ok := m.prompt("Enter the poll question: ")
	if !ok {
		return
	}

	rawOptions, ok := m.prompt("Enter poll options (separated by commas): ")
	if !ok {
		return
	}
	options := splitOptions(rawOptions)

	start, ok := m.promptDate("Enter the start date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	end, ok := m.promptDate("Enter the end date (YYYY-MM-DD): ")
	if !ok {
		return
	}

	poll, err := m.polls.CreatePoll(ctx, strings.TrimSpace(question), options, start, end)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNoQuestion):
			fmt.Fprintln(m.out, "Error creating poll: enter a question.")
		case errors.Is(err, entity.ErrInvalidWindow):
			fmt.Fprintln(m.out, "Error creating poll: start date must be before end date.")
		case errors.Is(err, entity.ErrNoOptions):
			fmt.Fprintln(m.out, "Error creating poll: enter at least one option.")
		default:
			fmt.Fprintf(m.out, "Error creating poll: %v\n", err)
		}
		return
	}

	fmt.Fprintf(m.out, "Poll created successfully: %s\n", poll.Question())
}

func (m *Menu) promptDate(label string) (time.Time, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return time.Time{}, false
	}

	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintln(m.out, "Invalid date, expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return parsed, true
}

func (m *Menu) voteInPoll(ctx context.Context) {
	active := m.polls.ActivePolls(time.Now())
	if len(active) == 0 {
		fmt.Fprintln(m.out, "No active polls available.")
		return
	}

	fmt.Fprintln(m.out, "Active polls:")
	for i, poll := range active {
		fmt.Fprintf(m.out, "%d. %s (closes %s)\n", i+1, poll.Question(), humanize.Time(poll.EndDate()))
	}

	raw, ok := m.prompt("Choose a poll number to vote in: ")
	if !ok {
		return
	}

	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 1 || index > len(active) {
		fmt.Fprintln(m.out, "Invalid choice.")
		return
	}
	poll := active[index-1]

	fmt.Fprintf(m.out, "Options: %s\n", strings.Join(poll.Options(), ", "))
	option, ok := m.prompt("Enter your choice: ")
	if !ok {
		return
	}

	if err := m.polls.Vote(ctx, poll, option); err != nil {
		switch {
		case errors.Is(err, entity.ErrPollNotActive):
			fmt.Fprintln(m.out, "Error: poll is not active.")
		case errors.Is(err, entity.ErrInvalidOption):
			fmt.Fprintln(m.out, "Error: please choose a valid option.")
		default:
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
		return
	}

	fmt.Fprintf(m.out, "Thank you for voting! You chose: %s\n", strings.TrimSpace(option))
}

func (m *Menu) showResults() {
	reports := m.polls.Report()
	if len(reports) == 0 {
		fmt.Fprintln(m.out, "No polls available.")
		return
	}

	for _, report := range reports {
		fmt.Fprintf(m.out, "Question: %s\n", report.Question)

		table := tablewriter.NewWriter(m.out)
		table.SetHeader([]string{"Option", "Votes"})
		for _, option := range report.Options {
			table.Append([]string{option, strconv.Itoa(report.Results[option])})
		}
		table.Render()
	}
}

func splitOptions(raw string) []string {
	var options []string
	for _, option := range strings.Split(raw, ",") {
		option = strings.TrimSpace(option)
		if option != "" {
			options = append(options, option)
		}
	}
	return options
}
