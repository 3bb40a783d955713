package optimize

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/samarthya/keysweep/internal/dedup"
)

// InteractiveProvider prompts the operator for each duplicate group over a
// readline loop. Passwords are never displayed; conflicting groups are only
// flagged as such.
type InteractiveProvider struct {
	rl  *readline.Instance
	out io.Writer
}

// NewInteractiveProvider creates a provider reading from the terminal
func NewInteractiveProvider() (*InteractiveProvider, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &InteractiveProvider{
		rl:  rl,
		out: os.Stdout,
	}, nil
}

// Close releases the underlying readline instance
func (p *InteractiveProvider) Close() error {
	return p.rl.Close()
}

// Decide shows the group and prompts until the operator picks a valid
// action. Ctrl+C and Ctrl+D both quit: nothing is applied until commit, so
// quitting is always the safe direction.
func (p *InteractiveProvider) Decide(group *dedup.DuplicateGroup, index, total int) (*Decision, error) {
	p.printGroup(group, index, total)

	for {
		line, err := p.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Fprintln(p.out, "Quitting; no changes will be applied.")
				return &Decision{Action: ActionQuit}, nil
			}
			return nil, err
		}

		line = strings.TrimSpace(strings.ToLower(line))
		switch line {
		case "":
			continue

		case "n", "newest":
			newest := group.Newest()
			if newest == nil {
				return nil, fmt.Errorf("group %s has no entries", group.Key)
			}
			return &Decision{Action: ActionKeepOne, KeepEntryID: newest.ID}, nil

		case "s", "skip":
			return &Decision{Action: ActionSkip}, nil

		case "q", "quit":
			return &Decision{Action: ActionQuit}, nil

		default:
			n, convErr := strconv.Atoi(line)
			if convErr != nil || n < 1 || n > group.Size() {
				fmt.Fprintf(p.out, "Invalid input '%s'. Enter 1-%d, n, s, or q.\n", line, group.Size())
				continue
			}
			return &Decision{Action: ActionKeepOne, KeepEntryID: group.Entries[n-1].ID}, nil
		}
	}
}

// printGroup renders one group with numbered entries
func (p *InteractiveProvider) printGroup(group *dedup.DuplicateGroup, index, total int) {
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(p.out, "\n%s %s (%d entries)\n",
		cyan(fmt.Sprintf("Group %d/%d:", index+1, total)), group.Key, group.Size())
	if group.HasPasswordConflict {
		fmt.Fprintf(p.out, "  %s\n", red("[passwords differ]"))
	}

	newest := group.Newest()
	for i, entry := range group.Entries {
		marker := ""
		if newest != nil && entry.ID == newest.ID {
			marker = " " + yellow("(newest)")
		}
		fmt.Fprintf(p.out, "  %d) %-24s user=%s", i+1, entry.Title, entry.Username)
		if entry.GroupPath != "" {
			fmt.Fprintf(p.out, " group=%s", entry.GroupPath)
		}
		fmt.Fprintf(p.out, " modified=%s%s\n", entry.ModifiedAt.Format("2006-01-02 15:04"), marker)
	}

	fmt.Fprintf(p.out, "Keep which entry? [1-%d / n=newest / s=skip / q=quit]\n", group.Size())
}
