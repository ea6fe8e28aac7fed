package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
)

const prefix = "cmd "

var (
	// ErrUnknownCommand is returned by Execute for a name that was never registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned by a command whose arguments do not fit its usage line.
	ErrUsage = errors.New("usage")
)

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse and can read flag state and FlagSet.Args().
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func() error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
	out  io.Writer
}

// NewRegistry returns an empty command registry whose output is discarded until SetOutput.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command), out: io.Discard}
}

// SetOutput sets where commands print their results.
func (r *Registry) SetOutput(w io.Writer) {
	r.out = w
}

// Printf writes a line of command output.
func (r *Registry) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Register adds a subcommand. name is the first token of a line (e.g. "grid"), usage a one-line synopsis
// of its arguments. run is called after fs.Parse(args[1:]) succeeds. Flags return to their defaults
// after every run, so a flag given once does not stick to the next invocation.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func() error) {
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the command registered as name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// Parse splits a terminal line into arguments with shell quoting rules, so names with spaces can be
// quoted. A leading "cmd " is accepted and dropped. A blank line yields no arguments and no error.
func Parse(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if line == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	return args, nil
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	defer resetFlags(cmd.FlagSet)
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := cmd.Run(); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s %s", ErrUsage, name, cmd.Usage)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ExecuteLine parses line and executes it. Blank lines do nothing.
func (r *Registry) ExecuteLine(line string) error {
	args, err := Parse(line)
	if err != nil || len(args) == 0 {
		return err
	}
	return r.Execute(args)
}

func resetFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		_ = f.Value.Set(f.DefValue)
	})
}

// RegisterHelp adds "help", which lists every command with its usage.
func (r *Registry) RegisterHelp() {
	fs := flag.NewFlagSet("help", flag.ContinueOnError)
	r.Register("help", "[command]", fs, func() error {
		names := r.Names()
		if fs.NArg() > 0 {
			names = fs.Args()[:1]
		}
		for _, name := range names {
			cmd, ok := r.cmds[name]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
			}
			r.Printf("%s %s", name, cmd.Usage)
		}
		return nil
	})
}
