package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Prefix is accepted, and stripped, in front of any command line.
const Prefix = "cmd "

var (
	ErrEmpty   = errors.New("commands: empty command")
	ErrUnknown = errors.New("commands: unknown command")
)

// Command is a named command with optional flags. Run receives the
// positional arguments left after flag parsing and returns a reply.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) (string, error)
}

// Registry holds commands by name.
type Registry struct {
	cmds map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a command. fs may be nil for commands without flags.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) (string, error)) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Help returns one usage line per command.
func (r *Registry) Help() string {
	var b strings.Builder
	for _, name := range r.Names() {
		fmt.Fprintf(&b, "%s %s\n", name, r.cmds[name].Usage)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Parse splits line into fields, dropping an optional "cmd " prefix.
func Parse(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, Prefix)
	return strings.Fields(line)
}

// Execute runs args[0] with args[1:] parsed by its FlagSet.
func (r *Registry) Execute(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrEmpty
	}
	cmd, ok := r.cmds[strings.ToLower(args[0])]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknown, args[0])
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return "", fmt.Errorf("commands: %s: %w", cmd.Name, err)
	}
	return cmd.Run(cmd.FlagSet.Args())
}

// ExecuteLine parses and runs one line of text.
func (r *Registry) ExecuteLine(line string) (string, error) {
	return r.Execute(Parse(line))
}
