// Package command implements the btport subcommands.
package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrUsage is returned when a command is invoked with the wrong arguments.
var ErrUsage = errors.New("invalid arguments")

// Command represents a command that can be executed.
type Command interface {
	// Name returns the command name.
	Name() string

	// Description returns a short description of the command.
	Description() string

	// Usage returns the usage string for the command.
	Usage() string

	// SetupFlags configures the flag.FlagSet for this command.
	SetupFlags(fs *flag.FlagSet)

	// Execute runs the command with the arguments left after flag parsing.
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand provides the metadata half of Command for embedding.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{
		name:        name,
		description: description,
		usage:       usage,
	}
}

func (c *BaseCommand) Name() string { return c.name }

func (c *BaseCommand) Description() string { return c.description }

func (c *BaseCommand) Usage() string { return c.usage }

// SetupFlags adds no flags.
func (c *BaseCommand) SetupFlags(*flag.FlagSet) {}

// usageError reports a bad invocation of c on stderr.
func (c *BaseCommand) usageError(stderr io.Writer, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(stderr, "%s\nUsage: btport %s\n", msg, c.usage)
	return fmt.Errorf("%s: %w: %s", c.name, ErrUsage, msg)
}
