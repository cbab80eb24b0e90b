package command

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/config"
)

// StatusCommand prints the NodeStatus, NodeType and PortDirection
// vocabularies with their numeric values.
type StatusCommand struct {
	*BaseCommand
	config *config.Config
	color  string
	assume string
}

func NewStatusCommand(cfg *config.Config) *StatusCommand {
	return &StatusCommand{
		BaseCommand: NewBaseCommand(
			"status",
			"Print the status, node type and port direction vocabularies",
			"status [-color auto|always|never] [-assume STATUS]",
		),
		config: cfg,
	}
}

func (c *StatusCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.color, "color", "", "Color mode: auto, always, never (default from config)")
	fs.StringVar(&c.assume, "assume", "", "Mark this status in the listing (default from [status] assume)")
}

func (c *StatusCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return c.usageError(stderr, "unexpected arguments: %v", args)
	}

	schema := config.DefaultSchema()
	mode := c.color
	if mode == "" {
		mode = schema.ResolveCommand(c.config, "status", "color")
	}
	colored, err := colorEnabled(mode, stdout)
	if err != nil {
		return c.usageError(stderr, "%v", err)
	}

	assumeText := c.assume
	if assumeText == "" {
		assumeText = schema.ResolveCommand(c.config, "status", "assume")
	}
	assumed := btcore.NodeStatus(-1)
	if assumeText != "" {
		if assumed, err = btcore.ParseNodeStatus(assumeText); err != nil {
			return fmt.Errorf("status: %w", err)
		}
	}

	_, _ = fmt.Fprintln(stdout, "NodeStatus:")
	width := 0
	for _, s := range btcore.NodeStatuses() {
		width = max(width, len(s.String()))
	}
	for _, s := range btcore.NodeStatuses() {
		marker := " "
		if s == assumed {
			marker = "*"
		}
		pad := strings.Repeat(" ", width-len(s.String()))
		_, _ = fmt.Fprintf(stdout, " %s%d  %s%s  active=%t completed=%t\n",
			marker, int(s), btcore.StatusString(s, colored), pad, s.IsActive(), s.IsCompleted())
	}

	_, _ = fmt.Fprintln(stdout, "\nNodeType:")
	for _, t := range btcore.NodeTypes() {
		_, _ = fmt.Fprintf(stdout, "  %d  %s\n", int(t), t)
	}

	_, _ = fmt.Fprintln(stdout, "\nPortDirection:")
	for _, d := range btcore.PortDirections() {
		_, _ = fmt.Fprintf(stdout, "  %d  %s\n", int(d), d)
	}
	return nil
}
