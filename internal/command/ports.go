package command

import (
	"fmt"
	"io"

	"github.com/joeycumines/btport/internal/btcore"
)

// PortsCommand prints registered node manifests.
type PortsCommand struct {
	*BaseCommand
	manifests *btcore.ManifestRegistry
}

func NewPortsCommand(manifests *btcore.ManifestRegistry) *PortsCommand {
	return &PortsCommand{
		BaseCommand: NewBaseCommand(
			"ports",
			"List node types, or the ports of one node type",
			"ports [id]",
		),
		manifests: manifests,
	}
}

func (c *PortsCommand) Execute(args []string, stdout, stderr io.Writer) error {
	switch len(args) {
	case 0:
		var t table
		for _, m := range c.manifests.List() {
			t.add(m.RegistrationID, m.Type.String(), m.Description)
		}
		t.write(stdout, "")
		return nil
	case 1:
		m, ok := c.manifests.Get(args[0])
		if !ok {
			_, _ = fmt.Fprintf(stderr, "Unknown node type: %s\n", args[0])
			return fmt.Errorf("ports: no node type registered as %q", args[0])
		}
		writeManifest(stdout, m)
		return nil
	}
	return c.usageError(stderr, "expected at most one node type, got %d", len(args))
}

func writeManifest(w io.Writer, m btcore.TreeNodeManifest) {
	_, _ = fmt.Fprintf(w, "%s (%s)\n", m.RegistrationID, m.Type)
	if m.Description != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", m.Description)
	}
	_, _ = fmt.Fprintln(w, "")
	if len(m.Ports) == 0 {
		_, _ = fmt.Fprintln(w, "Ports: none")
		return
	}
	_, _ = fmt.Fprintln(w, "Ports:")
	t := table{}
	t.add("NAME", "DIRECTION", "TYPE", "DEFAULT", "DESCRIPTION")
	for _, name := range m.Ports.Names() {
		info := m.Ports[name]
		def := "-"
		if _, ok := info.DefaultValue(); ok {
			def = info.DefaultValueString()
		}
		t.add(name, info.Direction().String(), info.TypeName(), def, info.Description())
	}
	t.write(w, "  ")
}
