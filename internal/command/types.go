package command

import (
	"fmt"
	"io"

	"github.com/joeycumines/btport/internal/btcore"
)

// TypesCommand lists the type names convert and config understand.
type TypesCommand struct {
	*BaseCommand
	converters *btcore.ConverterRegistry
}

func NewTypesCommand(converters *btcore.ConverterRegistry) *TypesCommand {
	if converters == nil {
		converters = btcore.DefaultConverters()
	}
	return &TypesCommand{
		BaseCommand: NewBaseCommand(
			"types",
			"List registered port types",
			"types",
		),
		converters: converters,
	}
}

func (c *TypesCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		return c.usageError(stderr, "unexpected arguments: %v", args)
	}
	for _, name := range c.converters.Types() {
		_, _ = fmt.Fprintln(stdout, name)
	}
	return nil
}
