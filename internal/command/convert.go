package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/config"
)

// ConvertCommand parses text as a port type and prints its canonical
// rendering.
type ConvertCommand struct {
	*BaseCommand
	config     *config.Config
	converters *btcore.ConverterRegistry
	typeName   string
	verbose    bool
}

// NewConvertCommand creates a convert command using converters, or
// btcore.DefaultConverters if nil.
func NewConvertCommand(cfg *config.Config, converters *btcore.ConverterRegistry) *ConvertCommand {
	if converters == nil {
		converters = btcore.DefaultConverters()
	}
	return &ConvertCommand{
		BaseCommand: NewBaseCommand(
			"convert",
			"Convert text with a port type's converter",
			"convert [-type T] [-v] <text>",
		),
		config:     cfg,
		converters: converters,
	}
}

func (c *ConvertCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.typeName, "type", "", "Type name as listed by 'btport types' (default from [convert] type)")
	fs.BoolVar(&c.verbose, "v", false, "Prefix the output with the type name")
}

func (c *ConvertCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return c.usageError(stderr, "expected exactly one text argument, got %d", len(args))
	}

	typeName := c.typeName
	if typeName == "" {
		typeName = config.DefaultSchema().ResolveCommand(c.config, "convert", "type")
	}

	v, err := c.converters.ConvertNamed(typeName, args[0])
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	text, err := c.converters.ToStr(v.Interface())
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	if c.verbose {
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", v.TypeName(), text)
	} else {
		_, _ = fmt.Fprintln(stdout, text)
	}
	return nil
}
