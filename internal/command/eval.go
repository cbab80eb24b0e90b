package command

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dop251/goja"
	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/builtin"
)

// EvalCommand runs JavaScript with require('btport:bt') available.
type EvalCommand struct {
	*BaseCommand
	converters *btcore.ConverterRegistry
	manifests  *btcore.ManifestRegistry
	source     string
}

func NewEvalCommand(converters *btcore.ConverterRegistry, manifests *btcore.ManifestRegistry) *EvalCommand {
	return &EvalCommand{
		BaseCommand: NewBaseCommand(
			"eval",
			"Run JavaScript against the btport:bt module",
			"eval [-e code] [file]",
		),
		converters: converters,
		manifests:  manifests,
	}
}

func (c *EvalCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.source, "e", "", "Code to run instead of a file")
}

// Execute prints the completion value of the script unless it is undefined.
// print(...) writes its arguments to stdout.
func (c *EvalCommand) Execute(args []string, stdout, stderr io.Writer) error {
	name, code := "<eval>", c.source
	switch {
	case code != "" && len(args) == 0:
	case code == "" && len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("eval: %w", err)
		}
		name, code = args[0], string(data)
	default:
		return c.usageError(stderr, "give either -e or one file")
	}

	vm := builtin.NewRuntime(c.converters, c.manifests)
	_ = vm.Set("print", func(call goja.FunctionCall) goja.Value {
		for i, arg := range call.Arguments {
			if i > 0 {
				_, _ = io.WriteString(stdout, " ")
			}
			_, _ = io.WriteString(stdout, arg.String())
		}
		_, _ = io.WriteString(stdout, "\n")
		return goja.Undefined()
	})

	prog, err := goja.Compile(name, code, false)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	v, err := vm.RunProgram(prog)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	if v != nil && !goja.IsUndefined(v) {
		_, _ = fmt.Fprintln(stdout, v.String())
	}
	return nil
}
