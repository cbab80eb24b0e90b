package command

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/config"
	"github.com/joeycumines/btport/internal/nodes"
	"go.uber.org/multierr"
)

// ErrCheckFailed is returned by check when any node instance is invalid.
var ErrCheckFailed = errors.New("check failed")

// nodeLine is one node instance of a check file.
type nodeLine struct {
	line  int
	id    string
	attrs map[string]string
}

// CheckCommand validates node instances against the registered manifests.
//
// Each non-blank line not starting with # is a node ID followed by
// attr=value pairs. Values may be Go-quoted to hold spaces:
//
//	Sleep msec=250
//	ScriptCondition code="battery > 20"
//	SetBlackboard value=3 output_key={level}
type CheckCommand struct {
	*BaseCommand
	config    *config.Config
	manifests *btcore.ManifestRegistry
	maxErrors int
}

func NewCheckCommand(cfg *config.Config, manifests *btcore.ManifestRegistry) *CheckCommand {
	return &CheckCommand{
		BaseCommand: NewBaseCommand(
			"check",
			"Check node attribute text against the node types' ports",
			"check [-max-errors N] <file|->",
		),
		config:    cfg,
		manifests: manifests,
		maxErrors: -1,
	}
}

func (c *CheckCommand) SetupFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.maxErrors, "max-errors", -1, "Stop after N errors, 0 reports all (default from [check] max-errors)")
}

func (c *CheckCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return c.usageError(stderr, "expected one file, got %d", len(args))
	}

	limit := c.maxErrors
	if limit < 0 {
		text := config.DefaultSchema().ResolveCommand(c.config, "check", "max-errors")
		n, err := btcore.ConvertFromString[int](text)
		if err != nil {
			return fmt.Errorf("check: max-errors: %w", err)
		}
		limit = n
	}

	name := args[0]
	var r io.Reader
	if name == "-" {
		r = os.Stdin
		name = "<stdin>"
	} else {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
		defer f.Close()
		r = f
	}

	lines, err := parseNodeLines(r)
	var problems []string
	for _, e := range multierr.Errors(err) {
		problems = append(problems, fmt.Sprintf("%s:%v", name, e))
	}
	for _, n := range lines {
		for _, e := range multierr.Errors(c.checkLine(n)) {
			problems = append(problems, fmt.Sprintf("%s:%d: %s: %v", name, n.line, n.id, e))
		}
	}

	shown := problems
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, p := range shown {
		_, _ = fmt.Fprintln(stdout, p)
	}
	if len(shown) < len(problems) {
		_, _ = fmt.Fprintf(stdout, "... %d more error(s) not shown\n", len(problems)-len(shown))
	}
	_, _ = fmt.Fprintf(stdout, "%d node(s) checked, %d error(s)\n", len(lines), len(problems))

	if len(problems) > 0 {
		return fmt.Errorf("%w: %d error(s) in %s", ErrCheckFailed, len(problems), name)
	}
	return nil
}

func (c *CheckCommand) checkLine(n nodeLine) error {
	m, ok := c.manifests.Get(n.id)
	if !ok {
		return fmt.Errorf("unknown node type %q", n.id)
	}
	_, err := nodes.ParseAttributes(m, n.attrs)
	return err
}

// parseNodeLines reads every node line of r. Malformed lines are reported
// together and skipped.
func parseNodeLines(r io.Reader) ([]nodeLine, error) {
	var (
		out  []nodeLine
		errs error
	)
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		n, err := parseNodeLine(text)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%d: %w", lineNo, err))
			continue
		}
		n.line = lineNo
		out = append(out, n)
	}
	if err := scanner.Err(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf(" reading: %w", err))
	}
	return out, errs
}

func parseNodeLine(text string) (nodeLine, error) {
	id, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		id, rest = text[:i], text[i:]
	}
	n := nodeLine{id: id, attrs: make(map[string]string)}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	for rest != "" {
		key, after, ok := strings.Cut(rest, "=")
		if !ok || key == "" || strings.ContainsFunc(key, unicode.IsSpace) {
			return n, fmt.Errorf("expected attr=value at %q", rest)
		}
		var value string
		if strings.HasPrefix(after, `"`) {
			quoted, err := strconv.QuotedPrefix(after)
			if err != nil {
				return n, fmt.Errorf("attribute %q: bad quoted value", key)
			}
			if value, err = strconv.Unquote(quoted); err != nil {
				return n, fmt.Errorf("attribute %q: %w", key, err)
			}
			after = after[len(quoted):]
			if after != "" && !unicode.IsSpace(rune(after[0])) {
				return n, fmt.Errorf("attribute %q: text after closing quote", key)
			}
		} else {
			end := strings.IndexFunc(after, unicode.IsSpace)
			if end < 0 {
				end = len(after)
			}
			value, after = after[:end], after[end:]
		}
		if _, dup := n.attrs[key]; dup {
			return n, fmt.Errorf("duplicate attribute %q", key)
		}
		n.attrs[key] = value
		rest = strings.TrimLeftFunc(after, unicode.IsSpace)
	}
	return n, nil
}
