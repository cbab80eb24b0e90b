package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joeycumines/btport/internal/btcore"
)

// OptionType names the type an option's value converts to. It is a type name
// known to btcore.DefaultConverters, so any port type is also a valid option
// type.
type OptionType string

const (
	TypeString   OptionType = "string"
	TypeBool     OptionType = "bool"
	TypeInt      OptionType = "int"
	TypeDuration OptionType = "time.Duration"
	TypeLevel    OptionType = "slog.Level"
	TypeStatus   OptionType = "btcore.NodeStatus"
)

func init() {
	r := btcore.DefaultConverters()
	btcore.RegisterConverter(r, func(text string) (slog.Level, error) {
		var l slog.Level
		err := l.UnmarshalText([]byte(strings.TrimSpace(text)))
		return l, err
	})
	btcore.RegisterRenderer(r, slog.Level.String)
}

// ConfigOption declares a single configuration option with its type, default,
// documentation, and environment variable override.
type ConfigOption struct {
	// Key is the option name as it appears in the config file.
	Key string
	// Type is the expected value type for validation.
	Type OptionType
	// Default is the default value as text, or "" for no default.
	Default string
	// Description is a human-readable description of the option.
	Description string
	// Section is "" for global options, or a command name.
	Section string
	// EnvVar is the environment variable that overrides this option, or "".
	EnvVar string
}

// ConfigSchema declares the expected configuration options. It is used for
// validation, documentation, typed getters, and env var mapping.
type ConfigSchema struct {
	options   []*ConfigOption
	byKey     map[string]*ConfigOption
	bySection map[string]map[string]*ConfigOption
}

// NewSchema creates a new empty ConfigSchema.
func NewSchema() *ConfigSchema {
	return &ConfigSchema{
		byKey:     make(map[string]*ConfigOption),
		bySection: make(map[string]map[string]*ConfigOption),
	}
}

// Register adds a ConfigOption to the schema. Duplicate keys within the same
// section are overwritten (last registration wins).
func (s *ConfigSchema) Register(opt ConfigOption) {
	ref := new(ConfigOption)
	*ref = opt
	s.options = append(s.options, ref)
	if opt.Section == "" {
		s.byKey[opt.Key] = ref
	} else {
		if s.bySection[opt.Section] == nil {
			s.bySection[opt.Section] = make(map[string]*ConfigOption)
		}
		s.bySection[opt.Section][opt.Key] = ref
	}
}

// RegisterAll adds multiple ConfigOptions to the schema.
func (s *ConfigSchema) RegisterAll(opts []ConfigOption) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the ConfigOption for a key in a given section ("" for global).
// Returns nil if the key is not registered.
func (s *ConfigSchema) Lookup(section, key string) *ConfigOption {
	if section == "" {
		return s.byKey[key]
	}
	if sec, ok := s.bySection[section]; ok {
		return sec[key]
	}
	return nil
}

// IsKnown returns true if the key is registered in the given section. Global
// keys are known in every section, where they override the global value.
func (s *ConfigSchema) IsKnown(section, key string) bool {
	return s.Lookup(section, key) != nil || s.byKey[key] != nil
}

// GlobalOptions returns all registered global options.
func (s *ConfigSchema) GlobalOptions() []ConfigOption {
	return s.SectionOptions("")
}

// SectionOptions returns all registered options for a specific section.
func (s *ConfigSchema) SectionOptions(section string) []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections returns the sorted names of all sections with options.
func (s *ConfigSchema) Sections() []string {
	out := make([]string, 0, len(s.bySection))
	for sec := range s.bySection {
		out = append(out, sec)
	}
	slices.Sort(out)
	return out
}

// Resolve returns the effective value for a global config key by checking,
// in order: (1) the environment variable declared in the schema for this key,
// (2) the config value, (3) the schema default. Returns "" if the key is not
// found anywhere.
func (s *ConfigSchema) Resolve(c *Config, key string) string {
	opt := s.Lookup("", key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if v, ok := c.GetGlobalOption(key); ok {
		return v
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ResolveCommand is Resolve for an option of a command. A value in the
// command's section wins. Options only the section declares then fall back to
// their default, and the rest resolve as globals.
func (s *ConfigSchema) ResolveCommand(c *Config, command, key string) string {
	if v, ok := c.Commands[command][key]; ok {
		return v
	}
	if opt := s.Lookup(command, key); opt != nil && s.Lookup("", key) == nil {
		return opt.Default
	}
	return s.Resolve(c, key)
}

// Typed converts the resolved value of a global key to T. An unset option
// without default yields the zero T and no error.
func Typed[T any](s *ConfigSchema, c *Config, key string) (T, error) {
	var zero T
	text := s.Resolve(c, key)
	if text == "" {
		return zero, nil
	}
	v, err := btcore.ConvertFromString[T](text)
	if err != nil {
		return zero, fmt.Errorf("option %q: %w", key, err)
	}
	return v, nil
}

// CheckValue reports whether value is acceptable for key in section ("" for
// global). Unknown keys are an error.
func (s *ConfigSchema) CheckValue(section, key, value string) error {
	opt := s.Lookup(section, key)
	if opt == nil {
		opt = s.Lookup("", key)
	}
	if opt == nil {
		if section == "" {
			return fmt.Errorf("unknown global option %q", key)
		}
		return fmt.Errorf("unknown option %q for command %q", key, section)
	}
	return validateType(opt.Type, value)
}

// ValidateConfig checks a loaded Config against the schema and returns a list
// of human-readable issues (empty if the config is valid). It reports unknown
// options and values that do not convert to the option's type.
func ValidateConfig(c *Config, s *ConfigSchema) []string {
	var issues []string

	for key, value := range c.Global {
		opt := s.Lookup("", key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown global option: %q (value: %q)", key, value))
			continue
		}
		if err := validateType(opt.Type, value); err != nil {
			issues = append(issues, fmt.Sprintf("global option %q: %v", key, err))
		}
	}

	for section, opts := range c.Commands {
		for key, value := range opts {
			opt := s.Lookup(section, key)
			if opt == nil {
				opt = s.Lookup("", key)
			}
			if opt == nil {
				issues = append(issues, fmt.Sprintf("unknown option for command %q: %q (value: %q)", section, key, value))
				continue
			}
			if err := validateType(opt.Type, value); err != nil {
				issues = append(issues, fmt.Sprintf("option %q in [%s]: %v", key, section, err))
			}
		}
	}

	slices.Sort(issues)
	return issues
}

// validateType converts value with the converter registered for t.
func validateType(t OptionType, value string) error {
	if t == "" || t == TypeString {
		return nil
	}
	if _, err := btcore.DefaultConverters().ConvertNamed(string(t), value); err != nil {
		return fmt.Errorf("expected %s, got %q: %w", t, value, err)
	}
	return nil
}

// GetString returns the global option value for key, or "" if not set.
func (c *Config) GetString(key string) string {
	v, _ := c.GetGlobalOption(key)
	return v
}

// GetBool returns the global option value for key parsed as a boolean. Returns
// false if the key is not set or the value cannot be parsed.
func (c *Config) GetBool(key string) bool {
	return getTyped[bool](c, key)
}

// GetInt returns the global option value for key parsed as an integer. Returns
// 0 if the key is not set or the value cannot be parsed.
func (c *Config) GetInt(key string) int {
	return getTyped[int](c, key)
}

// GetDuration returns the global option value for key parsed as a
// time.Duration. Returns 0 if the key is not set or the value cannot be parsed.
func (c *Config) GetDuration(key string) time.Duration {
	return getTyped[time.Duration](c, key)
}

func getTyped[T any](c *Config, key string) T {
	var zero T
	text, ok := c.GetGlobalOption(key)
	if !ok {
		return zero
	}
	v, err := btcore.ConvertFromString[T](text)
	if err != nil {
		return zero
	}
	return v
}

// FormatHelp returns a formatted, human-readable reference of all registered
// options in the schema, grouped by section.
func (s *ConfigSchema) FormatHelp() string {
	var b strings.Builder

	if globals := s.GlobalOptions(); len(globals) > 0 {
		b.WriteString("Global Options:\n")
		for _, o := range globals {
			writeOptionHelp(&b, o)
		}
	}

	for _, sec := range s.Sections() {
		opts := s.SectionOptions(sec)
		if len(opts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range opts {
			writeOptionHelp(&b, o)
		}
	}

	return b.String()
}

func writeOptionHelp(b *strings.Builder, o ConfigOption) {
	fmt.Fprintf(b, "  %-24s %s", o.Key, o.Description)
	parts := make([]string, 0, 3)
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, fmt.Sprintf("type: %s", o.Type))
	}
	if o.Default != "" {
		parts = append(parts, fmt.Sprintf("default: %s", o.Default))
	}
	if o.EnvVar != "" {
		parts = append(parts, fmt.Sprintf("env: %s", o.EnvVar))
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// DefaultSchema returns the schema of every option btport understands.
func DefaultSchema() *ConfigSchema {
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: "log.level", Type: TypeLevel, Default: "INFO", Description: "Log level: DEBUG, INFO, WARN, ERROR", EnvVar: "BTPORT_LOG_LEVEL"},
		{Key: "color", Type: TypeString, Default: "auto", Description: "Color mode: auto, always, never", EnvVar: "BTPORT_COLOR"},
		{Key: "strict", Type: TypeBool, Default: "true", Description: "Reject node types whose typed ports have no converter"},
		{Key: "script.cache-size", Type: TypeInt, Default: "1000", Description: "Compiled expressions kept in memory"},

		{Key: "type", Section: "convert", Type: TypeString, Default: "string", Description: "Type used when -type is not given"},
		{Key: "max-errors", Section: "check", Type: TypeInt, Default: "0", Description: "Stop after this many errors; 0 reports all"},
		{Key: "assume", Section: "status", Type: TypeStatus, Default: "", Description: "Status highlighted in the vocabulary listing"},
	})
	return s
}
