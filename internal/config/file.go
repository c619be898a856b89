package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"envmedic/internal/flags"
)

// DefaultFileName is picked up from the working directory when --config is
// not given.
const DefaultFileName = "envmedic.yaml"

// File is the YAML config file shape. Keys mirror the setup flag names, and
// every field is optional; explicit flags always win over file values.
type File struct {
	Venv          *string  `yaml:"venv"`
	Python        *string  `yaml:"python"`
	Requirements  *string  `yaml:"requirements"`
	Checks        *string  `yaml:"checks"`
	Set           []string `yaml:"set"`
	ConsoleFormat *string  `yaml:"console-format"`
	Report        *string  `yaml:"report"`
	Out           *string  `yaml:"out"`
	OutFormat     *string  `yaml:"out-format"`
	Emit          []string `yaml:"emit"`
	NoConsole     *bool    `yaml:"no-console"`
	Timeout       *string  `yaml:"timeout"`
	NoRepair      *bool    `yaml:"no-repair"`
}

// LoadFile reads and decodes a config file. Unknown keys are rejected so a
// typoed key fails loudly instead of being silently ignored.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%s: decode config file: %w", path, err)
	}
	return &f, nil
}

// Apply merges file values into cfg. changed reports whether the flag with
// the given name was set explicitly on the command line; such fields are left
// untouched.
func (f *File) Apply(cfg *Config, changed func(flagName string) bool) error {
	if f == nil || cfg == nil {
		return nil
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	setString := func(flagName string, dst *string, src *string) {
		if src != nil && !changed(flagName) {
			*dst = *src
		}
	}
	setBool := func(flagName string, dst *bool, src *bool) {
		if src != nil && !changed(flagName) {
			*dst = *src
		}
	}

	setString(flags.FlagVenv, &cfg.Environment.Root, f.Venv)
	setString(flags.FlagPython, &cfg.Environment.Python, f.Python)
	setString(flags.FlagRequirements, &cfg.Manifest.Path, f.Requirements)
	setString(flags.FlagChecks, &cfg.Checks.Selector, f.Checks)
	setString(flags.FlagConsoleFormat, &cfg.Output.ConsoleFormat, f.ConsoleFormat)
	setString(flags.FlagReport, &cfg.Output.Report, f.Report)
	setString(flags.FlagOut, &cfg.Output.Out, f.Out)
	setString(flags.FlagOutFormat, &cfg.Output.OutFormat, f.OutFormat)
	setBool(flags.FlagNoConsole, &cfg.Output.NoConsole, f.NoConsole)
	setBool(flags.FlagNoRepair, &cfg.Runtime.NoRepair, f.NoRepair)

	if len(f.Set) > 0 && !changed(flags.FlagSet) {
		cfg.Checks.Set = f.Set
	}
	if len(f.Emit) > 0 && !changed(flags.FlagEmit) {
		cfg.Output.Emit = f.Emit
	}
	if f.Timeout != nil && !changed(flags.FlagTimeout) {
		d, err := time.ParseDuration(*f.Timeout)
		if err != nil {
			return fmt.Errorf("config file timeout: %w", err)
		}
		cfg.Runtime.Timeout = d
	}
	return nil
}
