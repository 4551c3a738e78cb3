package config

import (
	"flag"
	"time"

	"github.com/xyproto/env/v2"

	"vice/pkg/compiler"
)

// Environment variables read by Load.
const (
	EnvCompiler   = "VICE_COMPILER"
	EnvParameters = "VICE_PARAMETERS"
	EnvSyntax     = "VICE_SYNTAX"
	EnvDebounce   = "VICE_DEBOUNCE_MS"
	EnvVerbose    = "VICE_VERBOSE"
)

const defaultDebounceMillis = 1000

type Config struct {
	Compiler   string
	Parameters string
	Syntax     string
	Debounce   time.Duration
	Verbose    bool
}

// noSyntax in VICE_SYNTAX selects the compiler's own default syntax.
const noSyntax = "none"

// Load reads the configuration from the environment, falling back to gcc with
// Intel syntax.
func Load() Config {
	defaults := compiler.DefaultOptions()

	cfg := Config{
		Compiler:   env.Str(EnvCompiler, defaults.Compiler),
		Parameters: env.Str(EnvParameters),
		Syntax:     env.Str(EnvSyntax, defaults.Syntax),
		Debounce:   time.Duration(env.Int(EnvDebounce, defaultDebounceMillis)) * time.Millisecond,
		Verbose:    env.Bool(EnvVerbose),
	}
	if cfg.Syntax == noSyntax {
		cfg.Syntax = ""
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounceMillis * time.Millisecond
	}
	return cfg
}

// RegisterFlags binds the compiler flags shared by every vice command, using
// the current values of c as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Compiler, "cc", c.Compiler, "compiler executable")
	fs.StringVar(&c.Parameters, "params", c.Parameters, "extra compiler flags, space separated")
	fs.StringVar(&c.Syntax, "syntax", c.Syntax, "assembly syntax passed as -masm (empty for compiler default)")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "delay before recompiling after a change")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose logging")
}

func (c Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		Compiler:   c.Compiler,
		Parameters: c.Parameters,
		Syntax:     c.Syntax,
	}
}
