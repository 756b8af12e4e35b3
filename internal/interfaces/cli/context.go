package cli

import (
	"io"
	"os"
)

// Context carries the persistent flags and output streams shared by all
// commands.
type Context struct {
	ConfigPath string
	Verbose    bool
	LogFile    string
	LogFormat  string
	Debug      bool

	Stdout io.Writer
	Stderr io.Writer
}

func NewContext() *Context {
	return &Context{
		LogFormat: "pattern",
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}
