package common

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Logger interface {
	Log(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// logger prefixes every line with the component name.
type logger struct {
	mu        sync.Mutex
	component string
	out       io.Writer
	prefix    *color.Color
	errColor  *color.Color
}

func NewLogger(component string) *logger {
	return NewLoggerTo(component, os.Stdout)
}

// NewLoggerTo writes to out. Colors are dropped when out is not a terminal,
// as decided by fatih/color.
func NewLoggerTo(component string, out io.Writer) *logger {
	return &logger{
		component: component,
		out:       out,
		prefix:    color.New(color.FgCyan),
		errColor:  color.New(color.FgRed, color.Bold),
	}
}

func (l *logger) Log(format string, args ...interface{}) {
	l.write(nil, format, args...)
}

func (l *logger) Error(format string, args ...interface{}) {
	l.write(l.errColor, format, args...)
}

func (l *logger) write(c *color.Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c != nil {
		msg = c.Sprint(msg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		l.prefix.Sprintf("[%s]", l.component),
		msg,
	)
}
