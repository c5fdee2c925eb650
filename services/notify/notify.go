// Package notify implements core.Notifier: toasts printed to a terminal, or recorded for tests.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/labstack/gommon/color"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Console prints toasts, colored by level.
type Console struct {
	out   io.Writer
	color *color.Color
	mu    sync.Mutex
}

func NewConsole(out io.Writer, colored bool) *Console {
	clr := color.New()
	clr.SetOutput(out)
	if !colored {
		clr.Disable()
	}
	return &Console{out: out, color: clr}
}

func (c *Console) Success(title string) { c.print(c.color.Green("✔ ") + title) }
func (c *Console) Warning(title string) { c.print(c.color.Yellow("! ") + title) }
func (c *Console) Error(title string)   { c.print(c.color.Red("✘ ") + title) }

func (c *Console) print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}

// Toast is a recorded notification.
type Toast struct {
	Level Level
	Title string
}

// Recorder keeps every toast in memory.
type Recorder struct {
	Toasts []Toast
	mu     sync.Mutex
}

func (r *Recorder) Success(title string) { r.add(LevelSuccess, title) }
func (r *Recorder) Warning(title string) { r.add(LevelWarning, title) }
func (r *Recorder) Error(title string)   { r.add(LevelError, title) }

func (r *Recorder) add(lvl Level, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Toasts = append(r.Toasts, Toast{Level: lvl, Title: title})
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Toasts) == 0 {
		return Toast{}, false
	}
	return r.Toasts[len(r.Toasts)-1], true
}

// Count returns how many toasts of the given level were recorded.
func (r *Recorder) Count(lvl Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, t := range r.Toasts {
		if t.Level == lvl {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Toasts = nil
}
