// Package log writes level tagged log lines to stderr.
//
// The level is part of the message itself, e.g. log.Println("[warn] skipping
// element"). Lines below the minimum level are dropped. Lines without a level
// are always written.
package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}

var DefaultLogger *log.Logger
var defaultFilter *levelFilter

type Level string

const (
	LDebug = Level("debug")
	LStep  = Level("step")
	LInfo  = Level("info")
	LWarn  = Level("warn")
	LError = Level("error")
	LFatal = Level("fatal")
)

var levels = []Level{LDebug, LStep, LInfo, LWarn, LError, LFatal}

func init() {
	defaultFilter = newLevelFilter(os.Stderr, LStep)
	DefaultLogger = log.New(defaultFilter, "", 0)
}

type levelFilter struct {
	mu        sync.Mutex
	start     time.Time
	writer    io.Writer
	minLevel  Level
	badLevels map[Level]struct{}
}

func newLevelFilter(w io.Writer, min Level) *levelFilter {
	f := &levelFilter{start: time.Now(), writer: w}
	f.setMinLevel(min)
	return f
}

func (f *levelFilter) setMinLevel(lvl Level) {
	f.mu.Lock()
	defer f.mu.Unlock()
	badLevels := make(map[Level]struct{})
	for _, level := range levels {
		if level == lvl {
			break
		}
		badLevels[level] = struct{}{}
	}
	f.minLevel = lvl
	f.badLevels = badLevels
}

func (f *levelFilter) setOutput(w io.Writer) {
	f.mu.Lock()
	f.writer = w
	f.mu.Unlock()
}

// lineLevel returns the level from the first [...] in line.
func lineLevel(line []byte) Level {
	x := bytes.IndexByte(line, '[')
	if x < 0 {
		return ""
	}
	y := bytes.IndexByte(line[x:], ']')
	if y < 0 {
		return ""
	}
	return Level(line[x+1 : x+y])
}

func (f *levelFilter) Write(p []byte) (n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.badLevels[lineLevel(p)]; ok {
		return len(p), nil
	}

	b := bytes.Buffer{}
	now := time.Now()
	d := now.Sub(f.start)
	fmt.Fprintf(&b, "[%s] %d:%02d:%02d ",
		now.Format(time.RFC3339),
		int(d.Hours()),
		int(math.Mod(d.Minutes(), 60)),
		int(math.Mod(d.Seconds(), 60)),
	)
	b.Write(p)

	if _, err := f.writer.Write(b.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func SetMinLevel(lvl Level) {
	defaultFilter.setMinLevel(lvl)
}

// SetQuiet only lets warnings and errors through.
func SetQuiet(quiet bool) {
	if quiet {
		SetMinLevel(LWarn)
	} else {
		SetMinLevel(LStep)
	}
}

func SetOutput(w io.Writer) {
	defaultFilter.setOutput(w)
}

func Println(v ...interface{}) {
	DefaultLogger.Println(v...)
}

func Printf(format string, v ...interface{}) {
	DefaultLogger.Printf(format, v...)
}

func Fatal(v ...interface{}) {
	DefaultLogger.Fatal(v...)
}

func Fatalf(format string, v ...interface{}) {
	DefaultLogger.Fatalf(format, v...)
}

// Step logs the start of name and returns a func that logs
// the end together with the elapsed time.
func Step(name string) func() {
	start := time.Now()
	Println("[step] Starting:", name)
	return func() {
		Printf("[step] Finished: %s in %s", name, time.Since(start))
	}
}
