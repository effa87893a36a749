// Package debug provides centralized, categorized logging on top of zerolog.
//
// Categories are switched on and off at runtime. The CRUMBBAR_DEBUG
// environment variable overrides the defaults at startup:
//
//	CRUMBBAR_DEBUG=all | none | APP,FS,MOVE
package debug

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Category represents a debug logging category
type Category string

const (
	APP   Category = "APP"   // Startup, window loop, wiring
	FS    Category = "FS"    // File-system model: navigate, rename, delete
	WATCH Category = "WATCH" // Directory watcher events
	MOVE  Category = "MOVE"  // Drop batches and conflict resolution
	UI    Category = "UI"    // Breadcrumb rendering and drag events

	// Verbose
	UI_EVENT Category = "UI_EVENT" // Every pointer/transfer event
)

var (
	enabledCategories = map[Category]bool{
		APP:      true,
		FS:       true,
		WATCH:    true,
		MOVE:     true,
		UI:       true,
		UI_EVENT: false,
	}
	categoryMu sync.RWMutex

	loggerMu sync.RWMutex
	logger   = newLogger(os.Stderr)
	verbose  bool
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)
}

func init() {
	if env := os.Getenv("CRUMBBAR_DEBUG"); env != "" {
		applySpec(env)
		setVerbose(true)
	}
}

// applySpec parses an "all", "none" or comma-separated category list.
func applySpec(spec string) {
	categoryMu.Lock()
	defer categoryMu.Unlock()

	spec = strings.ToUpper(strings.TrimSpace(spec))
	switch spec {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(spec, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				enabledCategories[Category(cat)] = true
			}
		}
	}
}

// Configure applies a category list in the CRUMBBAR_DEBUG format.
func Configure(spec string) {
	applySpec(spec)
}

// Init sets the output and verbosity. Debug lines are only written when
// verbose is true; warnings and errors are always written.
func Init(w io.Writer, isVerbose bool) {
	loggerMu.Lock()
	logger = newLogger(w)
	loggerMu.Unlock()
	setVerbose(isVerbose)
}

func setVerbose(v bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	verbose = v
	if v {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

// Logger returns the process logger for non-debug output.
func Logger() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := logger
	return &l
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	if !IsEnabled(cat) {
		return
	}
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	l.Debug().Str("cat", string(cat)).Msg(fmt.Sprintf(format, args...))
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// SetCategories sets the enabled state for multiple categories
func SetCategories(cats map[Category]bool) {
	categoryMu.Lock()
	for cat, enabled := range cats {
		enabledCategories[cat] = enabled
	}
	categoryMu.Unlock()
}

// ListEnabled returns the enabled categories in name order.
func ListEnabled() []Category {
	categoryMu.RLock()
	defer categoryMu.RUnlock()

	var enabled []Category
	for cat, on := range enabledCategories {
		if on {
			enabled = append(enabled, cat)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i] < enabled[j] })
	return enabled
}
