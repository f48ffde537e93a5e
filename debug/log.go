package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const ringSize = 64

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool

	// ring of recent lines for the TUI trace pane
	recent [ringSize]string
	head   int
	count  int
)

// Enable starts trace logging to ~/.config/midirig/debug.log. The ring of
// recent lines is kept regardless, so the TUI trace pane works without the
// file log.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", "midirig")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f
	enabled = true

	line := format("debug", "=== trace started ===")
	fmt.Fprintln(file, line)
	file.Sync()
	return nil
}

// Disable stops file logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log records a categorised trace line
func Log(category, msgFormat string, args ...any) {
	line := format(category, fmt.Sprintf(msgFormat, args...))

	mu.Lock()
	defer mu.Unlock()

	recent[head] = line
	head = (head + 1) % ringSize
	if count < ringSize {
		count++
	}

	if enabled && file != nil {
		fmt.Fprintln(file, line)
		file.Sync() // flush immediately so lines survive a crash
	}
}

// Recent returns up to n most-recent trace lines, oldest first
func Recent(n int) []string {
	mu.Lock()
	defer mu.Unlock()

	if n > count {
		n = count
	}
	out := make([]string, 0, n)
	// head points at the slot after the newest line
	start := (head - n + ringSize) % ringSize
	for i := 0; i < n; i++ {
		out = append(out, recent[(start+i)%ringSize])
	}
	return out
}

func format(category, msg string) string {
	return fmt.Sprintf("[%s] %-8s %s", time.Now().Format("15:04:05.000"), category, msg)
}
