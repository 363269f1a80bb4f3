package server

import (
	"fmt"
	"time"
)

// Console message levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// console collects the human readable progress messages of a single render
type console struct {
	now  func() time.Time
	send func(ConsoleMessage) error
}

func newConsole(send func(ConsoleMessage) error) *console {
	return &console{
		now:  time.Now,
		send: send,
	}
}

// Printf formats a message and sends it with the given level
func (c *console) Printf(level, format string, args ...any) error {
	return c.send(ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: c.now(),
		Level:     level,
	})
}
