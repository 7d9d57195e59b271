package editor

import "github.com/rs/zerolog"

// Notifier surfaces user-facing feedback for commands.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

// LogNotifier reports feedback through a logger.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Info(msg string) { n.Log.Info().Msg(msg) }
func (n LogNotifier) Warn(msg string) { n.Log.Warn().Msg(msg) }
