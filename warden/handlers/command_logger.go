package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const interactionTimeout = 10 * time.Second

// WrapWithLogging logs start, completion and duration of a command handler
// and aborts it after the interaction timeout.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return logged("cmd", name, e.User(), func() error { return h(e) })
	}
}

// WrapComponentWithLogging is WrapWithLogging for component interactions.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return logged("component", name, e.User(), func() error { return h(e) })
	}
}

func logged(kind, name string, user discord.User, fn func() error) error {
	start := time.Now()
	slog.Info("Interaction started",
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_id", user.ID.String()),
		slog.String("user_name", user.Username))

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		took := time.Since(start)
		attrs := []any{
			slog.String("type", kind),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()),
			slog.Duration("took", took),
		}
		switch {
		case err != nil:
			slog.Error("Interaction failed", append(attrs, slog.Any("error", err))...)
		case took > 2*time.Second:
			slog.Warn("Interaction executed slowly", attrs...)
		default:
			slog.Info("Interaction completed", attrs...)
		}
		return err

	case <-time.After(interactionTimeout):
		slog.Error("Interaction timed out",
			slog.String("type", kind),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%s %q timed out after %s", kind, name, interactionTimeout)
	}
}
