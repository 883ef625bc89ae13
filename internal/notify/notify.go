// Package notify delivers reminders to the user.
package notify

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
)

// LogNotifier writes reminders to the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogNotifier{logger: logger}
}

// Deliver logs the reminder.
func (n *LogNotifier) Deliver(_ context.Context, id int64, title, body string) error {
	n.logger.Info("reminder", "activity_id", id, "title", title, "body", body)
	return nil
}

// CommandNotifier runs a command with the title and body appended as the
// last two arguments, e.g. notify-send. WODPLUS_ACTIVITY_ID carries the id.
type CommandNotifier struct {
	args   []string
	logger *slog.Logger
}

// NewCommandNotifier creates a CommandNotifier for args.
func NewCommandNotifier(args []string, logger *slog.Logger) *CommandNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommandNotifier{args: args, logger: logger}
}

// Deliver runs the command. A failing command is logged and otherwise
// ignored, the same as a refused system notification.
func (n *CommandNotifier) Deliver(ctx context.Context, id int64, title, body string) error {
	if len(n.args) == 0 {
		n.logger.Warn("no notify command configured", "activity_id", id)
		return nil
	}
	argv := append(append([]string{}, n.args[1:]...), title, body)
	cmd := exec.CommandContext(ctx, n.args[0], argv...)
	cmd.Env = append(cmd.Environ(), "WODPLUS_ACTIVITY_ID="+strconv.FormatInt(id, 10))
	if out, err := cmd.CombinedOutput(); err != nil {
		n.logger.Warn("notify command failed", "activity_id", id, "error", err, "output", string(out))
	}
	return nil
}
