package notifier

import (
	"go.uber.org/zap"

	"portfolio_tracker/internal/app/port"
)

// LogNotifier publishes the formatted portfolio total to the structured log.
// It stands in for a desktop notification surface; anything tailing the log
// sees every total the aggregator produces.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("tray")}
}

// PublishTotal publishes an already formatted total, e.g. "$325.00".
func (n *LogNotifier) PublishTotal(formattedTotal string) {
	n.logger.Info("Portfolio total updated", zap.String("total", formattedTotal))
}

var _ port.TrayNotifier = (*LogNotifier)(nil)
