// Package notifier announces newly published dataset analyses.
package notifier

import (
	"log/slog"

	"github.com/amishk599/datajobs/internal/dataset"
)

// LogNotifier writes one structured line per published Analysis. Register
// Notify with reload.Loader.OnChange.
type LogNotifier struct {
	logger *slog.Logger

	// previous row counts; Notify is only called from the serialised load path
	seen         bool
	rows, euRows int
}

// NewLogNotifier returns a notifier that logs via logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the id, source and row counts of a. From the second call on it
// also logs how the row counts moved since the previous analysis.
func (n *LogNotifier) Notify(a *dataset.Analysis) {
	if a == nil {
		return
	}
	rows, euRows := a.Raw.Nrow(), a.EU.Nrow()
	args := []any{
		"id", a.ID,
		"source", a.Source,
		"rows", rows,
		"eu_rows", euRows,
		"loaded_at", a.LoadedAt.Format("2006-01-02 15:04:05"),
	}
	msg := "dataset published"
	if n.seen {
		msg = "dataset changed"
		args = append(args, "rows_delta", rows-n.rows, "eu_rows_delta", euRows-n.euRows)
	}
	n.logger.Info(msg, args...)

	n.seen = true
	n.rows, n.euRows = rows, euRows
}
