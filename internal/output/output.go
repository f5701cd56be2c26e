// Package output defines the destination interface for finished export
// tables.
package output

import (
	"context"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// Output receives named export tables. A table is written whole: partial
// tables are never published.
type Output interface {
	WriteTable(ctx context.Context, name string, rows []model.MatchRecord) error
	Close() error
}
