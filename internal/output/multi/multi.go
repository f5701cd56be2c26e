// Package multi fans export tables out to several outputs.
package multi

import (
	"context"
	"errors"

	"github.com/altum-analytics/uidmatch/internal/model"
	"github.com/altum-analytics/uidmatch/internal/output"
)

// Multi delivers every table to every wrapped output sequentially. One
// failing output does not stop delivery to the rest; errors are joined.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over the given outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

func (m *Multi) WriteTable(ctx context.Context, name string, rows []model.MatchRecord) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.WriteTable(ctx, name, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped output, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
