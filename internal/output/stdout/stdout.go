// Package stdout writes export tables as NDJSON to standard output.
package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/altum-analytics/uidmatch/internal/model"
)

// row is one NDJSON line: a record tagged with its table name.
type row struct {
	Table string `json:"table"`
	model.MatchRecord
}

// Output writes one JSON line per export row.
type Output struct {
	enc *json.Encoder
}

// New creates an Output on standard output.
func New() *Output {
	return NewWriter(os.Stdout)
}

// NewWriter creates an Output on an arbitrary writer.
func NewWriter(w io.Writer) *Output {
	return &Output{enc: json.NewEncoder(w)}
}

func (o *Output) WriteTable(_ context.Context, name string, rows []model.MatchRecord) error {
	for _, r := range rows {
		if err := o.enc.Encode(row{Table: name, MatchRecord: r}); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
