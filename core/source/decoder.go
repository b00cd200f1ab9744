package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"registry-sync/core/reconcile"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidRecord marks a line that is not a usable record.
var ErrInvalidRecord = errors.New("invalid record")

// maxLine bounds one record; long readmes push past bufio's 64KiB default.
const maxLine = 8 << 20

// Decoder reads JSON line records. It implements reconcile.Source.
type Decoder struct {
	scanner  *bufio.Scanner
	validate *validator.Validate
	log      *zap.Logger
	line     int
	skipped  int
}

// NewDecoder creates a decoder over r. A nil logger discards warnings.
func NewDecoder(r io.Reader, log *zap.Logger) *Decoder {
	if log == nil {
		log = zap.NewNop()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	return &Decoder{
		scanner:  scanner,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Next returns the next valid record, or io.EOF once the input is exhausted.
func (d *Decoder) Next(ctx context.Context) (reconcile.Record, error) {
	for d.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return reconcile.Record{}, err
		}
		d.line++

		raw := d.scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		rec, err := d.decode(raw)
		if err != nil {
			d.skipped++
			d.log.Warn("Skipping record", zap.Int("line", d.line), zap.Error(err))
			continue
		}
		return rec, nil
	}

	if err := d.scanner.Err(); err != nil {
		return reconcile.Record{}, fmt.Errorf("failed to read records at line %d: %w", d.line+1, err)
	}
	return reconcile.Record{}, io.EOF
}

func (d *Decoder) decode(raw []byte) (reconcile.Record, error) {
	var rec reconcile.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := d.validate.Struct(rec); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec, nil
}

// Skipped returns how many non-blank lines were rejected so far.
func (d *Decoder) Skipped() int {
	return d.skipped
}

// Lines returns how many lines were read so far.
func (d *Decoder) Lines() int {
	return d.line
}
