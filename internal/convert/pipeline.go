package convert

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tlamer/pyqif/internal/config"
	"github.com/tlamer/pyqif/internal/qif"
)

// RowSource supplies raw rows one at a time, returning io.EOF when the input
// is exhausted. csv.Reader satisfies it.
type RowSource interface {
	Read() ([]string, error)
}

// Converter streams rows from a source into QIF records on a sink. Each run
// is tagged with a uuid so log lines of concurrent invocations stay
// distinguishable.
type Converter struct {
	cfg   *config.AccountConfig
	log   zerolog.Logger
	runID string
}

// New returns a Converter for the given account configuration.
func New(cfg *config.AccountConfig, log zerolog.Logger) *Converter {
	return &Converter{
		cfg:   cfg,
		log:   log,
		runID: uuid.NewString(),
	}
}

// Run writes the account preamble, consumes the header row or the configured
// number of leading rows, then formats and flushes one record per remaining
// row. Records are written as soon as they are built; on error, previously
// flushed records stay in the sink and the run aborts.
func (c *Converter) Run(src RowSource, sink io.Writer) error {
	log := c.log.With().
		Str("run_id", c.runID).
		Str("account", c.cfg.Account).
		Logger()

	if _, err := io.WriteString(sink, qif.Header(c.cfg.Account, c.cfg.Type)); err != nil {
		return fmt.Errorf("writing account preamble: %w", err)
	}

	rows := 0
	if c.cfg.Items.NeedsHeader() {
		header, err := src.Read()
		if errors.Is(err, io.EOF) {
			return errors.New("input ended before the header row")
		}
		if err != nil {
			return fmt.Errorf("reading header row: %w", err)
		}
		rows++
		if err := ResolveHeader(c.cfg.Items, header); err != nil {
			return err
		}
		log.Debug().Strs("header", header).Msg("field positions resolved from header row")
	} else {
		for i := 0; i < c.cfg.Skip; i++ {
			if _, err := src.Read(); err != nil {
				if errors.Is(err, io.EOF) {
					log.Debug().Int("skipped", i).Msg("input exhausted while skipping leading rows")
					return nil
				}
				return fmt.Errorf("skipping leading row %d: %w", i+1, err)
			}
			rows++
		}
	}

	records := 0
	for {
		row, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading row %d: %w", rows+1, err)
		}
		rows++

		out, err := FormatRecord(c.cfg, row)
		if err != nil {
			return fmt.Errorf("row %d: %w", rows, err)
		}
		if _, err := io.WriteString(sink, out); err != nil {
			return fmt.Errorf("writing record for row %d: %w", rows, err)
		}
		records++
	}

	log.Info().Int("rows", rows).Int("records", records).Msg("conversion finished")
	return nil
}
