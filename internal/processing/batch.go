// Package processing drives the per-template compression loop: estimate the
// template-specific resolution, generate the dense waveform, select candidate
// points, compress, and hand the result to the store keyed by batch position.
package processing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/kacperjurak/gowavebank"
	"github.com/kacperjurak/gowavebank/pkg/bank"
	"github.com/kacperjurak/gowavebank/pkg/config"
	"github.com/kacperjurak/gowavebank/pkg/models"
	"github.com/kacperjurak/gowavebank/pkg/store"
	"github.com/kacperjurak/gowavebank/pkg/worker"
)

// BatchCompressor runs one compression pass over a template bank.
type BatchCompressor struct {
	cfg      *config.Config
	provider bank.Provider
	logger   *zap.Logger
}

// New creates a batch compressor. The logger is required; pass
// logging.Nop() to silence it.
func New(cfg *config.Config, provider bank.Provider, logger *zap.Logger) *BatchCompressor {
	return &BatchCompressor{cfg: cfg, provider: provider, logger: logger}
}

// Summary aggregates the per-template outcomes of one run.
type Summary struct {
	Processed     int
	Converged     int
	NonConvergent int
	Failed        int
	WorstMismatch float64
	MeanMismatch  float64
}

// RowWriter consumes compressed rows in position order. *store.Writer is the
// production sink.
type RowWriter interface {
	WriteRow(store.Row) error
}

// Run compresses every template in the configured index range and writes
// rows to st as they complete, in position order. Per-template failures are
// isolated: they are recorded and the batch continues, but the run returns a
// non-nil error if any template failed or failed to converge. In strict mode
// the first non-convergent template stops further output. A sink write error
// also stops output; in-flight templates still drain so the pool shuts down
// cleanly and rows accepted before the error stay flushable.
func (b *BatchCompressor) Run(templates []models.Template, st RowWriter) (Summary, error) {
	var summary Summary

	start := b.cfg.TemplateStart
	end := b.cfg.TemplateEnd
	if end < 0 || end >= len(templates) {
		end = len(templates) - 1
	}
	if start > end || start >= len(templates) {
		return summary, fmt.Errorf("%w: template range [%d, %d] selects nothing from a bank of %d",
			gowavebank.ErrInvalidParameter, b.cfg.TemplateStart, b.cfg.TemplateEnd, len(templates))
	}
	selected := templates[start : end+1]
	n := len(selected)

	b.logger.Info("compression run started",
		zap.Int("templates", n),
		zap.String("algorithm", b.cfg.Algorithm),
		zap.String("interpolation", b.cfg.Interpolation),
		zap.Float64("precision", b.cfg.Precision),
		zap.Int("workers", b.cfg.Workers),
	)

	pool := worker.New(worker.Options{Workers: b.cfg.Workers, Processor: b.process})
	go func() {
		for pos, tmpl := range selected {
			pool.Submit(models.WorkItem{Pos: pos, Index: start + pos, Template: tmpl})
		}
	}()

	var (
		pending    = make([]*models.WorkResult, n)
		nextWrite  = 0
		failures   []error
		strictHit  bool
		writeErr   error
		mismatches []float64
	)
	for received := 0; received < n; received++ {
		res := <-pool.Results()
		b.logResult(&res)
		pending[res.Pos] = &res

		// Rows go out keyed by position as soon as every earlier position
		// is complete, so a later failure cannot corrupt prior output.
		for nextWrite < n && pending[nextWrite] != nil {
			r := pending[nextWrite]
			nextWrite++

			switch {
			case r.Err == nil:
				summary.Converged++
			case errors.Is(r.Err, gowavebank.ErrNonConvergent):
				summary.NonConvergent++
				failures = append(failures, fmt.Errorf("template %d: %w", r.Index, r.Err))
				if b.cfg.Strict {
					strictHit = true
				}
			default:
				summary.Failed++
				failures = append(failures, fmt.Errorf("template %d: %w", r.Index, r.Err))
				continue
			}
			if strictHit || writeErr != nil {
				continue
			}
			if err := st.WriteRow(rowFor(r)); err != nil {
				// Returning here would abandon the submitter and workers
				// mid-flight; remember the error and keep draining instead.
				b.logger.Error("writing row failed", zap.Int("pos", r.Pos), zap.Error(err))
				writeErr = err
				continue
			}
			summary.Processed++
			mismatches = append(mismatches, r.Compressed.Mismatch)
		}
	}
	pool.Shutdown()

	if len(mismatches) > 0 {
		summary.WorstMismatch = floats.Max(mismatches)
		summary.MeanMismatch = floats.Sum(mismatches) / float64(len(mismatches))
	}
	b.logger.Info("compression run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("converged", summary.Converged),
		zap.Int("non_convergent", summary.NonConvergent),
		zap.Int("failed", summary.Failed),
		zap.Float64("worst_mismatch", summary.WorstMismatch),
		zap.Float64("mean_mismatch", summary.MeanMismatch),
	)

	if writeErr != nil {
		return summary, writeErr
	}
	if len(failures) > 0 {
		return summary, errors.Join(failures...)
	}
	return summary, nil
}

// process handles one template end to end. Everything here is a pure
// function of the template apart from the scratch buffer owned by the
// calling worker.
func (b *BatchCompressor) process(item models.WorkItem, scratch *gowavebank.Scratch) models.WorkResult {
	res := models.WorkResult{Pos: item.Pos, Index: item.Index, Template: item.Template}
	t := item.Template
	started := time.Now()
	defer func() { res.ProcessingTime = time.Since(started) }()

	seglen, err := gowavebank.EstimateSegment(t.Mass1, t.Mass2, b.cfg.FLow, b.cfg.SampleRate)
	if err != nil {
		res.Err = err
		return res
	}
	deltaF := 1 / seglen
	fHigh := b.cfg.SampleRate / 2

	// Generate one resolution step below f_low so the first sample point is
	// guaranteed to sit inside the waveform's support.
	series, err := b.provider.Generate(t, deltaF, b.cfg.FLow-deltaF, fHigh)
	if err != nil {
		res.Err = fmt.Errorf("%w: template %d: %v", gowavebank.ErrUpstreamGeneration, item.Index, err)
		return res
	}

	if b.logger.Core().Enabled(zap.DebugLevel) {
		b.checkChirpMass(series, &t, item.Index, fHigh)
	}

	points, err := gowavebank.SelectPoints(b.cfg.Algorithm, gowavebank.SelectorContext{
		Series:    series,
		Mass1:     t.Mass1,
		Mass2:     t.Mass2,
		FLow:      b.cfg.FLow,
		FHigh:     fHigh,
		MinSeglen: b.cfg.MinSeglen,
	})
	if err != nil {
		res.Err = err
		return res
	}

	res.Compressed, res.Err = gowavebank.Compress(series, points, b.cfg.Precision, b.cfg.Interpolation, scratch)
	return res
}

// checkChirpMass cross-checks the template's metadata against the chirp mass
// recovered from the generated waveform's own phase evolution.
func (b *BatchCompressor) checkChirpMass(series *gowavebank.FrequencySeries, t *models.Template, index int, fHigh float64) {
	upper := math.Min(fHigh, 8*b.cfg.FLow)
	fit, err := gowavebank.FitChirpTime(series, b.cfg.FLow, upper)
	if err != nil {
		b.logger.Debug("chirp-time fit skipped", zap.Int("index", index), zap.Error(err))
		return
	}
	b.logger.Debug("chirp-time fit",
		zap.Int("index", index),
		zap.Float64("fitted_chirp_mass", fit.ChirpMass),
		zap.Float64("bank_chirp_mass", gowavebank.ChirpMass(t.Mass1, t.Mass2)),
		zap.Float64("exponent", fit.Exponent),
		zap.Float64("residual", fit.Residual),
	)
}

func (b *BatchCompressor) logResult(r *models.WorkResult) {
	fields := []zap.Field{
		zap.Int("pos", r.Pos),
		zap.Int("index", r.Index),
		zap.Duration("took", r.ProcessingTime),
	}
	switch {
	case r.Err == nil:
		b.logger.Info("template compressed", append(fields,
			zap.Int("points", len(r.Compressed.SamplePoints)),
			zap.Float64("mismatch", r.Compressed.Mismatch))...)
	case errors.Is(r.Err, gowavebank.ErrNonConvergent):
		b.logger.Warn("template did not converge", append(fields,
			zap.Int("points", len(r.Compressed.SamplePoints)),
			zap.Float64("mismatch", r.Compressed.Mismatch))...)
	default:
		b.logger.Error("template failed", append(fields, zap.Error(r.Err))...)
	}
}

func rowFor(r *models.WorkResult) store.Row {
	return store.Row{
		Pos:          int64(r.Pos),
		Mass1:        r.Template.Mass1,
		Mass2:        r.Template.Mass2,
		Spin1z:       r.Template.Spin1z,
		Spin2z:       r.Template.Spin2z,
		TemplateHash: r.Template.Hash,
		Mismatch:     r.Compressed.Mismatch,
		Frequency:    r.Compressed.SamplePoints,
		Amplitude:    r.Compressed.Amplitude,
		Phase:        r.Compressed.Phase,
	}
}
