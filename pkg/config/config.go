package config

import (
	"fmt"

	"github.com/kacperjurak/gowavebank"
)

// Config holds all settings for one compression run.
type Config struct {
	BankFile      string
	OutFile       string
	FLow          float64
	SampleRate    float64
	TemplateStart int
	TemplateEnd   int // inclusive; -1 means the last template in the bank
	Algorithm     string
	Interpolation string
	Precision     float64
	MinSeglen     float64
	Compression   string
	Workers       int
	Strict        bool
	Quiet         bool
	Profiling     bool
	ProfilingPort string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BankFile:      "bank.txt",
		OutFile:       "bank_compressed.parquet",
		FLow:          20,
		SampleRate:    4096,
		TemplateStart: 0,
		TemplateEnd:   -1,
		Algorithm:     gowavebank.AlgMassBased,
		Interpolation: gowavebank.InterpLinear,
		Precision:     1e-3,
		MinSeglen:     0.02,
		Compression:   "snappy",
		Workers:       4,
		ProfilingPort: "6060",
	}
}

// Validate rejects configuration errors before any template work begins, so
// a bad run never creates an output file. Strategy and interpolation names
// are checked against their closed sets here, not per template.
func (c *Config) Validate() error {
	if c.FLow <= 0 {
		return fmt.Errorf("%w: f_low must be positive, got %g", gowavebank.ErrInvalidParameter, c.FLow)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %g", gowavebank.ErrInvalidParameter, c.SampleRate)
	}
	if fHigh := c.SampleRate / 2; c.FLow >= fHigh {
		return fmt.Errorf("%w: f_low %g >= f_high %g", gowavebank.ErrInvalidParameter, c.FLow, fHigh)
	}
	if c.Precision <= 0 {
		return fmt.Errorf("%w: precision must be positive, got %g", gowavebank.ErrInvalidParameter, c.Precision)
	}
	if c.MinSeglen <= 0 {
		return fmt.Errorf("%w: min seglen must be positive, got %g", gowavebank.ErrInvalidParameter, c.MinSeglen)
	}
	if c.TemplateStart < 0 {
		return fmt.Errorf("%w: template range start %d is negative", gowavebank.ErrInvalidParameter, c.TemplateStart)
	}
	if c.TemplateEnd >= 0 && c.TemplateEnd < c.TemplateStart {
		return fmt.Errorf("%w: empty template range [%d, %d]", gowavebank.ErrInvalidParameter, c.TemplateStart, c.TemplateEnd)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", gowavebank.ErrInvalidParameter, c.Workers)
	}
	if !contains(gowavebank.Algorithms(), c.Algorithm) {
		return fmt.Errorf("%w: %q (supported: %v)", gowavebank.ErrUnknownAlgorithm, c.Algorithm, gowavebank.Algorithms())
	}
	if _, err := gowavebank.NewInterpolator(c.Interpolation); err != nil {
		return err
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
