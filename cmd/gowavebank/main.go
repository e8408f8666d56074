package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kacperjurak/gowavebank/internal/processing"
	"github.com/kacperjurak/gowavebank/pkg/bank"
	"github.com/kacperjurak/gowavebank/pkg/config"
	"github.com/kacperjurak/gowavebank/pkg/logging"
	"github.com/kacperjurak/gowavebank/pkg/models"
	"github.com/kacperjurak/gowavebank/pkg/profiling"
	"github.com/kacperjurak/gowavebank/pkg/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := parseFlags()

	// Configuration errors are fatal before any output file exists.
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := logging.New(cfg.Quiet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Sync()

	if cfg.Profiling {
		prof := profiling.New(cfg.ProfilingPort, logger)
		prof.Start()
		defer prof.Stop()
	}

	templates, err := bank.LoadBank(cfg.BankFile)
	if err != nil {
		logger.Error("loading bank failed", zap.Error(err))
		return 2
	}

	st, err := store.NewWriter(cfg.OutFile, models.BankMetadata{
		Interpolation: cfg.Interpolation,
		Precision:     cfg.Precision,
	}, cfg.Compression)
	if err != nil {
		logger.Error("creating output failed", zap.Error(err))
		return 2
	}

	driver := processing.New(cfg, bank.TaylorF2Provider{}, logger)
	_, runErr := driver.Run(templates, st)
	if err := st.Close(); err != nil {
		logger.Error("closing output failed", zap.Error(err))
		return 1
	}
	if runErr != nil {
		// Partial output stays inspectable; the exit status reports that
		// not every template made the precision bound.
		logger.Error("run completed with failures", zap.Error(runErr))
		return 1
	}
	return 0
}

func parseFlags() *config.Config {
	cfg := config.DefaultConfig()

	flag.StringVar(&cfg.BankFile, "bank", cfg.BankFile, "Template bank file (m1 m2 s1z s2z per row)")
	flag.StringVar(&cfg.OutFile, "out", cfg.OutFile, "Output parquet file")
	flag.Float64Var(&cfg.FLow, "flow", cfg.FLow, "Low-frequency cutoff (Hz)")
	flag.Float64Var(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Sample rate (Hz); f_high is half of this")
	flag.IntVar(&cfg.TemplateStart, "tstart", cfg.TemplateStart, "First template index to process (inclusive)")
	flag.IntVar(&cfg.TemplateEnd, "tend", cfg.TemplateEnd, "Last template index to process (inclusive, -1 = all)")
	flag.StringVar(&cfg.Algorithm, "algorithm", cfg.Algorithm, "Point-selection strategy (mass-based, local-freq-deriv)")
	flag.StringVar(&cfg.Interpolation, "interp", cfg.Interpolation, "Interpolation kind (linear, cubic, akima, pchip)")
	flag.Float64Var(&cfg.Precision, "precision", cfg.Precision, "Mismatch bound for the reconstruction")
	flag.Float64Var(&cfg.MinSeglen, "min-seglen", cfg.MinSeglen, "Minimum duration padding (s) controlling point density")
	flag.StringVar(&cfg.Compression, "compression", cfg.Compression, "Parquet codec (snappy, zstd, gzip)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent compression workers")
	flag.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Abort output on the first non-convergent template")
	flag.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Quiet mode (errors only)")
	flag.BoolVar(&cfg.Profiling, "profile", cfg.Profiling, "Enable the pprof server")
	flag.StringVar(&cfg.ProfilingPort, "profile-port", cfg.ProfilingPort, "pprof server port")
	flag.Parse()

	return cfg
}
