// Package store persists compressed waveforms to a single parquet container:
// one row per processed template, keyed by its position within the batch,
// with the run configuration recorded as file-level key/value metadata.
package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/kacperjurak/gowavebank/pkg/models"
)

// Metadata keys attached to the output file. Both are required to reproduce
// the stored mismatch when decompressing later.
const (
	MetaInterpolation = "interpolation"
	MetaPrecision     = "precision"
)

// Row is one compressed template. The frequency, amplitude and phase columns
// have equal length: the number of retained sample points.
type Row struct {
	Pos          int64     `parquet:"pos"`
	Mass1        float64   `parquet:"mass1"`
	Mass2        float64   `parquet:"mass2"`
	Spin1z       float64   `parquet:"spin1z"`
	Spin2z       float64   `parquet:"spin2z"`
	TemplateHash string    `parquet:"template_hash"`
	Mismatch     float64   `parquet:"mismatch"`
	Frequency    []float64 `parquet:"frequency"`
	Amplitude    []float64 `parquet:"amplitude"`
	Phase        []float64 `parquet:"phase"`
}

// Writer appends rows incrementally; a failed template later in the batch
// never invalidates rows already written.
type Writer struct {
	f  *os.File
	pw *parquet.GenericWriter[Row]
}

// NewWriter creates the output file and attaches the run metadata. The
// compression name follows the same set the rest of the stack uses: snappy
// (default), zstd or gzip.
func NewWriter(path string, meta models.BankMetadata, compression string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	pw := parquet.NewGenericWriter[Row](f,
		codecOption(compression),
		parquet.KeyValueMetadata(MetaInterpolation, meta.Interpolation),
		parquet.KeyValueMetadata(MetaPrecision, strconv.FormatFloat(meta.Precision, 'g', -1, 64)),
	)
	return &Writer{f: f, pw: pw}, nil
}

func codecOption(name string) parquet.WriterOption {
	switch strings.ToLower(name) {
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// WriteRow appends one compressed template.
func (w *Writer) WriteRow(r Row) error {
	if _, err := w.pw.Write([]Row{r}); err != nil {
		return fmt.Errorf("store: write row %d: %w", r.Pos, err)
	}
	return nil
}

// Close flushes the parquet footer and closes the file.
func (w *Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("store: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// ReadAll loads every row plus the run metadata back from a container
// written by Writer. Used by decompression consumers and the round-trip
// tests.
func ReadAll(path string) ([]Row, models.BankMetadata, error) {
	var meta models.BankMetadata

	f, err := os.Open(path)
	if err != nil {
		return nil, meta, fmt.Errorf("store: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, meta, fmt.Errorf("store: %w", err)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, meta, fmt.Errorf("store: %w", err)
	}
	interp, ok := pf.Lookup(MetaInterpolation)
	if !ok {
		return nil, meta, fmt.Errorf("store: %s missing %q metadata", path, MetaInterpolation)
	}
	precStr, ok := pf.Lookup(MetaPrecision)
	if !ok {
		return nil, meta, fmt.Errorf("store: %s missing %q metadata", path, MetaPrecision)
	}
	prec, err := strconv.ParseFloat(precStr, 64)
	if err != nil {
		return nil, meta, fmt.Errorf("store: bad %q metadata: %w", MetaPrecision, err)
	}
	meta = models.BankMetadata{Interpolation: interp, Precision: prec}

	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, meta, fmt.Errorf("store: %w", err)
	}
	return rows, meta, nil
}
