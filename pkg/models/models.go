package models

import (
	"time"

	"github.com/kacperjurak/gowavebank"
)

// Template is one row of the input bank: the physical parameters of a
// candidate waveform plus the bank's content hash for it. Read-only.
type Template struct {
	Mass1  float64
	Mass2  float64
	Spin1z float64
	Spin2z float64
	Hash   string
}

// BankMetadata records the run configuration attached once to the output
// collection. Any later decompression needs both values to reproduce the
// stored mismatch.
type BankMetadata struct {
	Interpolation string
	Precision     float64
}

// WorkItem is one template's compression task. Pos is the zero-based
// position within the processed range; Index is the absolute bank index.
type WorkItem struct {
	Pos      int
	Index    int
	Template Template
}

// WorkResult carries one template's compressed waveform, or the error that
// prevented it. An Err wrapping ErrNonConvergent still comes with a valid
// Compressed record holding the best mismatch achieved.
type WorkResult struct {
	Pos            int
	Index          int
	Template       Template
	Compressed     gowavebank.CompressedWaveform
	ProcessingTime time.Duration
	Err            error
}
