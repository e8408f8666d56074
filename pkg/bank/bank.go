// Package bank supplies frequency-domain template waveforms: a text bank
// reader for the template parameters and a provider that generates the dense
// waveform for one template at a requested resolution.
package bank

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kacperjurak/gowavebank"
	"github.com/kacperjurak/gowavebank/internal/utils"
	"github.com/kacperjurak/gowavebank/pkg/models"
)

// Provider generates the dense frequency-domain waveform for one template
// on a uniform grid covering [fLow, fHigh] with spacing deltaF. Generation
// is CPU-bound and must be a pure function of its inputs.
type Provider interface {
	Generate(tmpl models.Template, deltaF, fLow, fHigh float64) (*gowavebank.FrequencySeries, error)
}

// LoadBank reads a whitespace-separated text bank with one template per row:
// mass1 mass2 spin1z spin2z [hash]. Rows without a hash column get a content
// hash derived from the numeric fields. Blank lines and #-comments are
// skipped.
func LoadBank(path string) ([]models.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	defer f.Close()

	var templates []models.Template
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, fmt.Errorf("bank: %s:%d: expected at least 4 columns, got %d", path, line, len(fields))
		}
		var vals [4]float64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("bank: %s:%d: column %d: %w", path, line, i+1, err)
			}
			vals[i] = v
		}
		t := models.Template{
			Mass1:  vals[0],
			Mass2:  vals[1],
			Spin1z: vals[2],
			Spin2z: vals[3],
		}
		if len(fields) > 4 {
			t.Hash = fields[4]
		} else {
			t.Hash = utils.TemplateHash(vals[0], vals[1], vals[2], vals[3])
		}
		templates = append(templates, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: bank %s holds no templates", gowavebank.ErrInvalidParameter, path)
	}
	return templates, nil
}
