package bank_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacperjurak/gowavebank/pkg/bank"
	"github.com/kacperjurak/gowavebank/pkg/models"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBank_ParsesRows(t *testing.T) {
	path := writeBank(t, `
# m1 m2 s1z s2z
30 30 0 0
1.4 1.39 0.1 -0.05 deadbeef
`)
	templates, err := bank.LoadBank(path)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	assert.Equal(t, 30.0, templates[0].Mass1)
	assert.NotEmpty(t, templates[0].Hash, "hash derived from numeric columns")
	assert.Equal(t, "deadbeef", templates[1].Hash, "explicit hash column wins")
	assert.Equal(t, -0.05, templates[1].Spin2z)
}

func TestLoadBank_HashIsStable(t *testing.T) {
	content := "30 30 0 0\n"
	a, err := bank.LoadBank(writeBank(t, content))
	require.NoError(t, err)
	b, err := bank.LoadBank(writeBank(t, content))
	require.NoError(t, err)
	assert.Equal(t, a[0].Hash, b[0].Hash)
}

func TestLoadBank_Malformed(t *testing.T) {
	_, err := bank.LoadBank(writeBank(t, "30 30\n"))
	assert.Error(t, err)

	_, err = bank.LoadBank(writeBank(t, "30 thirty 0 0\n"))
	assert.Error(t, err)

	_, err = bank.LoadBank(writeBank(t, "# only comments\n"))
	assert.Error(t, err)
}

func TestTaylorF2_GridPlacement(t *testing.T) {
	tmpl := models.Template{Mass1: 30, Mass2: 30}
	s, err := bank.TaylorF2Provider{}.Generate(tmpl, 0.25, 19.75, 2048)
	require.NoError(t, err)

	assert.Equal(t, 19.75, s.Frequency(0))
	assert.Equal(t, 2048.0, s.Frequency(s.Len()-1))
	assert.Equal(t, 0.25, s.DeltaF)
}

func TestTaylorF2_Deterministic(t *testing.T) {
	tmpl := models.Template{Mass1: 1.4, Mass2: 1.4, Spin1z: 0.2}
	a, err := bank.TaylorF2Provider{}.Generate(tmpl, 0.5, 20, 512)
	require.NoError(t, err)
	b, err := bank.TaylorF2Provider{}.Generate(tmpl, 0.5, 20, 512)
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestTaylorF2_SpinChangesPhase(t *testing.T) {
	plain, err := bank.TaylorF2Provider{}.Generate(models.Template{Mass1: 1.4, Mass2: 1.4}, 0.5, 20, 512)
	require.NoError(t, err)
	spinning, err := bank.TaylorF2Provider{}.Generate(models.Template{Mass1: 1.4, Mass2: 1.4, Spin1z: 0.5}, 0.5, 20, 512)
	require.NoError(t, err)
	assert.NotEqual(t, plain.Data, spinning.Data)
}

func TestTaylorF2_InvalidInputs(t *testing.T) {
	p := bank.TaylorF2Provider{}
	_, err := p.Generate(models.Template{Mass1: 0, Mass2: 30}, 0.25, 20, 2048)
	assert.Error(t, err)
	_, err = p.Generate(models.Template{Mass1: 30, Mass2: 30}, 0, 20, 2048)
	assert.Error(t, err)
	_, err = p.Generate(models.Template{Mass1: 30, Mass2: 30}, 0.25, 2048, 20)
	assert.Error(t, err)
}
