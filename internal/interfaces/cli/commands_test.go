package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/domain/reaction"
	"github.com/turtacn/molgraph/internal/infrastructure/database/memory"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

const testLibrary = `compounds:
  - id: ethanol
    name: Ethanol
    smiles: CCO
  - id: propanol
    name: Propanol
    smiles: CCCO
  - id: benzene
    name: Benzene
    smiles: c1ccccc1
`

func writeTestLibrary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	out, _, err := runCLI(t, "validate", "CCO", "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, "CCO\tvalid\nc1ccccc1\tvalid\n", out)

	out, _, err = runCLI(t, "validate", "CCO", "C1CC")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "C1CC\tinvalid")

	out, _, err = runCLI(t, "-o", "json", "validate", "C(C")
	require.Error(t, err)
	var dto moltypes.ValidationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.False(t, dto.Valid)
	assert.NotEmpty(t, dto.Reason)
}

func TestParseCommand(t *testing.T) {
	out, _, err := runCLI(t, "-o", "json", "parse", "CCO")
	require.NoError(t, err)

	var dto moltypes.MoleculeDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Len(t, dto.Atoms, 3)
	assert.Len(t, dto.Bonds, 2)

	out, _, err = runCLI(t, "parse", "CCO")
	require.NoError(t, err)
	assert.Contains(t, out, "CCO: 3 atoms, 2 bonds, 0 ring closures")
	assert.Contains(t, out, "bond 1-2 single")
}

func TestParseCommand_Invalid(t *testing.T) {
	_, _, err := runCLI(t, "parse", "C(C")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMoleculeInvalidSMILES, errors.GetCode(err))
	assert.Equal(t, 1, ExitCode(err))
}

func TestDescribeCommand(t *testing.T) {
	out, _, err := runCLI(t, "-o", "json", "describe", "CCO")
	require.NoError(t, err)

	var dto moltypes.AnalysisDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, "C2H6O", dto.Descriptors.Formula)
	assert.InDelta(t, 46.069, dto.Descriptors.MolecularWeight, 1e-9)

	out, _, err = runCLI(t, "describe", "c1ccccc1")
	require.NoError(t, err)
	assert.Contains(t, out, "C6H6")
	assert.Contains(t, out, "Aromatic atoms:")
}

func TestDescribeCommand_Batch(t *testing.T) {
	out, _, err := runCLI(t, "describe", "CCO", "c1ccccc1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 analyzed, 0 failed")

	out, _, err = runCLI(t, "-o", "json", "describe", "CCO", "C1CC")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	var res moltypes.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Items, 2)
	assert.Nil(t, res.Items[0].Error)
	require.NotNil(t, res.Items[1].Error)
	assert.Equal(t, 1, res.Summary.Failed)
}

func TestFormulaCommand(t *testing.T) {
	out, _, err := runCLI(t, "formula", "CCO")
	require.NoError(t, err)
	assert.Equal(t, "C2H6O\t46.069\n", out)
}

func TestFingerprintCommand(t *testing.T) {
	out, _, err := runCLI(t, "-o", "json", "fingerprint", "--bits", "64", "--radius", "1", "CCO")
	require.NoError(t, err)

	var dto moltypes.FingerprintDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, 64, dto.Length)
	assert.Equal(t, 1, dto.Radius)
	assert.Len(t, dto.Bits, 64)
	assert.Greater(t, dto.OnBits, 0)

	_, _, err = runCLI(t, "fingerprint", "--bits", "0", "CCO")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFingerprintGenerationFailed, errors.GetCode(err))
}

func TestDrugLikeCommand(t *testing.T) {
	out, _, err := runCLI(t, "druglike", "CCO")
	require.NoError(t, err)
	assert.Contains(t, out, "Lipinski: pass (0 violations)")
	assert.Contains(t, out, "Veber:    pass")
}

func TestContainsCommand(t *testing.T) {
	out, _, err := runCLI(t, "contains", "CC(=O)Oc1ccccc1C(=O)O", "C(=O)O")
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)

	out, _, err = runCLI(t, "contains", "CCO", "N")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, "no\n", out)
}

func TestSimilarityCommand(t *testing.T) {
	out, _, err := runCLI(t, "similarity", "CCO", "CCO")
	require.NoError(t, err)
	assert.Equal(t, "tanimoto 1.0000 (identical)\n", out)

	out, _, err = runCLI(t, "-o", "json", "similarity", "--metric", "cosine", "CCO", "c1ccccc1")
	require.NoError(t, err)
	var dto moltypes.SimilarityDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, "cosine", dto.Metric)
	assert.GreaterOrEqual(t, dto.Score, 0.0)
	assert.Less(t, dto.Score, 1.0)

	_, _, err = runCLI(t, "similarity", "--metric", "dice", "CCO", "CCO")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))
}

func TestKNNCommand(t *testing.T) {
	path := writeTestLibrary(t, testLibrary)
	out, _, err := runCLI(t, "-o", "json", "knn", "--library", path, "--k", "2", "CCO")
	require.NoError(t, err)

	var hits []moltypes.NeighborDTO
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 2)
	assert.Equal(t, "ethanol", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, 1, hits[0].Rank)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)

	out, _, err = runCLI(t, "knn", "--library", path, "--min-similarity", "0.99", "CCO")
	require.NoError(t, err)
	assert.Contains(t, out, "Ethanol")
	assert.NotContains(t, out, "Benzene")
}

func TestKNNCommand_EmptyLibrary(t *testing.T) {
	out, _, err := runCLI(t, "knn", "CCO")
	require.NoError(t, err)
	assert.Equal(t, "no matches\n", out)
}

func TestBalanceCommand(t *testing.T) {
	out, _, err := runCLI(t, "balance", "CCO>>CCO")
	require.NoError(t, err)
	assert.Equal(t, "balanced\n", out)

	out, _, err = runCLI(t, "balance", "CCO>>CC=O")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "unbalanced")
	assert.Contains(t, out, "H: reactants 6, products 4 (delta -2)")

	out, _, err = runCLI(t, "-o", "json", "balance", "CCO>>CC=O")
	require.Error(t, err)
	var report reaction.BalanceReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Balanced)

	_, _, err = runCLI(t, "balance", "CCO")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReactionMalformed, errors.GetCode(err))
}

func TestLibraryCommands(t *testing.T) {
	path := writeTestLibrary(t, testLibrary)

	out, _, err := runCLI(t, "-o", "json", "library", "--library", path, "list")
	require.NoError(t, err)
	var compounds []moltypes.CompoundDTO
	require.NoError(t, json.Unmarshal([]byte(out), &compounds))
	require.Len(t, compounds, 3)
	assert.Equal(t, "ethanol", string(compounds[0].ID))
	assert.Equal(t, "C2H6O", compounds[0].Formula)

	_, _, err = runCLI(t, "library", "--library", path, "add", "Acetic acid", "CC(=O)O")
	require.NoError(t, err)
	entries, err := memory.LoadLibraryFile(path, molecule.DefaultFingerprintCalcOptions())
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "Acetic acid", entries[3].Name)

	out, _, err = runCLI(t, "library", "--library", path, "remove", "benzene")
	require.NoError(t, err)
	assert.Contains(t, out, "removed benzene")
	entries, err = memory.LoadLibraryFile(path, molecule.DefaultFingerprintCalcOptions())
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	out, _, err = runCLI(t, "library", "--library", path, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "smiles: CCO")
	assert.NotContains(t, out, "c1ccccc1")
}

func TestLibraryImport(t *testing.T) {
	target := writeTestLibrary(t, "compounds: []\n")
	source := writeTestLibrary(t, testLibrary)

	out, _, err := runCLI(t, "library", "--library", target, "import", source)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 compounds")

	entries, err := memory.LoadLibraryFile(target, molecule.DefaultFingerprintCalcOptions())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestLibraryImport_RejectsInvalidCompound(t *testing.T) {
	target := writeTestLibrary(t, "compounds: []\n")
	source := writeTestLibrary(t, "compounds:\n  - id: bad\n    smiles: C1CC\n")

	_, _, err := runCLI(t, "library", "--library", target, "import", source)
	require.Error(t, err)

	entries, err := memory.LoadLibraryFile(target, molecule.DefaultFingerprintCalcOptions())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLibraryMigrate_RequiresDatabase(t *testing.T) {
	_, _, err := runCLI(t, "library", "migrate")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))
}

//Personal.AI order the ending
