package memory

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// LibraryFile is the on-disk YAML layout:
//
//	fingerprint:
//	  radius: 2
//	  bits: 128
//	compounds:
//	  - id: ethanol
//	    name: Ethanol
//	    smiles: CCO
//
// The fingerprint block is optional; compounds without an id get a UUID.
type LibraryFile struct {
	Fingerprint *molecule.FingerprintCalcOptions `yaml:"fingerprint,omitempty"`
	Compounds   []LibraryRecord                  `yaml:"compounds"`
}

// LibraryRecord is one compound in a LibraryFile.
type LibraryRecord struct {
	ID     string `yaml:"id,omitempty"`
	Name   string `yaml:"name,omitempty"`
	SMILES string `yaml:"smiles"`
}

// DecodeLibrary reads a LibraryFile and builds entries with opts. A
// fingerprint block in the file must match opts, so that library and query
// fingerprints stay comparable. Any invalid compound fails the whole load.
func DecodeLibrary(r io.Reader, opts molecule.FingerprintCalcOptions) ([]*molecule.LibraryEntry, error) {
	var f LibraryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return []*molecule.LibraryEntry{}, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode library file")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if fp := f.Fingerprint; fp != nil {
		if err := fp.Validate(); err != nil {
			return nil, err
		}
		if *fp != opts {
			return nil, errors.New(errors.CodeFingerprintLengthMismatch,
				"library fingerprint settings differ from the configured ones").
				WithDetail(fmt.Sprintf("file radius=%d bits=%d, configured radius=%d bits=%d",
					fp.Radius, fp.Bits, opts.Radius, opts.Bits))
		}
	}

	entries := make([]*molecule.LibraryEntry, 0, len(f.Compounds))
	seen := make(map[string]int, len(f.Compounds))
	for i, rec := range f.Compounds {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		if prev, dup := seen[id]; dup {
			return nil, errors.InvalidParam("duplicate compound id").
				WithDetail(fmt.Sprintf("id=%s at %d and %d", id, prev, i))
		}
		seen[id] = i
		e, err := molecule.NewLibraryEntry(id, rec.Name, rec.SMILES, opts)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid library compound").
				WithDetail(fmt.Sprintf("index=%d smiles=%s", i, rec.SMILES))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadLibraryFile opens path and decodes it with DecodeLibrary.
func LoadLibraryFile(path string, opts molecule.FingerprintCalcOptions) ([]*molecule.LibraryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "failed to open library file").WithDetail(path)
	}
	defer f.Close()
	return DecodeLibrary(f, opts)
}

// WriteLibrary encodes entries as a LibraryFile.
func WriteLibrary(w io.Writer, entries []*molecule.LibraryEntry, opts molecule.FingerprintCalcOptions) error {
	f := LibraryFile{Fingerprint: &opts, Compounds: make([]LibraryRecord, 0, len(entries))}
	for _, e := range entries {
		f.Compounds = append(f.Compounds, LibraryRecord{ID: e.ID, Name: e.Name, SMILES: e.SMILES})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode library file")
	}
	return enc.Close()
}

//Personal.AI order the ending
