package molecule

import (
	"context"
	"time"
)

// LibraryEntry is a named compound stored for similarity search. Formula,
// weight and fingerprint are derived from SMILES when the entry is created.
type LibraryEntry struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	SMILES      string       `json:"smiles" yaml:"smiles"`
	Formula     string       `json:"formula" yaml:"-"`
	Weight      float64      `json:"molecular_weight" yaml:"-"`
	Fingerprint *Fingerprint `json:"fingerprint" yaml:"-"`
	CreatedAt   time.Time    `json:"created_at" yaml:"-"`
}

// Candidate converts the entry for NearestNeighbors.
func (e *LibraryEntry) Candidate() Candidate {
	return Candidate{ID: e.ID, Name: e.Name, SMILES: e.SMILES, Fingerprint: e.Fingerprint}
}

// NewLibraryEntry validates and parses smiles and fills the derived fields.
func NewLibraryEntry(id, name, smiles string, opts FingerprintCalcOptions) (*LibraryEntry, error) {
	m, err := ParseValid(smiles)
	if err != nil {
		return nil, err
	}
	fp, err := CalculateMorganFingerprint(m, opts.Radius, opts.Bits)
	if err != nil {
		return nil, err
	}
	return &LibraryEntry{
		ID:          id,
		Name:        name,
		SMILES:      smiles,
		Formula:     MolecularFormula(m),
		Weight:      MolecularWeight(m),
		Fingerprint: fp,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// LibraryRepository defines the persistence contract for the compound library.
type LibraryRepository interface {
	// Save inserts or replaces an entry by ID.
	Save(ctx context.Context, entry *LibraryEntry) error

	// SaveAll stores every entry or none of them.
	SaveAll(ctx context.Context, entries []*LibraryEntry) error

	// FindByID returns errors.CodeMoleculeNotFound when no entry has the ID.
	FindByID(ctx context.Context, id string) (*LibraryEntry, error)

	// List returns every entry in insertion order.
	List(ctx context.Context) ([]*LibraryEntry, error)

	// Delete returns errors.CodeMoleculeNotFound when no entry has the ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}

//Personal.AI order the ending
