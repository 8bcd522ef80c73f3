// Package memory keeps the compound library in process, optionally loaded
// from a YAML file.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// LibraryRepo is a molecule.LibraryRepository held in memory. It is safe for
// concurrent use. Entries are copied on the way in and out.
type LibraryRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*molecule.LibraryEntry
}

var _ molecule.LibraryRepository = (*LibraryRepo)(nil)

// NewLibraryRepo returns an empty repository.
func NewLibraryRepo() *LibraryRepo {
	return &LibraryRepo{byID: make(map[string]*molecule.LibraryEntry)}
}

func checkEntry(e *molecule.LibraryEntry) error {
	if e == nil || e.ID == "" {
		return errors.InvalidParam("library entry must have an id")
	}
	if e.Fingerprint == nil {
		return errors.InvalidParam("library entry must have a fingerprint").WithDetail("id=" + e.ID)
	}
	return nil
}

func (r *LibraryRepo) put(e *molecule.LibraryEntry) {
	cp := *e
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	if _, ok := r.byID[cp.ID]; !ok {
		r.order = append(r.order, cp.ID)
	}
	r.byID[cp.ID] = &cp
}

func (r *LibraryRepo) Save(_ context.Context, entry *molecule.LibraryEntry) error {
	if err := checkEntry(entry); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(entry)
	return nil
}

func (r *LibraryRepo) SaveAll(_ context.Context, entries []*molecule.LibraryEntry) error {
	for _, e := range entries {
		if err := checkEntry(e); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.put(e)
	}
	return nil
}

// Replace swaps the whole library for entries in one step.
func (r *LibraryRepo) Replace(entries []*molecule.LibraryEntry) error {
	for _, e := range entries {
		if err := checkEntry(e); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = r.order[:0]
	r.byID = make(map[string]*molecule.LibraryEntry, len(entries))
	for _, e := range entries {
		r.put(e)
	}
	return nil
}

func (r *LibraryRepo) FindByID(_ context.Context, id string) (*molecule.LibraryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, errors.New(errors.CodeMoleculeNotFound, "library entry not found").WithDetail("id=" + id)
	}
	cp := *e
	return &cp, nil
}

func (r *LibraryRepo) List(_ context.Context) ([]*molecule.LibraryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*molecule.LibraryEntry, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *LibraryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errors.New(errors.CodeMoleculeNotFound, "library entry not found").WithDetail("id=" + id)
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *LibraryRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}

//Personal.AI order the ending
