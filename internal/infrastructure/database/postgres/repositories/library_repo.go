package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

const libraryColumns = `id, name, smiles, formula, molecular_weight, fp_type, fp_radius, fp_length, fp_bits, created_at`

const upsertLibrarySQL = `
INSERT INTO compound_library (` + libraryColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    smiles = EXCLUDED.smiles,
    formula = EXCLUDED.formula,
    molecular_weight = EXCLUDED.molecular_weight,
    fp_type = EXCLUDED.fp_type,
    fp_radius = EXCLUDED.fp_radius,
    fp_length = EXCLUDED.fp_length,
    fp_bits = EXCLUDED.fp_bits`

type postgresLibraryRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewPostgresLibraryRepo returns a LibraryRepository over the compound_library
// table. List order follows first insertion; replacing an entry keeps its
// position.
func NewPostgresLibraryRepo(conn *postgres.Connection, log logging.Logger) molecule.LibraryRepository {
	return &postgresLibraryRepo{conn: conn, log: log.Named("library_repo")}
}

func (r *postgresLibraryRepo) Save(ctx context.Context, entry *molecule.LibraryEntry) error {
	return r.save(ctx, r.conn.DB(), entry)
}

func (r *postgresLibraryRepo) save(ctx context.Context, q queryExecutor, entry *molecule.LibraryEntry) error {
	if entry == nil || entry.ID == "" {
		return errors.InvalidParam("library entry must have an id")
	}
	if entry.Fingerprint == nil {
		return errors.InvalidParam("library entry must have a fingerprint").WithDetail("id=" + entry.ID)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	fp := entry.Fingerprint
	_, err := q.ExecContext(ctx, upsertLibrarySQL,
		entry.ID, entry.Name, entry.SMILES, entry.Formula, entry.Weight,
		string(fp.Type()), fp.Radius(), fp.Length(), fp.ToBytes(), entry.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save library entry").WithDetail("id=" + entry.ID)
	}
	return nil
}

func (r *postgresLibraryRepo) SaveAll(ctx context.Context, entries []*molecule.LibraryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	for _, e := range entries {
		if err := r.save(ctx, tx, e); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Warn("rollback failed", logging.Err(rbErr))
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit library entries")
	}
	r.log.Debug("library entries saved", logging.Int("count", len(entries)))
	return nil
}

func (r *postgresLibraryRepo) FindByID(ctx context.Context, id string) (*molecule.LibraryEntry, error) {
	row := r.conn.DB().QueryRowContext(ctx, `SELECT `+libraryColumns+` FROM compound_library WHERE id = $1`, id)
	entry, err := scanLibraryEntry(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.New(errors.CodeMoleculeNotFound, "library entry not found").WithDetail("id=" + id)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *postgresLibraryRepo) List(ctx context.Context) ([]*molecule.LibraryEntry, error) {
	rows, err := r.conn.DB().QueryContext(ctx, `SELECT `+libraryColumns+` FROM compound_library ORDER BY seq ASC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list library entries")
	}
	defer rows.Close()

	entries := make([]*molecule.LibraryEntry, 0)
	for rows.Next() {
		e, err := scanLibraryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate library entries")
	}
	return entries, nil
}

func (r *postgresLibraryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.DB().ExecContext(ctx, `DELETE FROM compound_library WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete library entry").WithDetail("id=" + id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read affected rows")
	}
	if n == 0 {
		return errors.New(errors.CodeMoleculeNotFound, "library entry not found").WithDetail("id=" + id)
	}
	return nil
}

func (r *postgresLibraryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM compound_library`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count library entries")
	}
	return n, nil
}

func scanLibraryEntry(s scanner) (*molecule.LibraryEntry, error) {
	var (
		e      molecule.LibraryEntry
		fpType string
		radius int
		length int
		bits   []byte
	)
	err := s.Scan(&e.ID, &e.Name, &e.SMILES, &e.Formula, &e.Weight, &fpType, &radius, &length, &bits, &e.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan library entry")
	}
	fp, err := molecule.RestoreFingerprint(molecule.FingerprintType(fpType), radius, bits, length)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "stored fingerprint is corrupt").WithDetail("id=" + e.ID)
	}
	e.Fingerprint = fp
	return &e, nil
}

//Personal.AI order the ending
