package candidate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

const selectCandidate = `
	SELECT d.detail_id, d.applicant_id, p.first_name, p.last_name, p.date_of_birth,
	       p.address, p.phone_number, d.application_role, d.cv_path, d.cv_text
	FROM application_detail d
	JOIN applicant_profile p ON p.applicant_id = d.applicant_id`

const upsertProfile = `
	INSERT INTO applicant_profile (applicant_id, first_name, last_name, date_of_birth, address, phone_number)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(applicant_id) DO UPDATE SET
		first_name = excluded.first_name,
		last_name = excluded.last_name,
		date_of_birth = excluded.date_of_birth,
		address = excluded.address,
		phone_number = excluded.phone_number`

const upsertDetail = `
	INSERT INTO application_detail (detail_id, applicant_id, application_role, cv_path, cv_text)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(detail_id) DO UPDATE SET
		applicant_id = excluded.applicant_id,
		application_role = excluded.application_role,
		cv_path = excluded.cv_path,
		cv_text = excluded.cv_text`

const deleteOrphanProfiles = `
	DELETE FROM applicant_profile
	WHERE NOT EXISTS (
		SELECT 1 FROM application_detail d WHERE d.applicant_id = applicant_profile.applicant_id
	)`

// SQLRepo stores candidates in the applicant_profile and application_detail tables.
// It implements usecase/candidate.Repository and usecase/search.CorpusReader.
type SQLRepo struct {
	db *sql.DB
}

// NewSQL creates a relational candidate repository over a migrated database.
func NewSQL(sqlDB *sql.DB) *SQLRepo {
	return &SQLRepo{db: sqlDB}
}

// NextID returns one past the highest stored id.
func (r *SQLRepo) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(detail_id), 0) + 1 FROM application_detail").Scan(&id)
	if err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("next id: %w", err)}
	}
	return id, nil
}

// Create stores a new candidate. Returns domain.ErrAlreadyExists if the id is taken.
func (r *SQLRepo) Create(ctx context.Context, c *domcand.Candidate) error {
	_, err := r.write(ctx, c, false)
	return err
}

// Upsert creates or replaces a candidate. Returns true if created.
func (r *SQLRepo) Upsert(ctx context.Context, c *domcand.Candidate) (bool, error) {
	return r.write(ctx, c, true)
}

func (r *SQLRepo) write(ctx context.Context, c *domcand.Candidate, replace bool) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &db.Error{Op: db.OpInsert, Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM application_detail WHERE detail_id = ?)", c.ID()).Scan(&exists)
	if err != nil {
		return false, &db.Error{Op: db.OpSelect, Err: err}
	}
	if exists && !replace {
		return false, fmt.Errorf("candidate %d: %w", c.ID(), domain.ErrAlreadyExists)
	}

	if err = insertCandidate(ctx, tx, c); err != nil {
		return false, err
	}
	// A moved application can leave its previous applicant without details.
	if _, err = tx.ExecContext(ctx, deleteOrphanProfiles); err != nil {
		return false, &db.Error{Op: db.OpDelete, Err: err}
	}

	if err = tx.Commit(); err != nil {
		return false, &db.Error{Op: db.OpInsert, Err: fmt.Errorf("commit: %w", err)}
	}
	return !exists, nil
}

// BatchUpsert creates or replaces candidates in a single transaction.
func (r *SQLRepo) BatchUpsert(ctx context.Context, cands []domcand.Candidate) (err error) {
	if len(cands) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range cands {
		if err = insertCandidate(ctx, tx, &cands[i]); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, deleteOrphanProfiles); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if err = tx.Commit(); err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

func insertCandidate(ctx context.Context, tx *sql.Tx, c *domcand.Candidate) error {
	p := c.Profile()
	if _, err := tx.ExecContext(ctx, upsertProfile,
		c.ApplicantID(), p.FirstName, p.LastName, p.DateOfBirth, p.Address, p.PhoneNumber,
	); err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("applicant_profile: %w", err)}
	}
	if _, err := tx.ExecContext(ctx, upsertDetail,
		c.ID(), c.ApplicantID(), c.Role(), c.CVPath(), c.CVText(),
	); err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("application_detail: %w", err)}
	}
	return nil
}

// Get returns a candidate by id.
func (r *SQLRepo) Get(ctx context.Context, id int64) (domcand.Candidate, error) {
	row := r.db.QueryRowContext(ctx, selectCandidate+" WHERE d.detail_id = ?", id)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domcand.Candidate{}, domain.ErrCandidateNotFound
		}
		return domcand.Candidate{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return c, nil
}

// List returns up to limit candidates ordered by id, skipping offset.
func (r *SQLRepo) List(ctx context.Context, offset, limit int) ([]domcand.Candidate, error) {
	if limit <= 0 {
		return []domcand.Candidate{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		selectCandidate+" ORDER BY d.detail_id LIMIT ? OFFSET ?", limit, max(offset, 0))
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	out := []domcand.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// Count returns the number of stored candidates.
func (r *SQLRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM application_detail").Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: err}
	}
	return n, nil
}

// Delete removes a candidate and its applicant profile once no application references it.
func (r *SQLRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM application_detail WHERE detail_id = ?", id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if n == 0 {
		err = domain.ErrCandidateNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx, deleteOrphanProfiles); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if err = tx.Commit(); err != nil {
		return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Documents returns a snapshot of every candidate's text ordered by id.
func (r *SQLRepo) Documents(ctx context.Context) ([]domcand.Document, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT detail_id, cv_text FROM application_detail ORDER BY detail_id")
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var docs []domcand.Document
	for rows.Next() {
		var d domcand.Document
		if err := rows.Scan(&d.ID, &d.Text); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (domcand.Candidate, error) {
	var (
		id, applicantID      int64
		p                    domcand.Profile
		role, cvPath, cvText string
	)
	err := row.Scan(&id, &applicantID, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.Address, &p.PhoneNumber, &role, &cvPath, &cvText)
	if err != nil {
		return domcand.Candidate{}, err
	}
	return domcand.Reconstruct(id, applicantID, p, role, cvPath, cvText), nil
}
