package pgsql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	portsrepo "github.com/ucontacts/contacts_app/internal/core/ports/repositories"
	"github.com/ucontacts/contacts_app/internal/models"
)

type PgxContactRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func newPgxContactRepository(db *pgxpool.Pool) portsrepo.ContactRepository {
	return &PgxContactRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var _ portsrepo.ContactRepository = (*PgxContactRepository)(nil)

func toModelContact(d domain.Contact) models.Contact {
	return models.Contact{
		ContactID:   d.ContactID,
		UserID:      d.UserID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Phone:       models.PtrNullString(d.Phone),
		Birthday:    models.PtrNullTime(d.Birthday),
		Description: models.PtrNullString(d.Description),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

func toDomainContact(m models.Contact) domain.Contact {
	return domain.Contact{
		ContactID:   m.ContactID,
		UserID:      m.UserID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phone:       models.NullStringPtr(m.Phone),
		Birthday:    models.NullTimePtr(m.Birthday),
		Description: models.NullStringPtr(m.Description),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

var contactColumns = []string{
	"contact_id", "user_id", "first_name", "last_name", "email",
	"phone", "birthday", "description", "created_at", "updated_at",
}

func scanContact(row pgx.Row) (models.Contact, error) {
	var m models.Contact
	err := row.Scan(
		&m.ContactID,
		&m.UserID,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.Phone,
		&m.Birthday,
		&m.Description,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxContactRepository) collectContacts(ctx context.Context, query string, args []interface{}) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, toDomainContact(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading contact rows: %w", err)
	}
	return contacts, nil
}

func (r *PgxContactRepository) SaveContact(ctx context.Context, contact *domain.Contact) error {
	m := toModelContact(*contact)
	query := `
        INSERT INTO contacts (user_id, first_name, last_name, email, phone, birthday, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING contact_id;
    `
	err := r.db.QueryRow(ctx, query,
		m.UserID,
		m.FirstName,
		m.LastName,
		m.Email,
		m.Phone,
		m.Birthday,
		m.Description,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&contact.ContactID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contact email already exists for this user: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save contact: %w", err)
	}
	return nil
}

func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID int64, userID string) (*domain.Contact, error) {
	query, args, err := r.sb.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"contact_id": contactID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	m, err := scanContact(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact %d: %w", contactID, err)
	}
	d := toDomainContact(m)
	return &d, nil
}

func (r *PgxContactRepository) FindContactByEmail(ctx context.Context, email string, userID string) (*domain.Contact, error) {
	query, args, err := r.sb.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"email": email, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	m, err := scanContact(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}
	d := toDomainContact(m)
	return &d, nil
}

func (r *PgxContactRepository) FindContactByEmailExcluding(ctx context.Context, email string, contactID int64, userID string) (*domain.Contact, error) {
	query, args, err := r.sb.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"email": email, "user_id": userID}).
		Where(sq.NotEq{"contact_id": contactID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contact query: %w", err)
	}

	m, err := scanContact(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}
	d := toDomainContact(m)
	return &d, nil
}

func (r *PgxContactRepository) FindContacts(ctx context.Context, userID string, filter string, skip int, limit int) ([]domain.Contact, error) {
	conds, err := parseContactFilter(filter)
	if err != nil {
		return nil, err
	}

	builder := r.sb.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"user_id": userID})
	for _, cond := range conds {
		builder = builder.Where(cond)
	}
	query, args, err := builder.
		OrderBy("contact_id ASC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contacts query: %w", err)
	}

	return r.collectContacts(ctx, query, args)
}

// FindContactsWithUpcomingBirthday matches contacts whose birthday falls
// inside the window, comparing month and day only. A window that wraps a
// year boundary turns into an OR of the two calendar stretches.
func (r *PgxContactRepository) FindContactsWithUpcomingBirthday(ctx context.Context, userID string, window domain.BirthdayWindow, skip int, limit int) ([]domain.Contact, error) {
	const birthdayMMDD = "to_char(birthday, 'MM-DD')"

	var windowCond sq.Sqlizer
	if window.Wraps() {
		windowCond = sq.Or{
			sq.GtOrEq{birthdayMMDD: window.StartMMDD()},
			sq.LtOrEq{birthdayMMDD: window.EndMMDD()},
		}
	} else {
		windowCond = sq.And{
			sq.GtOrEq{birthdayMMDD: window.StartMMDD()},
			sq.LtOrEq{birthdayMMDD: window.EndMMDD()},
		}
	}

	query, args, err := r.sb.Select(contactColumns...).
		From("contacts").
		Where(sq.Eq{"user_id": userID}).
		Where("birthday IS NOT NULL").
		Where(windowCond).
		OrderBy("contact_id ASC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build birthday query: %w", err)
	}

	return r.collectContacts(ctx, query, args)
}

func (r *PgxContactRepository) UpdateContact(ctx context.Context, contact domain.Contact) error {
	m := toModelContact(contact)
	query := `
        UPDATE contacts
        SET first_name = $1, last_name = $2, email = $3, phone = $4, birthday = $5, description = $6, updated_at = now()
        WHERE contact_id = $7 AND user_id = $8;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.FirstName,
		m.LastName,
		m.Email,
		m.Phone,
		m.Birthday,
		m.Description,
		m.ContactID,
		m.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contact email already exists for this user: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update contact %d: %w", contact.ContactID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxContactRepository) DeleteContact(ctx context.Context, contactID int64, userID string) error {
	query := `DELETE FROM contacts WHERE contact_id = $1 AND user_id = $2;`
	cmdTag, err := r.db.Exec(ctx, query, contactID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", contactID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
