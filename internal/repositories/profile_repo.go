package repositories

import (
	"context"
	"errors"

	"kantin/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListPeers(ctx context.Context, excludeID uuid.UUID) ([]*models.Profile, error)
}

type profileRepo struct {
	db DBTX
}

func NewProfileRepo(db DBTX) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, profile.ID, profile.Email, profile.FullName, profile.Role, profile.PasswordHash)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, created_at
		FROM profiles
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, created_at
		FROM profiles
		WHERE email = $1
	`
	return r.scanOne(ctx, query, email)
}

// ListPeers returns student profiles other than excludeID, for picking a
// transfer recipient.
func (r *profileRepo) ListPeers(ctx context.Context, excludeID uuid.UUID) ([]*models.Profile, error) {
	query := `
		SELECT id, email, full_name, role, password_hash, created_at
		FROM profiles
		WHERE id <> $1 AND role = $2
		ORDER BY full_name, email
	`
	rows, err := r.db.Query(ctx, query, excludeID, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		if err := rows.Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.PasswordHash, &profile.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) scanOne(ctx context.Context, query string, arg any) (*models.Profile, error) {
	profile := &models.Profile{}
	err := r.db.QueryRow(ctx, query, arg).Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Role, &profile.PasswordHash, &profile.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}
