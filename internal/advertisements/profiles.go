package advertisements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
)

// providerTypes are the account variants with a public directory presence.
var providerTypes = []enums.UserType{
	enums.UserTypeEscort,
	enums.UserTypeAgency,
	enums.UserTypeClub,
}

// ProfilesRepository runs the public directory queries over the users table.
type ProfilesRepository interface {
	Search(ctx context.Context, params SearchParams) ([]models.User, int64, error)
	FindPublic(ctx context.Context, id uuid.UUID) (*models.User, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

type profilesRepositoryImpl struct {
	db *gorm.DB
}

// NewProfilesRepository returns a directory repository bound to the provided database.
func NewProfilesRepository(db *gorm.DB) ProfilesRepository {
	return &profilesRepositoryImpl{db: db}
}

func (r *profilesRepositoryImpl) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ? AND email_verified = ?", true, true).
		Where("user_type IN ?", providerTypes)
}

func (r *profilesRepositoryImpl) Search(ctx context.Context, params SearchParams) ([]models.User, int64, error) {
	query := r.baseQuery(ctx)
	if params.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", params.City)
	}
	if params.UserType != "" {
		query = query.Where("user_type = ?", params.UserType)
	}
	if params.MinAge > 0 {
		query = query.Where("age >= ?", params.MinAge)
	}
	if params.MaxAge > 0 {
		query = query.Where("age <= ?", params.MaxAge)
	}
	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		query = query.Where(
			"name LIKE ? OR username LIKE ? OR agency_name LIKE ? OR club_name LIKE ? OR city LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	var rows []models.User
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *profilesRepositoryImpl) FindPublic(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.baseQuery(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *profilesRepositoryImpl) CountByType(ctx context.Context) (map[string]int64, error) {
	type row struct {
		UserType string
		Count    int64
	}
	var rows []row
	err := r.baseQuery(ctx).
		Select("user_type, COUNT(*) AS count").
		Group("user_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.UserType] = r.Count
	}
	return counts, nil
}
