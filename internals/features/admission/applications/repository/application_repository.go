package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"super40_backend/internals/features/admission/applications/model"
)

// ListQuery carries the dashboard filters. Search matches student name,
// application number or email, case-insensitive substring.
type ListQuery struct {
	Status string
	Search string
	Offset int
	Limit  int
}

// ApplicationRepository abstracts storage so the service layer can be tested
// without a database.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.ApplicationModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error)
	// FindByNumberAndDOB requires exact equality on both fields and returns
	// matches ordered oldest submission first.
	FindByNumberAndDOB(ctx context.Context, number, dob string) ([]model.ApplicationModel, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, q ListQuery) ([]model.ApplicationModel, int64, error)
	RecordEvent(ctx context.Context, ev *model.ApplicationEventModel) error
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// failure (SQLSTATE 23505), the signal to regenerate a colliding number.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type gormApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &gormApplicationRepository{db: db}
}

func (r *gormApplicationRepository) Create(ctx context.Context, app *model.ApplicationModel) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *gormApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	var app model.ApplicationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *gormApplicationRepository) FindByNumberAndDOB(ctx context.Context, number, dob string) ([]model.ApplicationModel, error) {
	var apps []model.ApplicationModel
	err := r.db.WithContext(ctx).
		Where("application_number = ? AND dob = ?", number, dob).
		Order("submitted_at ASC, application_id ASC").
		Find(&apps).Error
	return apps, err
}

func (r *gormApplicationRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.ApplicationModel{}).
		Where("application_id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormApplicationRepository) List(ctx context.Context, q ListQuery) ([]model.ApplicationModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.ApplicationModel{})

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where(
			"student_name ILIKE ? OR application_number ILIKE ? OR email ILIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.ApplicationModel
	err := tx.
		Order("submitted_at DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&apps).Error
	return apps, total, err
}

func (r *gormApplicationRepository) RecordEvent(ctx context.Context, ev *model.ApplicationEventModel) error {
	return r.db.WithContext(ctx).Create(ev).Error
}
