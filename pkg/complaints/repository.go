package complaints

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("complaint not found")
	ErrAlreadyClosed = errors.New("complaint already closed")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Complaint{})
}

func (r *Repository) Create(ctx context.Context, c *Complaint) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) Get(ctx context.Context, id string) (*Complaint, error) {
	var c Complaint
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, result.Error
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Complaint, error) {
	query := r.db.WithContext(ctx).Model(&Complaint{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.IsSpam != nil {
		query = query.Where("is_spam = ?", *f.IsSpam)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("created_at <= ?", *f.EndDate)
	}

	var records []Complaint
	err := query.Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&records).Error
	return records, err
}

// Close flips an open complaint to closed. The status guard in the WHERE
// clause makes the update single-row and race-free; a zero row count is
// then disambiguated into NotFound versus AlreadyClosed.
func (r *Repository) Close(ctx context.Context, id string) (*Complaint, error) {
	result := r.db.WithContext(ctx).Model(&Complaint{}).
		Where("id = ? AND status = ?", id, StatusOpen).
		Update("status", StatusClosed)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		existing, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing.Status == StatusClosed {
			return nil, ErrAlreadyClosed
		}
		return nil, ErrNotFound
	}

	return r.Get(ctx, id)
}
