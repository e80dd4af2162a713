package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendaflow/crm-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DealFilters holds optional filters for listing deals
type DealFilters struct {
	Status     *domain.DealStatus
	PipelineID *uuid.UUID
	StageID    *uuid.UUID
	OwnerID    *uuid.UUID
	ContactID  *uuid.UUID
}

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	// Omit associations to avoid GORM trying to upsert related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Contact").
		Preload("Tags").
		First(&deal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) List(ctx context.Context, page, pageSize int, filters *DealFilters) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Deal{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Contact").
		Order("createdat DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&deals).Error

	return deals, total, err
}

func (r *DealRepository) applyFilters(query *gorm.DB, filters *DealFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PipelineID != nil {
		query = query.Where("pipelineid = ?", *filters.PipelineID)
	}
	if filters.StageID != nil {
		query = query.Where("stageid = ?", *filters.StageID)
	}
	if filters.OwnerID != nil {
		query = query.Where("ownerid = ?", *filters.OwnerID)
	}
	if filters.ContactID != nil {
		query = query.Where("contactid = ?", *filters.ContactID)
	}
	return query
}

// ListOpenByPipeline returns the pipeline's open deals with contacts
// preloaded, oldest first, for the board view.
func (r *DealRepository) ListOpenByPipeline(ctx context.Context, pipelineID uuid.UUID) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Contact").
		Where("pipelineid = ? AND status = ?", pipelineID, domain.DealStatusOpen).
		Order("createdat ASC").
		Find(&deals).Error
	return deals, err
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(deal).Error
}

// UpdateStage writes the deal's stage in a single update statement
func (r *DealRepository) UpdateStage(ctx context.Context, dealID, stageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("id = ?", dealID).
		Update("stageid", stageID).Error
}

// MarkAsWon closes the deal as won
func (r *DealRepository) MarkAsWon(ctx context.Context, dealID uuid.UUID, wonAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("id = ?", dealID).
		Updates(map[string]interface{}{
			"status": domain.DealStatusWon,
			"wonat":  wonAt,
		}).Error
}

// MarkAsLost closes the deal as lost with an optional reason
func (r *DealRepository) MarkAsLost(ctx context.Context, dealID uuid.UUID, lostAt time.Time, reason *string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("id = ?", dealID).
		Updates(map[string]interface{}{
			"status":     domain.DealStatusLost,
			"lostat":     lostAt,
			"lostreason": reason,
		}).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

// Recent returns the most recently created deals with contacts preloaded
func (r *DealRepository) Recent(ctx context.Context, limit int) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Contact").
		Order("createdat DESC").
		Limit(limit).
		Find(&deals).Error
	return deals, err
}

// CountCreatedBetween counts deals created in [from, to)
func (r *DealRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("createdat >= ? AND createdat < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountWonBetween counts deals won in [from, to), falling back to the
// creation time for rows without a won timestamp.
func (r *DealRepository) CountWonBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("status = ?", domain.DealStatusWon).
		Where("COALESCE(wonat, createdat) >= ? AND COALESCE(wonat, createdat) < ?", from, to).
		Count(&count).Error
	return count, err
}

// SumWonValueBetween sums the value of deals won in [from, to)
func (r *DealRepository) SumWonValueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Select("SUM(dealvalue)").
		Where("status = ?", domain.DealStatusWon).
		Where("COALESCE(wonat, createdat) >= ? AND COALESCE(wonat, createdat) < ?", from, to).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// ListWonBetween returns won deals in [from, to) for report grouping
func (r *DealRepository) ListWonBetween(ctx context.Context, from, to time.Time) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.DealStatusWon).
		Where("COALESCE(wonat, createdat) >= ? AND COALESCE(wonat, createdat) < ?", from, to).
		Order("createdat ASC").
		Find(&deals).Error
	return deals, err
}

// StatusDistribution counts deals per status
func (r *DealRepository) StatusDistribution(ctx context.Context) ([]domain.StatusDistributionDTO, error) {
	var rows []domain.StatusDistributionDTO
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// GoalScope narrows won-deal aggregates to a user or a team
type GoalScope struct {
	OwnerID *uuid.UUID
	TeamID  *uuid.UUID
}

func (r *DealRepository) wonInWindow(ctx context.Context, from, to time.Time, scope *GoalScope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("status = ?", domain.DealStatusWon).
		Where("COALESCE(wonat, createdat) >= ? AND COALESCE(wonat, createdat) < ?", from, to)
	if scope != nil {
		if scope.OwnerID != nil {
			query = query.Where("ownerid = ?", *scope.OwnerID)
		}
		if scope.TeamID != nil {
			query = query.Where("ownerid IN (?)",
				r.db.Model(&domain.User{}).Select("id").Where("teamid = ?", *scope.TeamID))
		}
	}
	return query
}

// SumWonValueScoped sums won deal values in the window for a goal scope
func (r *DealRepository) SumWonValueScoped(ctx context.Context, from, to time.Time, scope *GoalScope) (float64, error) {
	var sum *float64
	err := r.wonInWindow(ctx, from, to, scope).
		Select("SUM(dealvalue)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// CountWonScoped counts won deals in the window for a goal scope
func (r *DealRepository) CountWonScoped(ctx context.Context, from, to time.Time, scope *GoalScope) (int64, error) {
	var count int64
	err := r.wonInWindow(ctx, from, to, scope).Count(&count).Error
	return count, err
}

// AddTag attaches a tag to a deal
func (r *DealRepository) AddTag(ctx context.Context, deal *domain.Deal, tag *domain.Tag) error {
	return r.db.WithContext(ctx).Model(deal).Association("Tags").Append(tag)
}

// RemoveTag detaches a tag from a deal
func (r *DealRepository) RemoveTag(ctx context.Context, deal *domain.Deal, tag *domain.Tag) error {
	return r.db.WithContext(ctx).Model(deal).Association("Tags").Delete(tag)
}
