package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haulstack/tms/internal/domain/fleet"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/persistence/datascope"
	"github.com/haulstack/tms/internal/infrastructure/persistence/models"
)

// GormDriverRepository implements fleet.DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GormDriverRepository
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// Save persists a new driver
func (r *GormDriverRepository) Save(ctx context.Context, driver *fleet.Driver) error {
	model := models.DriverModelFromDomain(driver)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing driver
func (r *GormDriverRepository) Update(ctx context.Context, driver *fleet.Driver) error {
	model := models.DriverModelFromDomain(driver)
	result := r.db.WithContext(ctx).Model(&models.DriverModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", driver.ID).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a driver by ID within the caller's scope
func (r *GormDriverRepository) FindByID(ctx context.Context, id uuid.UUID) (*fleet.Driver, error) {
	var model models.DriverModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists drivers within the caller's scope
func (r *GormDriverRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fleet.Driver, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DriverModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var driverModels []models.DriverModel
	if err := query.Scopes(paginate(filter)).Find(&driverModels).Error; err != nil {
		return nil, 0, err
	}

	drivers := make([]*fleet.Driver, len(driverModels))
	for i := range driverModels {
		drivers[i] = driverModels[i].ToDomain()
	}
	return drivers, total, nil
}

// CountByCompany counts drivers belonging to a company
func (r *GormDriverRepository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DriverModel{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

// Delete removes a driver within the caller's scope
func (r *GormDriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.DriverModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormTruckRepository implements fleet.TruckRepository using GORM.
type GormTruckRepository struct {
	db *gorm.DB
}

// NewGormTruckRepository creates a new GormTruckRepository
func NewGormTruckRepository(db *gorm.DB) *GormTruckRepository {
	return &GormTruckRepository{db: db}
}

// Save persists a new truck
func (r *GormTruckRepository) Save(ctx context.Context, truck *fleet.Truck) error {
	model := models.TruckModelFromDomain(truck)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing truck
func (r *GormTruckRepository) Update(ctx context.Context, truck *fleet.Truck) error {
	model := models.TruckModelFromDomain(truck)
	result := r.db.WithContext(ctx).Model(&models.TruckModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", truck.ID).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a truck by ID within the caller's scope
func (r *GormTruckRepository) FindByID(ctx context.Context, id uuid.UUID) (*fleet.Truck, error) {
	var model models.TruckModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a truck by its unit number within a company
func (r *GormTruckRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, truckNumber string) (*fleet.Truck, error) {
	var model models.TruckModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND truck_number = ?", companyID, truckNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists trucks within the caller's scope
func (r *GormTruckRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fleet.Truck, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TruckModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(truck_number) LIKE ? OR LOWER(make) LIKE ? OR LOWER(model) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var truckModels []models.TruckModel
	if err := query.Scopes(paginate(filter)).Find(&truckModels).Error; err != nil {
		return nil, 0, err
	}

	trucks := make([]*fleet.Truck, len(truckModels))
	for i := range truckModels {
		trucks[i] = truckModels[i].ToDomain()
	}
	return trucks, total, nil
}

// Delete removes a truck within the caller's scope
func (r *GormTruckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.TruckModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ fleet.DriverRepository = (*GormDriverRepository)(nil)
	_ fleet.TruckRepository  = (*GormTruckRepository)(nil)
)
