package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/persistence/datascope"
	"github.com/haulstack/tms/internal/infrastructure/persistence/models"
)

// GormLoadRepository implements freight.LoadRepository using GORM.
// Load reads honor the caller's data scope: besides the usual company
// restriction, driver and customer portal accounts only see the loads
// dispatched to them or tendered by them.
type GormLoadRepository struct {
	db *gorm.DB
}

// NewGormLoadRepository creates a new GormLoadRepository
func NewGormLoadRepository(db *gorm.DB) *GormLoadRepository {
	return &GormLoadRepository{db: db}
}

// Save persists a new load along with its stops
func (r *GormLoadRepository) Save(ctx context.Context, load *freight.Load) error {
	model := models.LoadModelFromDomain(load)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing load. Stops are replaced
// wholesale so reordering and removal round-trip cleanly.
func (r *GormLoadRepository) Update(ctx context.Context, load *freight.Load) error {
	model := models.LoadModelFromDomain(load)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LoadModel{}).
			Scopes(datascope.FromContext(ctx).LoadScope()).
			Where("id = ?", load.ID).
			Select("*").Omit("id", "company_id", "created_at", "Stops").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("load_id = ?", load.ID).Delete(&models.StopModel{}).Error; err != nil {
			return err
		}
		if len(model.Stops) > 0 {
			if err := tx.Create(&model.Stops).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a load with its stops within the caller's scope
func (r *GormLoadRepository) FindByID(ctx context.Context, id uuid.UUID) (*freight.Load, error) {
	var model models.LoadModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).LoadScope()).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a load by its load number within a company
func (r *GormLoadRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, loadNumber string) (*freight.Load, error) {
	var model models.LoadModel
	if err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("company_id = ? AND load_number = ?", companyID, loadNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists loads within the caller's scope
func (r *GormLoadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*freight.Load, int64, error) {
	return r.findLoads(ctx, filter, nil)
}

// FindByStatus lists loads in a given status within the caller's scope
func (r *GormLoadRepository) FindByStatus(ctx context.Context, status freight.LoadStatus, filter shared.Filter) ([]*freight.Load, int64, error) {
	return r.findLoads(ctx, filter, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	})
}

func (r *GormLoadRepository) findLoads(ctx context.Context, filter shared.Filter, extra func(*gorm.DB) *gorm.DB) ([]*freight.Load, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LoadModel{}).
		Scopes(datascope.FromContext(ctx).LoadScope())
	if extra != nil {
		query = extra(query)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(load_number) LIKE ? OR LOWER(reference_num) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loadModels []models.LoadModel
	if err := query.
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Scopes(paginate(filter)).
		Find(&loadModels).Error; err != nil {
		return nil, 0, err
	}

	loads := make([]*freight.Load, len(loadModels))
	for i := range loadModels {
		loads[i] = loadModels[i].ToDomain()
	}
	return loads, total, nil
}

// FindDeliveredByDriver lists loads a driver delivered in a half-open
// window, oldest first. Used when computing payroll.
func (r *GormLoadRepository) FindDeliveredByDriver(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]*freight.Load, error) {
	var loadModels []models.LoadModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).LoadScope()).
		Where("driver_id = ? AND status = ? AND delivered_at >= ? AND delivered_at < ?",
			driverID, freight.LoadStatusDelivered, from, to).
		Order("delivered_at ASC").
		Find(&loadModels).Error; err != nil {
		return nil, err
	}

	loads := make([]*freight.Load, len(loadModels))
	for i := range loadModels {
		loads[i] = loadModels[i].ToDomain()
	}
	return loads, nil
}

// Delete removes a load and its stops within the caller's scope
func (r *GormLoadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Scopes(datascope.FromContext(ctx).LoadScope()).
			Delete(&models.LoadModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("load_id = ?", id).Delete(&models.StopModel{}).Error
	})
}

// GormShipperRepository implements freight.ShipperRepository using GORM.
type GormShipperRepository struct {
	db *gorm.DB
}

// NewGormShipperRepository creates a new GormShipperRepository
func NewGormShipperRepository(db *gorm.DB) *GormShipperRepository {
	return &GormShipperRepository{db: db}
}

// Save persists a new shipper
func (r *GormShipperRepository) Save(ctx context.Context, shipper *freight.Shipper) error {
	model := models.ShipperModelFromDomain(shipper)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing shipper
func (r *GormShipperRepository) Update(ctx context.Context, shipper *freight.Shipper) error {
	model := models.ShipperModelFromDomain(shipper)
	result := r.db.WithContext(ctx).Model(&models.ShipperModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", shipper.ID).
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

// FindByID finds a shipper by ID within the caller's scope
func (r *GormShipperRepository) FindByID(ctx context.Context, id uuid.UUID) (*freight.Shipper, error) {
	var model models.ShipperModel
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

// FindAll lists shippers within the caller's scope
func (r *GormShipperRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*freight.Shipper, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShipperModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shipperModels []models.ShipperModel
	if err := query.Scopes(paginate(filter)).Find(&shipperModels).Error; err != nil {
		return nil, 0, err
	}

	shippers := make([]*freight.Shipper, len(shipperModels))
	for i := range shipperModels {
		shippers[i] = shipperModels[i].ToDomain()
	}
	return shippers, total, nil
}

// Delete removes a shipper within the caller's scope
func (r *GormShipperRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.ShipperModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormReceiverRepository implements freight.ReceiverRepository using GORM.
type GormReceiverRepository struct {
	db *gorm.DB
}

// NewGormReceiverRepository creates a new GormReceiverRepository
func NewGormReceiverRepository(db *gorm.DB) *GormReceiverRepository {
	return &GormReceiverRepository{db: db}
}

// Save persists a new receiver
func (r *GormReceiverRepository) Save(ctx context.Context, receiver *freight.Receiver) error {
	model := models.ReceiverModelFromDomain(receiver)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing receiver
func (r *GormReceiverRepository) Update(ctx context.Context, receiver *freight.Receiver) error {
	model := models.ReceiverModelFromDomain(receiver)
	result := r.db.WithContext(ctx).Model(&models.ReceiverModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", receiver.ID).
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

// FindByID finds a receiver by ID within the caller's scope
func (r *GormReceiverRepository) FindByID(ctx context.Context, id uuid.UUID) (*freight.Receiver, error) {
	var model models.ReceiverModel
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

// FindAll lists receivers within the caller's scope
func (r *GormReceiverRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*freight.Receiver, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReceiverModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var receiverModels []models.ReceiverModel
	if err := query.Scopes(paginate(filter)).Find(&receiverModels).Error; err != nil {
		return nil, 0, err
	}

	receivers := make([]*freight.Receiver, len(receiverModels))
	for i := range receiverModels {
		receivers[i] = receiverModels[i].ToDomain()
	}
	return receivers, total, nil
}

// Delete removes a receiver within the caller's scope
func (r *GormReceiverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.ReceiverModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormLaneRepository implements freight.LaneRepository using GORM.
type GormLaneRepository struct {
	db *gorm.DB
}

// NewGormLaneRepository creates a new GormLaneRepository
func NewGormLaneRepository(db *gorm.DB) *GormLaneRepository {
	return &GormLaneRepository{db: db}
}

// Save persists a new lane
func (r *GormLaneRepository) Save(ctx context.Context, lane *freight.Lane) error {
	model := models.LaneModelFromDomain(lane)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing lane
func (r *GormLaneRepository) Update(ctx context.Context, lane *freight.Lane) error {
	model := models.LaneModelFromDomain(lane)
	result := r.db.WithContext(ctx).Model(&models.LaneModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", lane.ID).
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

// FindByID finds a lane by ID within the caller's scope
func (r *GormLaneRepository) FindByID(ctx context.Context, id uuid.UUID) (*freight.Lane, error) {
	var model models.LaneModel
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

// FindAll lists lanes within the caller's scope
func (r *GormLaneRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*freight.Lane, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LaneModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(origin_city) LIKE ? OR LOWER(dest_city) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var laneModels []models.LaneModel
	if err := query.Scopes(paginate(filter)).Find(&laneModels).Error; err != nil {
		return nil, 0, err
	}

	lanes := make([]*freight.Lane, len(laneModels))
	for i := range laneModels {
		lanes[i] = laneModels[i].ToDomain()
	}
	return lanes, total, nil
}

// Delete removes a lane within the caller's scope
func (r *GormLaneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.LaneModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRateconRepository implements freight.RateconRepository using GORM.
type GormRateconRepository struct {
	db *gorm.DB
}

// NewGormRateconRepository creates a new GormRateconRepository
func NewGormRateconRepository(db *gorm.DB) *GormRateconRepository {
	return &GormRateconRepository{db: db}
}

// Save persists a new rate confirmation
func (r *GormRateconRepository) Save(ctx context.Context, ratecon *freight.Ratecon) error {
	model := models.RateconModelFromDomain(ratecon)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing rate confirmation
func (r *GormRateconRepository) Update(ctx context.Context, ratecon *freight.Ratecon) error {
	model := models.RateconModelFromDomain(ratecon)
	result := r.db.WithContext(ctx).Model(&models.RateconModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("id = ?", ratecon.ID).
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

// FindByID finds a rate confirmation by ID within the caller's scope
func (r *GormRateconRepository) FindByID(ctx context.Context, id uuid.UUID) (*freight.Ratecon, error) {
	var model models.RateconModel
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

// FindByLoad lists rate confirmations for a load within the caller's scope
func (r *GormRateconRepository) FindByLoad(ctx context.Context, loadID uuid.UUID) ([]*freight.Ratecon, error) {
	var rateconModels []models.RateconModel
	if err := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Where("load_id = ?", loadID).
		Order("created_at DESC").
		Find(&rateconModels).Error; err != nil {
		return nil, err
	}

	ratecons := make([]*freight.Ratecon, len(rateconModels))
	for i := range rateconModels {
		ratecons[i] = rateconModels[i].ToDomain()
	}
	return ratecons, nil
}

// FindAll lists rate confirmations within the caller's scope
func (r *GormRateconRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*freight.Ratecon, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RateconModel{}).
		Scopes(datascope.FromContext(ctx).CompanyScope())

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(broker_name) LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rateconModels []models.RateconModel
	if err := query.Scopes(paginate(filter)).Find(&rateconModels).Error; err != nil {
		return nil, 0, err
	}

	ratecons := make([]*freight.Ratecon, len(rateconModels))
	for i := range rateconModels {
		ratecons[i] = rateconModels[i].ToDomain()
	}
	return ratecons, total, nil
}

// Delete removes a rate confirmation within the caller's scope
func (r *GormRateconRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(datascope.FromContext(ctx).CompanyScope()).
		Delete(&models.RateconModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ freight.LoadRepository     = (*GormLoadRepository)(nil)
	_ freight.ShipperRepository  = (*GormShipperRepository)(nil)
	_ freight.ReceiverRepository = (*GormReceiverRepository)(nil)
	_ freight.LaneRepository     = (*GormLaneRepository)(nil)
	_ freight.RateconRepository  = (*GormRateconRepository)(nil)
)
