package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/infrastructure/persistence/models"
)

// GormRegistrationStore creates a company, its admin user, and the admin's
// verification token in a single transaction.
type GormRegistrationStore struct {
	db *gorm.DB
}

// NewGormRegistrationStore creates a new registration store
func NewGormRegistrationStore(db *gorm.DB) *GormRegistrationStore {
	return &GormRegistrationStore{db: db}
}

// Register writes all three rows or none of them
func (s *GormRegistrationStore) Register(ctx context.Context, company *identity.Company, user *identity.User, token *identity.VerificationToken) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.CompanyModelFromDomain(company)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return err
		}
		return tx.Create(models.VerificationTokenModelFromDomain(token)).Error
	})
}

var _ identity.RegistrationStore = (*GormRegistrationStore)(nil)
