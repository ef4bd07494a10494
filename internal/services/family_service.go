package services

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "funfinance/internal/errors"
	"funfinance/internal/models"
	"funfinance/internal/pagination"
	"funfinance/internal/token"
)

// familyService handles family-related business logic and the
// invitation workflow.
type familyService struct {
	db            *gorm.DB
	invitationTTL time.Duration
}

// NewFamilyService creates a new FamilyServicer. invitationTTL bounds
// how long a created invitation stays acceptable.
func NewFamilyService(db *gorm.DB, invitationTTL time.Duration) FamilyServicer {
	return &familyService{db: db, invitationTTL: invitationTTL}
}

// ListFamilies returns a paginated list of all families.
func (s *familyService) ListFamilies(page pagination.PageRequest) (*pagination.PageResponse[models.Family], error) {
	page.Defaults()

	base := s.db.Model(&models.Family{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var families []models.Family
	if err := base.Scopes(pagination.Paginate(page)).Find(&families).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(families, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetFamilyByID retrieves a family by ID.
func (s *familyService) GetFamilyByID(id uint) (*models.Family, error) {
	var family models.Family
	if err := s.db.First(&family, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &family, nil
}

// GetFamilyWithMembers retrieves a family with its member list loaded.
func (s *familyService) GetFamilyWithMembers(id uint) (*models.Family, error) {
	var family models.Family
	if err := s.db.Preload("Members").First(&family, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &family, nil
}

// CreateFamily creates a family and adds the creator as its first
// member. Both steps run in one transaction.
func (s *familyService) CreateFamily(name string, creatorUserID uint) (*models.Family, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "family name is required")
	}

	family := &models.Family{Name: name}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, creatorUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.WithStatus(apperrors.ErrUserNotFound, http.StatusBadRequest)
			}
			return err
		}

		if err := tx.Create(family).Error; err != nil {
			return err
		}

		return tx.Model(&user).Update("family_id", family.ID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return family, nil
}

// UpdateFamily renames a family.
func (s *familyService) UpdateFamily(id uint, name string) (*models.Family, error) {
	family, err := s.GetFamilyByID(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "family name is required")
	}

	if err := s.db.Model(family).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return family, nil
}

// DeleteFamily removes a family, cascading to its budgets, categories,
// and invitations. Members are detached. Families whose budgets have
// recorded expenses cannot be deleted.
func (s *familyService) DeleteFamily(id uint) error {
	if _, err := s.GetFamilyByID(id); err != nil {
		return err
	}

	var expenses int64
	if err := s.db.Model(&models.Expense{}).
		Joins("JOIN budgets ON budgets.id = expenses.budget_id").
		Where("budgets.family_id = ?", id).
		Count(&expenses).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if expenses > 0 {
		return apperrors.ErrFamilyInUse
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return deleteFamilyCascade(tx, id)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// deleteFamilyCascade removes a family and its dependents inside the
// given transaction. Callers must have verified no expenses reference
// the family's budgets.
func deleteFamilyCascade(tx *gorm.DB, familyID uint) error {
	if err := tx.Model(&models.User{}).Where("family_id = ?", familyID).Update("family_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("family_id = ?", familyID).Delete(&models.FamilyInvitation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("family_id = ?", familyID).Delete(&models.Category{}).Error; err != nil {
		return err
	}
	if err := tx.Where("family_id = ?", familyID).Delete(&models.Budget{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Family{}, familyID).Error
}

// CreateInvitation issues an invitation token for an email address.
// While a pending invitation for the same email and family exists, the
// same token is returned. Expired or accepted invitations are replaced.
func (s *familyService) CreateInvitation(familyID uint, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}
	email = strings.ToLower(email)

	var family models.Family
	if err := s.db.First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.WithStatus(apperrors.ErrFamilyNotFound, http.StatusBadRequest)
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing models.FamilyInvitation
	err := s.db.Where("family_id = ? AND email = ?", familyID, email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsValid(time.Now()) {
			return existing.Token, nil
		}
		if err := s.db.Delete(&existing).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	invitation := &models.FamilyInvitation{
		FamilyID:  familyID,
		Email:     email,
		Token:     token.New(),
		ExpiresAt: time.Now().Add(s.invitationTTL),
	}

	if err := s.db.Create(invitation).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return invitation.Token, nil
}

// AcceptInvitation joins the user to the inviting family and marks the
// invitation accepted. Both steps run in one transaction.
func (s *familyService) AcceptInvitation(tokenStr string, userID uint) error {
	canonical, err := token.Parse(tokenStr)
	if err != nil {
		return apperrors.ErrInvitationNotFound
	}

	var invitation models.FamilyInvitation
	if err := s.db.Where("token = ?", canonical).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvitationNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !invitation.IsValid(time.Now()) {
		return apperrors.ErrInvitationInvalid
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}

		if err := tx.Model(&user).Update("family_id", invitation.FamilyID).Error; err != nil {
			return err
		}

		return tx.Model(&invitation).Update("is_accepted", true).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListInvitationsByFamily returns all invitations issued by a family.
func (s *familyService) ListInvitationsByFamily(familyID uint) ([]models.FamilyInvitation, error) {
	if _, err := s.GetFamilyByID(familyID); err != nil {
		return nil, err
	}

	var invitations []models.FamilyInvitation
	if err := s.db.Where("family_id = ?", familyID).Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invitations, nil
}

// ListInvitationsByEmail returns all invitations addressed to an email.
func (s *familyService) ListInvitationsByEmail(email string) ([]models.FamilyInvitation, error) {
	var invitations []models.FamilyInvitation
	if err := s.db.Where("email = ?", strings.ToLower(email)).Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invitations, nil
}
