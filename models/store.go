package models

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
)

type Store struct {
	ID               int              `gorm:"primary_key" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Address          string           `gorm:"size:500" json:"address"`
	Phone            string           `gorm:"size:20" json:"phone"`
	TaxCode          string           `gorm:"size:50" json:"tax_code"`
	OwnerId          int              `gorm:"index;not null" json:"owner_id"`
	SubscriptionPlan SubscriptionPlan `gorm:"size:20;not null;default:free" json:"subscription_plan"`
	IsActive         *bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStore struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	TaxCode string `json:"tax_code"`
	OwnerId int    `json:"owner_id" binding:"required"`
}

func (input *NewStore) validate(ctx context.Context) error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, "VN"); err != nil {
			return utils.ValidationError("invalid store phone number")
		}
	}
	var count int64
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", input.OwnerId).Count(&count).Error; err != nil {
		return err
	}
	if count <= 0 {
		return utils.NotFoundError("owner")
	}
	return nil
}

func CreateStore(ctx context.Context, input *NewStore) (*Store, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	store := Store{
		Name:             input.Name,
		Address:          input.Address,
		Phone:            input.Phone,
		TaxCode:          input.TaxCode,
		OwnerId:          input.OwnerId,
		SubscriptionPlan: SubscriptionPlanFree,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func GetStore(ctx context.Context, id int) (*Store, error) {
	return utils.FetchSingleModel[Store](ctx, id)
}

func GetStoresByOwner(ctx context.Context, ownerId int) ([]*Store, error) {
	db := config.GetDB()
	var stores []*Store
	if err := db.WithContext(ctx).Where("owner_id = ?", ownerId).Order("name").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}
