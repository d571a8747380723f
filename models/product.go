package models

import (
	"context"

	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product has no stock column anywhere. Current stock is always derived
// from the inventory movement log (see inventory.go).
type Product struct {
	ID          int           `gorm:"primary_key" json:"id"`
	StoreId     int           `gorm:"index;not null" json:"store_id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Sku         string        `gorm:"size:100" json:"sku"`
	Barcode     string        `gorm:"size:100" json:"barcode"`
	Category    string        `gorm:"size:100" json:"category"`
	Description string        `gorm:"type:text" json:"description"`
	ImageUrl    string        `gorm:"size:500" json:"image_url"`
	IsActive    *bool         `gorm:"not null;default:true" json:"is_active"`
	Units       []ProductUnit `gorm:"foreignKey:ProductId" json:"units"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductUnit is a sellable unit of measure. ConversionFactor converts one
// of this unit into the product's base counting unit and is decimal, not
// integer (e.g. 0.5 kg bags).
type ProductUnit struct {
	ID               int             `gorm:"primary_key" json:"id"`
	ProductId        int             `gorm:"index;not null" json:"product_id"`
	UnitName         string          `gorm:"size:50;not null" json:"unit_name"`
	Price            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"cost_price"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(10,4);not null;default:1" json:"conversion_factor"`
	IsDefault        *bool           `gorm:"not null;default:false" json:"is_default"`
	IsActive         *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name        string           `json:"name" binding:"required"`
	Sku         string           `json:"sku"`
	Barcode     string           `json:"barcode"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	ImageUrl    string           `json:"image_url"`
	Units       []NewProductUnit `json:"units" binding:"required,min=1,dive"`
}

type NewProductUnit struct {
	UnitName         string          `json:"unit_name" binding:"required"`
	Price            decimal.Decimal `json:"price"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	IsDefault        *bool           `json:"is_default"`
}

func (input *NewProduct) validate() error {
	defaults := 0
	for _, u := range input.Units {
		if u.ConversionFactor.IsNegative() || u.ConversionFactor.IsZero() {
			return utils.ValidationError("conversion factor of unit %s must be positive", u.UnitName)
		}
		if u.Price.IsNegative() {
			return utils.ValidationError("price of unit %s cannot be negative", u.UnitName)
		}
		if utils.DereferencePtr(u.IsDefault) {
			defaults++
		}
	}
	if defaults > 1 {
		return utils.ValidationError("product can have at most one default unit")
	}
	return nil
}

func CreateProduct(ctx context.Context, storeId int, input *NewProduct) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.Sku != "" {
		if err := utils.ValidateUnique[Product](ctx, storeId, "sku", input.Sku, 0); err != nil {
			return nil, utils.ValidationError("sku %s is already in use", input.Sku)
		}
	}

	units := make([]ProductUnit, 0, len(input.Units))
	for i, u := range input.Units {
		factor := u.ConversionFactor
		if factor.IsZero() {
			factor = decimal.NewFromInt(1)
		}
		isDefault := u.IsDefault
		if isDefault == nil {
			// first unit becomes the default when none is flagged
			isDefault = utils.Ptr(i == 0)
		}
		units = append(units, ProductUnit{
			UnitName:         u.UnitName,
			Price:            u.Price,
			CostPrice:        u.CostPrice,
			ConversionFactor: factor,
			IsDefault:        isDefault,
		})
	}

	product := Product{
		StoreId:     storeId,
		Name:        input.Name,
		Sku:         input.Sku,
		Barcode:     input.Barcode,
		Category:    input.Category,
		Description: input.Description,
		ImageUrl:    input.ImageUrl,
		Units:       units,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, storeId int, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, storeId, id, "Units")
}

func GetProducts(ctx context.Context, storeId int, search string, page, limit int) ([]*Product, int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Product{}).Where("store_id = ?", storeId)
	if search != "" {
		dbCtx = dbCtx.Where("(name LIKE ? OR sku LIKE ? OR barcode LIKE ?)",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []*Product
	err := dbCtx.Preload("Units").Order("name").
		Offset(pageOffset(page, limit)).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetProductUnit loads a unit together with its owning product.
func GetProductUnit(ctx context.Context, unitId int) (*ProductUnit, *Product, error) {
	return GetProductUnitTx(config.GetDB().WithContext(ctx), unitId)
}

// GetProductUnitTx is the in-transaction variant. Inside a transaction
// always use this one: going back to the pool from a tx deadlocks on
// single-connection setups.
func GetProductUnitTx(tx *gorm.DB, unitId int) (*ProductUnit, *Product, error) {
	var unit ProductUnit
	if err := tx.First(&unit, unitId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, utils.NotFoundError("product unit")
		}
		return nil, nil, err
	}
	var product Product
	if err := tx.First(&product, unit.ProductId).Error; err != nil {
		return nil, nil, err
	}
	return &unit, &product, nil
}
