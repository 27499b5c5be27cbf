package repository

import (
	"go-orders-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	FindBOM(productID uuid.UUID) ([]model.ProductMaterial, error)
	ReplaceBOM(productID uuid.UUID, rows []model.ProductMaterial) error
	AddPhoto(photo *model.ProductPhoto) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Material").Preload("Photos").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Material").Preload("BillOfMaterials.Material").Preload("Photos").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// FindBOM returns the bill of materials for one product
func (r *productRepo) FindBOM(productID uuid.UUID) ([]model.ProductMaterial, error) {
	var rows []model.ProductMaterial
	err := r.db.Preload("Material").Where("product_id = ?", productID).Find(&rows).Error
	return rows, err
}

// ReplaceBOM swaps the whole bill of materials in one transaction
func (r *productRepo) ReplaceBOM(productID uuid.UUID, rows []model.ProductMaterial) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductMaterial{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ProductID = productID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepo) AddPhoto(photo *model.ProductPhoto) error {
	return r.db.Create(photo).Error
}
