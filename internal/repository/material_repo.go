package repository

import (
	"go-orders-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(material *model.Material) error
	FindAll() ([]model.Material, error)
	FindByID(id uuid.UUID) (*model.Material, error)
	Update(material *model.Material) error
	Delete(id uuid.UUID) error
	ConsumeStock(tx *gorm.DB, id uuid.UUID, qty float64, updatedBy string) (bool, error)
	AddStock(tx *gorm.DB, id uuid.UUID, qty float64, updatedBy string) error
	FindLowStock() ([]model.Material, error)
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) Create(material *model.Material) error {
	return r.db.Create(material).Error
}

func (r *materialRepo) FindAll() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.Material, error) {
	var material model.Material
	err := r.db.First(&material, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) Update(material *model.Material) error {
	return r.db.Save(material).Error
}

func (r *materialRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Material{}, "id = ?", id).Error
}

// ConsumeStock decrements qty_on_hand atomically. The WHERE guard keeps
// qty_on_hand from going negative under concurrent reports; the caller
// must check the returned flag (false = insufficient stock, nothing
// written).
func (r *materialRepo) ConsumeStock(tx *gorm.DB, id uuid.UUID, qty float64, updatedBy string) (bool, error) {
	result := tx.Model(&model.Material{}).
		Where("id = ? AND qty_on_hand >= ?", id, qty).
		Updates(map[string]interface{}{
			"qty_on_hand": gorm.Expr("qty_on_hand - ?", qty),
			"updated_by":  updatedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddStock increments qty_on_hand atomically (menerima tx agar bisa
// berjalan dalam transaksi)
func (r *materialRepo) AddStock(tx *gorm.DB, id uuid.UUID, qty float64, updatedBy string) error {
	return tx.Model(&model.Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"qty_on_hand": gorm.Expr("qty_on_hand + ?", qty),
			"updated_by":  updatedBy,
		}).Error
}

func (r *materialRepo) FindLowStock() ([]model.Material, error) {
	var materials []model.Material
	err := r.db.Where("qty_on_hand < safety_stock").Order("name ASC").Find(&materials).Error
	return materials, err
}
