package repository

import (
	"time"

	"go-orders-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows FindAll results
type OrderFilter struct {
	Status   model.OrderStatus
	TailorID *uuid.UUID
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindAll(filter OrderFilter) ([]model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByNumber(orderNumber string) (*model.Order, error)
	Update(order *model.Order) error
	Delete(id uuid.UUID, deletedBy string) error

	// Line item operations. These take *gorm.DB so they can run inside
	// the fulfillment transaction.
	FindLines(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderProduct, error)
	FindLine(tx *gorm.DB, orderID, productID uuid.UUID) (*model.OrderProduct, error)
	IncrementLineCompleted(tx *gorm.DB, lineID uuid.UUID, pcs int, updatedBy string) (bool, error)
	MarkLineCompleted(tx *gorm.DB, lineID uuid.UUID, when time.Time) error
	IncrementCompletedPcs(tx *gorm.DB, orderID uuid.UUID, pcs int, updatedBy string) error

	FindStatusHistory(orderID uuid.UUID) ([]model.StatusChange, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) FindAll(filter OrderFilter) ([]model.Order, error) {
	query := r.db.Preload("Products.Product").Preload("Tailor").Preload("TailorContact").
		Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TailorID != nil {
		query = query.Where("tailor_id = ?", *filter.TailorID)
	}

	var orders []model.Order
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Products.Product").Preload("Tailor").Preload("TailorContact").
		Preload("ProgressReports", func(db *gorm.DB) *gorm.DB {
			return db.Order("reported_at DESC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Order{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Order{}, "id = ?", id).Error
}

func (r *orderRepo) FindLines(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderProduct, error) {
	var lines []model.OrderProduct
	err := tx.Where("order_id = ?", orderID).Find(&lines).Error
	return lines, err
}

func (r *orderRepo) FindLine(tx *gorm.DB, orderID, productID uuid.UUID) (*model.OrderProduct, error) {
	var line model.OrderProduct
	err := tx.Where("order_id = ? AND product_id = ?", orderID, productID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// IncrementLineCompleted bumps completed_qty atomically. The WHERE guard
// rejects overruns past qty even when two reports race; false means
// nothing was written.
func (r *orderRepo) IncrementLineCompleted(tx *gorm.DB, lineID uuid.UUID, pcs int, updatedBy string) (bool, error) {
	result := tx.Model(&model.OrderProduct{}).
		Where("id = ? AND completed_qty + ? <= qty", lineID, pcs).
		Updates(map[string]interface{}{
			"completed_qty": gorm.Expr("completed_qty + ?", pcs),
			"updated_by":    updatedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkLineCompleted flags a line once its counter reaches the target.
// The guard reads completed_qty in SQL, so the decision cannot go stale
// against a concurrent increment; calling it on a partial line is a no-op.
func (r *orderRepo) MarkLineCompleted(tx *gorm.DB, lineID uuid.UUID, when time.Time) error {
	return tx.Model(&model.OrderProduct{}).
		Where("id = ? AND completed_qty >= qty AND is_completed = ?", lineID, false).
		Updates(map[string]interface{}{
			"is_completed":    true,
			"completion_date": when,
		}).Error
}

func (r *orderRepo) IncrementCompletedPcs(tx *gorm.DB, orderID uuid.UUID, pcs int, updatedBy string) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"completed_pcs": gorm.Expr("completed_pcs + ?", pcs),
			"updated_by":    updatedBy,
		}).Error
}

func (r *orderRepo) FindStatusHistory(orderID uuid.UUID) ([]model.StatusChange, error) {
	var changes []model.StatusChange
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&changes).Error
	return changes, err
}
