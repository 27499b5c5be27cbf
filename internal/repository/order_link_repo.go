package repository

import (
	"go-orders-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderLinkRepository interface {
	Create(link *model.OrderLink) error
	FindByToken(token string) (*model.OrderLink, error)
	FindByOrder(orderID uuid.UUID) ([]model.OrderLink, error)
	Deactivate(id uuid.UUID, updatedBy string) error
}

type orderLinkRepo struct {
	db *gorm.DB
}

func NewOrderLinkRepo(db *gorm.DB) OrderLinkRepository {
	return &orderLinkRepo{db}
}

func (r *orderLinkRepo) Create(link *model.OrderLink) error {
	return r.db.Create(link).Error
}

func (r *orderLinkRepo) FindByToken(token string) (*model.OrderLink, error) {
	var link model.OrderLink
	err := r.db.Preload("Order").First(&link, "token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *orderLinkRepo) FindByOrder(orderID uuid.UUID) ([]model.OrderLink, error) {
	var links []model.OrderLink
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&links).Error
	return links, err
}

func (r *orderLinkRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	return r.db.Model(&model.OrderLink{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		}).Error
}
