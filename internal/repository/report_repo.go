package repository

import (
	"go-orders-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRepository reads the progress report log. Reports are written
// only inside the fulfillment transaction; there is no Update or Delete.
type ReportRepository interface {
	Create(tx *gorm.DB, report *model.ProgressReport) error
	FindAll() ([]model.ProgressReport, error)
	FindByOrder(orderID uuid.UUID) ([]model.ProgressReport, error)
	FindByID(id uuid.UUID) (*model.ProgressReport, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) Create(tx *gorm.DB, report *model.ProgressReport) error {
	return tx.Create(report).Error
}

func (r *reportRepo) FindAll() ([]model.ProgressReport, error) {
	var reports []model.ProgressReport
	err := r.db.Preload("User").Order("reported_at DESC").Find(&reports).Error
	return reports, err
}

func (r *reportRepo) FindByOrder(orderID uuid.UUID) ([]model.ProgressReport, error) {
	var reports []model.ProgressReport
	err := r.db.Preload("User").Where("order_id = ?", orderID).
		Order("reported_at DESC").Find(&reports).Error
	return reports, err
}

func (r *reportRepo) FindByID(id uuid.UUID) (*model.ProgressReport, error) {
	var report model.ProgressReport
	err := r.db.Preload("User").First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}
