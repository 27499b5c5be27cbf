package repository

import (
	"time"

	"go-orders-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.MaterialMovement) error
	FindAll() ([]model.MaterialMovement, error)
	FindByOrder(orderID uuid.UUID) ([]model.MaterialMovement, error)
	FindByMaterial(materialID uuid.UUID) ([]model.MaterialMovement, error)
	GetMovementChart(startDate, endDate time.Time) ([]MovementChartData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// MovementChartData untuk chart data
type MovementChartData struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalOrders     int64 `json:"total_orders"`
	OrdersInProcess int64 `json:"orders_in_process"`
	OrdersOverdue   int64 `json:"orders_overdue"`
	TotalMaterials  int64 `json:"total_materials"`
	LowStockCount   int64 `json:"low_stock_count"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

// Create menerima tx agar audit row ikut transaksi fulfillment
func (r *movementRepo) Create(tx *gorm.DB, movement *model.MaterialMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll() ([]model.MaterialMovement, error) {
	var movements []model.MaterialMovement
	err := r.db.Preload("Material").Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByOrder(orderID uuid.UUID) ([]model.MaterialMovement, error) {
	var movements []model.MaterialMovement
	err := r.db.Preload("Material").Where("order_id = ?", orderID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByMaterial(materialID uuid.UUID) ([]model.MaterialMovement, error) {
	var movements []model.MaterialMovement
	err := r.db.Where("material_id = ?", materialID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) GetMovementChart(startDate, endDate time.Time) ([]MovementChartData, error) {
	var results []MovementChartData

	// Aggregate movements per day
	rows, err := r.db.Model(&model.MaterialMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN qty ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN qty ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data MovementChartData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *movementRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Order{}).Count(&stats.TotalOrders)

	r.db.Model(&model.Order{}).
		Where("status IN ?", []model.OrderStatus{
			model.StatusConfirmed, model.StatusProcessing, model.StatusNeedMaterial,
		}).Count(&stats.OrdersInProcess)

	r.db.Model(&model.Order{}).
		Where("due_date < ? AND status NOT IN ?", time.Now(), []model.OrderStatus{
			model.StatusCompleted, model.StatusShipped, model.StatusDelivered, model.StatusCancelled,
		}).Count(&stats.OrdersOverdue)

	r.db.Model(&model.Material{}).Count(&stats.TotalMaterials)
	r.db.Model(&model.Material{}).Where("qty_on_hand < safety_stock").Count(&stats.LowStockCount)

	return &stats, nil
}
