package repository

import (
	"context"
	"time"

	"todo_realtime_service/internal/realtime/domain"

	"gorm.io/gorm"
)

// NotificationRepository 通知的持久化
type NotificationRepository interface {
	AutoMigrate() error
	Insert(ctx context.Context, n *domain.Notification) error
	Update(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Notification, error)
	ListSystem(ctx context.Context) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID int64) (int64, error)
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository create a gorm backed NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Notification{})
}

// Insert 寫入後 n.ID 為資料庫分配的 id
func (r *notificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// notExpired filters out notifications whose expire_time has passed
func notExpired(db *gorm.DB) *gorm.DB {
	return db.Where("expire_time IS NULL OR expire_time > ?", time.Now())
}

// ListByUser personal notifications addressed to the user plus every system notification
func (r *notificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var list []domain.Notification
	err := r.db.WithContext(ctx).
		Scopes(notExpired).
		Where("receiver_id = ? OR type = ?", userID, domain.NotificationSystem).
		Order("create_time DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Notification, error) {
	var list []domain.Notification
	err := r.db.WithContext(ctx).
		Scopes(notExpired).
		Where("project_id = ? AND type = ?", projectID, domain.NotificationProject).
		Order("create_time DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepository) ListSystem(ctx context.Context) ([]domain.Notification, error) {
	var list []domain.Notification
	err := r.db.WithContext(ctx).
		Scopes(notExpired).
		Where("type = ?", domain.NotificationSystem).
		Order("create_time DESC").
		Find(&list).Error
	return list, err
}

// MarkAsRead only the receiver may mark it; receiver-less system/project rows are shared
// and keep a single is_read column, so nobody marks them for everyone
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND receiver_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "update_time": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_time": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Scopes(notExpired).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Notification{}, id)
	return res.RowsAffected, res.Error
}
