package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
)

// RoomRepository 教室数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	// ListFree 返回可用且在 [start, end) 内无课次占用的教室
	ListFree(ctx context.Context, start, end time.Time, minCapacity int) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return translate(r.db.WithContext(ctx).Create(room).Error)
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("room_id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).Order("name").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) ListFree(ctx context.Context, start, end time.Time, minCapacity int) ([]model.Room, error) {
	busy := r.db.Model(&model.Session{}).
		Select("room_id").
		Where("start_at < ? AND end_at > ?", end, start)

	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("available = ? AND capacity >= ?", true, minCapacity).
		Where("room_id NOT IN (?)", busy).
		Order("capacity, name").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return translate(r.db.WithContext(ctx).Save(room).Error)
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("room_id = ?", id).Delete(&model.Room{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
