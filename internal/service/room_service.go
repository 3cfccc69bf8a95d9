package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/repository"
	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
)

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound    = fmt.Errorf("%w: 教室不存在", pkgerrors.ErrNotFound)
	ErrRoomNameTaken   = fmt.Errorf("%w: 教室名称已存在", pkgerrors.ErrDuplicate)
	ErrRoomUnavailable = fmt.Errorf("%w: 教室当前不可用", pkgerrors.ErrInvalidInput)
)

// RoomService 教室业务接口
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RoomResponse, error)
	List(ctx context.Context) ([]dto.RoomResponse, error)
	ListFree(ctx context.Context, req *dto.FreeRoomsRequest) ([]dto.RoomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room := &model.Room{
		Name:      req.Name,
		Capacity:  req.Capacity,
		Type:      req.Type,
		Available: true,
	}
	if req.Available != nil {
		room.Available = *req.Available
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrRoomNameTaken
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	resp := toRoomResponse(room)
	return &resp, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoomResponse(room)
	return &resp, nil
}

func (s *roomService) List(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}
	return toRoomResponses(rooms), nil
}

// ListFree [start, end) 内无课次占用的可用教室
func (s *roomService) ListFree(ctx context.Context, req *dto.FreeRoomsRequest) ([]dto.RoomResponse, error) {
	if !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: 结束时间必须晚于开始时间", pkgerrors.ErrInvalidInput)
	}
	rooms, err := s.repo.Room.ListFree(ctx, req.Start, req.End, req.MinCapacity)
	if err != nil {
		s.logger.Error("查询空闲教室失败", zap.Error(err))
		return nil, err
	}
	return toRoomResponses(rooms), nil
}

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Type != nil {
		room.Type = *req.Type
	}
	if req.Available != nil {
		room.Available = *req.Available
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Update(ctx, room); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrRoomNameTaken
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toRoomResponse(room)
	return &resp, nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Room.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *roomService) get(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func toRoomResponses(rooms []model.Room) []dto.RoomResponse {
	out := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i]))
	}
	return out
}
