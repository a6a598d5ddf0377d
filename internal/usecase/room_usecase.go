package usecase

import (
	"context"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound         = apperror.NotFound("room not found")
	ErrRoomNumberTaken      = apperror.Conflict("room number already exists in this clinic")
	ErrRoomHasBeds          = apperror.Conflict("room still has beds; delete them first")
	ErrRoomBelowProvisioned = apperror.Conflict("total beds cannot be lower than the beds already provisioned")
)

type RoomUsecase interface {
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*dto.RoomResponse, error)
	ListRooms(ctx context.Context, q dto.RoomListQuery) (*dto.RoomListResponse, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type roomUsecase struct {
	tx       database.Transactor
	log      *logrus.Logger
	guard    *service.TenantGuard
	codes    service.CodeGenerator
	roomRepo repository.RoomRepository
	bedRepo  repository.BedRepository
}

func NewRoomUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	codes service.CodeGenerator,
	roomRepo repository.RoomRepository,
	bedRepo repository.BedRepository,
) RoomUsecase {
	return &roomUsecase{
		tx:       tx,
		log:      log,
		guard:    guard,
		codes:    codes,
		roomRepo: roomRepo,
		bedRepo:  bedRepo,
	}
}

// CreateRoom checks room number uniqueness within the clinic before insert.
func (u *roomUsecase) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}
	clinicID, err := u.guard.TargetClinic(p, req.ClinicID)
	if err != nil {
		return nil, err
	}

	room := &entity.Room{
		ClinicID:    clinicID,
		RoomNumber:  req.RoomNumber,
		RoomType:    entity.RoomType(req.RoomType),
		Floor:       req.Floor,
		TotalBeds:   req.TotalBeds,
		IsActive:    true,
		CreatedByID: &p.UserID,
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.roomRepo.FindByNumber(tx, clinicID, req.RoomNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrRoomNumberTaken
		}

		room.RoomCode, err = u.codes.Generate(ctx, service.CodePrefixRoom, func(c string) (bool, error) {
			return u.roomRepo.CodeExists(tx, c)
		})
		if err != nil {
			return err
		}

		if err := u.roomRepo.Create(tx, room); err != nil {
			if isDuplicateKeyError(err, "room_number") {
				return ErrRoomNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to create room")
		return nil, err
	}

	return converter.RoomToResponse(room, &entity.Occupancy{}), nil
}

func (u *roomUsecase) GetRoom(ctx context.Context, id uuid.UUID) (*dto.RoomResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	db := u.tx.DB(ctx)
	room, err := u.roomRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find room %s: %+v", id, err)
		return nil, err
	}
	if room == nil || !u.guard.CanAccess(p, room.ClinicID) {
		return nil, ErrRoomNotFound
	}

	occ, err := u.roomRepo.Occupancy(db, []uuid.UUID{room.ID})
	if err != nil {
		u.log.Warnf("Failed to load occupancy for room %s: %+v", id, err)
		return nil, err
	}
	o := occ[room.ID]
	return converter.RoomToResponse(room, &o), nil
}

func (u *roomUsecase) ListRooms(ctx context.Context, q dto.RoomListQuery) (*dto.RoomListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.RoomListResponse{Rooms: []dto.RoomResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	db := u.tx.DB(ctx)
	rooms, total, err := u.roomRepo.List(db, entity.RoomFilter{
		ClinicIDs: clinics,
		RoomType:  entity.RoomType(q.RoomType),
		Page:      pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list rooms: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(rooms))
	for i := range rooms {
		ids[i] = rooms[i].ID
	}
	occ, err := u.roomRepo.Occupancy(db, ids)
	if err != nil {
		u.log.Warnf("Failed to load room occupancy: %+v", err)
		return nil, err
	}

	return &dto.RoomListResponse{
		Rooms:      converter.RoomsToResponses(rooms, occ),
		Pagination: paginationOf(total, q.ListQuery),
	}, nil
}

// UpdateRoom locks the room so capacity cannot race bed creation.
func (u *roomUsecase) UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var room *entity.Room
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		room, err = u.roomRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if room == nil || !u.guard.CanAccess(p, room.ClinicID) {
			return ErrRoomNotFound
		}

		if req.RoomNumber != nil && *req.RoomNumber != room.RoomNumber {
			existing, err := u.roomRepo.FindByNumber(tx, room.ClinicID, *req.RoomNumber)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrRoomNumberTaken
			}
			room.RoomNumber = *req.RoomNumber
		}
		if req.TotalBeds != nil {
			provisioned, err := u.bedRepo.CountByRoom(tx, room.ID)
			if err != nil {
				return err
			}
			if int64(*req.TotalBeds) < provisioned {
				return ErrRoomBelowProvisioned
			}
			room.TotalBeds = *req.TotalBeds
		}
		if req.RoomType != nil {
			room.RoomType = entity.RoomType(*req.RoomType)
		}
		if req.Floor != nil {
			room.Floor = *req.Floor
		}
		if req.IsActive != nil {
			room.IsActive = *req.IsActive
		}

		if err := u.roomRepo.Update(tx, room); err != nil {
			if isDuplicateKeyError(err, "room_number") {
				return ErrRoomNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to update room %s", id)
		return nil, err
	}
	return converter.RoomToResponse(room, nil), nil
}

// DeleteRoom requires every bed to be deleted first.
func (u *roomUsecase) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return err
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		room, err := u.roomRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if room == nil || !u.guard.CanAccess(p, room.ClinicID) {
			return ErrRoomNotFound
		}

		beds, err := u.bedRepo.CountByRoom(tx, id)
		if err != nil {
			return err
		}
		if beds > 0 {
			return ErrRoomHasBeds
		}
		return u.roomRepo.Delete(tx, id)
	})
	logUnexpected(u.log, err, "Failed to delete room %s", id)
	return err
}
