package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nhatrolabs/nhatro/internal/clock"
	"github.com/nhatrolabs/nhatro/internal/room/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("room.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if req.RentPrice < 0 || req.ElectricUnitPrice < 0 || req.WaterUnitPrice < 0 {
		return nil, domain.ErrNegativePrice
	}

	occupied := false
	if req.Occupied != nil {
		occupied = *req.Occupied
	}

	now := s.clock.Now(ctx)
	room := &domain.Room{
		ID:                s.genID.Generate().Int64(),
		Name:              name,
		RentPrice:         req.RentPrice,
		ElectricUnitPrice: req.ElectricUnitPrice,
		WaterUnitPrice:    req.WaterUnitPrice,
		RentDate:          req.RentDate,
		DueDate:           req.DueDate,
		Occupied:          occupied,
		Note:              trimmedPtr(req.Note),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Metadata != nil {
		room.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, room); err != nil {
		return nil, err
	}

	resp := s.toResponse(room)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	roomID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.FindByID(ctx, s.db, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	records, err := s.repo.ListRecordRows(ctx, s.db, roomID)
	if err != nil {
		return nil, err
	}
	occupants, err := s.repo.ListOccupantRows(ctx, s.db, roomID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(room)
	resp.BillingRecords = make([]domain.BillingRecordSummary, 0, len(records))
	for _, row := range records {
		resp.BillingRecords = append(resp.BillingRecords, domain.BillingRecordSummary{
			ID:             snowflake.ID(row.ID).String(),
			ComputedCharge: row.ComputedCharge,
			Paid:           row.Paid,
			Overdue:        row.Overdue,
			CreatedAt:      row.CreatedAt,
		})
	}
	resp.Occupants = make([]domain.OccupantSummary, 0, len(occupants))
	for _, row := range occupants {
		resp.Occupants = append(resp.Occupants, domain.OccupantSummary{
			ID:   snowflake.ID(row.ID).String(),
			Name: row.Name,
		})
	}

	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	rooms, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(rooms))
	for i := range rooms {
		resp = append(resp, s.toResponse(&rooms[i]))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	roomID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.FindByID(ctx, s.db, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		room.Name = name
	}
	if req.RentPrice != nil {
		if *req.RentPrice < 0 {
			return nil, domain.ErrNegativePrice
		}
		room.RentPrice = *req.RentPrice
	}
	if req.ElectricUnitPrice != nil {
		if *req.ElectricUnitPrice < 0 {
			return nil, domain.ErrNegativePrice
		}
		room.ElectricUnitPrice = *req.ElectricUnitPrice
	}
	if req.WaterUnitPrice != nil {
		if *req.WaterUnitPrice < 0 {
			return nil, domain.ErrNegativePrice
		}
		room.WaterUnitPrice = *req.WaterUnitPrice
	}
	if req.RentDate != nil {
		room.RentDate = req.RentDate
	}
	if req.DueDate != nil {
		room.DueDate = req.DueDate
	}
	if req.Occupied != nil {
		room.Occupied = *req.Occupied
	}
	if req.Note != nil {
		room.Note = trimmedPtr(req.Note)
	}
	if req.Metadata != nil {
		room.Metadata = datatypes.JSONMap(req.Metadata)
	}

	room.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, s.db, room); err != nil {
		return nil, err
	}

	resp := s.toResponse(room)
	return &resp, nil
}

func (s *Service) AdjustBalance(ctx context.Context, req domain.AdjustBalanceRequest) (*domain.Response, error) {
	roomID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	var adjusted *domain.Room
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.repo.FindByID(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return domain.ErrNotFound
		}

		room.CarriedBalance += req.Delta
		if err := s.repo.SetCarriedBalance(ctx, tx, roomID, room.CarriedBalance); err != nil {
			return err
		}
		adjusted = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("carried balance adjusted",
		zap.Int64("room_id", roomID),
		zap.Int64("delta", req.Delta),
		zap.Int64("balance", adjusted.CarriedBalance),
		zap.String("reason", req.Reason),
	)

	resp := s.toResponse(adjusted)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	roomID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.repo.FindByID(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return domain.ErrNotFound
		}

		occupants, err := s.repo.CountOccupants(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if occupants > 0 {
			return domain.ErrOccupied
		}

		// Billing history goes with the room.
		if err := tx.Exec(
			`DELETE FROM payment_entries WHERE billing_record_id IN
			   (SELECT id FROM billing_records WHERE room_id = ?)`,
			roomID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM billing_records WHERE room_id = ?`, roomID).Error; err != nil {
			return err
		}

		return s.repo.Delete(ctx, tx, roomID)
	})
}

func (s *Service) toResponse(room *domain.Room) domain.Response {
	resp := domain.Response{
		ID:                snowflake.ID(room.ID).String(),
		Name:              room.Name,
		RentPrice:         room.RentPrice,
		ElectricUnitPrice: room.ElectricUnitPrice,
		WaterUnitPrice:    room.WaterUnitPrice,
		RentDate:          room.RentDate,
		DueDate:           room.DueDate,
		Occupied:          room.Occupied,
		CarriedBalance:    room.CarriedBalance,
		Note:              room.Note,
		CreatedAt:         room.CreatedAt,
		UpdatedAt:         room.UpdatedAt,
	}
	if len(room.Metadata) > 0 {
		resp.Metadata = map[string]any(room.Metadata)
	}
	return resp
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
