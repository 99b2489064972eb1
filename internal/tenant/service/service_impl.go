package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nhatrolabs/nhatro/internal/clock"
	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
	"github.com/nhatrolabs/nhatro/internal/tenant/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	RoomRepo roomdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	roomRepo roomdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("tenant.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		roomRepo: p.RoomRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	tenant := &domain.Tenant{
		ID:             s.genID.Generate().Int64(),
		Name:           name,
		DateOfBirth:    strings.TrimSpace(req.DateOfBirth),
		IdentityNumber: strings.TrimSpace(req.IdentityNumber),
		RoomID:         roomID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.roomRepo.FindByID(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return roomdomain.ErrNotFound
		}
		return s.repo.Create(ctx, tx, tenant)
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(tenant)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(tenant)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	tenants, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(tenants))
	for i := range tenants {
		resp = append(resp, s.toResponse(&tenants[i]))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Tenant
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := s.repo.FindByID(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return domain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return domain.ErrNameRequired
			}
			tenant.Name = name
		}
		if req.DateOfBirth != nil {
			tenant.DateOfBirth = strings.TrimSpace(*req.DateOfBirth)
		}
		if req.IdentityNumber != nil {
			tenant.IdentityNumber = strings.TrimSpace(*req.IdentityNumber)
		}
		if req.RoomID != nil {
			roomID, err := parseRoomID(*req.RoomID)
			if err != nil {
				return err
			}
			if roomID != tenant.RoomID {
				room, err := s.roomRepo.FindByID(ctx, tx, roomID)
				if err != nil {
					return err
				}
				if room == nil {
					return roomdomain.ErrNotFound
				}
				tenant.RoomID = roomID
			}
		}

		tenant.UpdatedAt = s.clock.Now(ctx)
		if err := s.repo.Update(ctx, tx, tenant); err != nil {
			return err
		}
		updated = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(updated)
	return &resp, nil
}

func (s *Service) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Response, error) {
	tenantID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	toRoomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}

	var moved *domain.Tenant
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := s.repo.FindByID(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return domain.ErrNotFound
		}

		room, err := s.roomRepo.FindByID(ctx, tx, toRoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return roomdomain.ErrNotFound
		}

		fromRoomID := tenant.RoomID
		tenant.RoomID = toRoomID
		tenant.UpdatedAt = s.clock.Now(ctx)
		if err := s.repo.Update(ctx, tx, tenant); err != nil {
			return err
		}

		s.log.Info("tenant transferred",
			zap.Int64("tenant_id", tenantID),
			zap.Int64("from_room_id", fromRoomID),
			zap.Int64("to_room_id", toRoomID),
		)
		moved = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(moved)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, err := parseID(id)
	if err != nil {
		return err
	}

	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, tenantID)
}

func (s *Service) toResponse(t *domain.Tenant) domain.Response {
	return domain.Response{
		ID:             snowflake.ID(t.ID).String(),
		Name:           t.Name,
		DateOfBirth:    t.DateOfBirth,
		IdentityNumber: t.IdentityNumber,
		RoomID:         snowflake.ID(t.RoomID).String(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func parseRoomID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, roomdomain.ErrInvalidID
	}
	return parsed.Int64(), nil
}
