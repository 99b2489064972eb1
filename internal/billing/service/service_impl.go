package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nhatrolabs/nhatro/internal/billing/domain"
	"github.com/nhatrolabs/nhatro/internal/clock"
	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
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
		log:      p.Log.Named("billing.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		roomRepo: p.RoomRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	if req.ElectricUsage < 0 || req.WaterUsage < 0 {
		return nil, domain.ErrNegativeUsage
	}

	now := s.clock.Now(ctx)
	record := &domain.BillingRecord{
		ID:            s.genID.Generate().Int64(),
		RoomID:        roomID,
		ElectricUsage: req.ElectricUsage,
		WaterUsage:    req.WaterUsage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var entries []domain.PaymentEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.roomRepo.FindByID(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return roomdomain.ErrNotFound
		}

		charge, err := domain.ComputeCharge(room, record.ElectricUsage, record.WaterUsage)
		if err != nil {
			return err
		}
		record.ComputedCharge = charge

		if err := s.repo.Create(ctx, tx, record); err != nil {
			return err
		}

		entries = s.buildEntries(record.ID, req.Ledger, 0, now)
		if len(entries) == 0 {
			return nil
		}
		return s.repo.ReplaceEntries(ctx, tx, record.ID, entries)
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(record, entries)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	entries, err := s.repo.ListEntries(ctx, s.db, recordID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(record, entries)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	records, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(records))
	for i := range records {
		entries, err := s.repo.ListEntries(ctx, s.db, records[i].ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, s.toResponse(&records[i], entries))
	}
	return resp, nil
}

// Update is the full-resend path: usage readings are re-applied, the charge is
// recomputed against the room's live prices and the supplied ledger replaces
// the stored one entirely.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	recordID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	var (
		updated *domain.BillingRecord
		entries []domain.PaymentEntry
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		room, err := s.findOwningRoom(ctx, tx, record)
		if err != nil {
			return err
		}

		if req.ElectricUsage != nil {
			record.ElectricUsage = *req.ElectricUsage
		}
		if req.WaterUsage != nil {
			record.WaterUsage = *req.WaterUsage
		}
		if req.Overdue != nil {
			record.Overdue = *req.Overdue
		}

		charge, err := domain.ComputeCharge(room, record.ElectricUsage, record.WaterUsage)
		if err != nil {
			return err
		}
		record.ComputedCharge = charge

		now := s.clock.Now(ctx)
		if req.Ledger != nil {
			entries = s.buildEntries(record.ID, req.Ledger, 0, now)
			if err := s.repo.ReplaceEntries(ctx, tx, record.ID, entries); err != nil {
				return err
			}
		} else {
			entries, err = s.repo.ListEntries(ctx, tx, record.ID)
			if err != nil {
				return err
			}
		}

		record.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(updated, entries)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	recordID, err := parseID(id)
	if err != nil {
		return err
	}

	record, err := s.repo.FindByID(ctx, s.db, recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, recordID)
	})
}

func (s *Service) Recompute(ctx context.Context, id string) (*domain.Response, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var (
		updated *domain.BillingRecord
		entries []domain.PaymentEntry
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		room, err := s.findOwningRoom(ctx, tx, record)
		if err != nil {
			return err
		}

		charge, err := domain.ComputeCharge(room, record.ElectricUsage, record.WaterUsage)
		if err != nil {
			return err
		}
		record.ComputedCharge = charge
		record.UpdatedAt = s.clock.Now(ctx)
		if err := s.repo.Update(ctx, tx, record); err != nil {
			return err
		}

		entries, err = s.repo.ListEntries(ctx, tx, record.ID)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(updated, entries)
	return &resp, nil
}

func (s *Service) AppendPayment(ctx context.Context, id string, req domain.EntryRequest) (*domain.Response, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var (
		record  *domain.BillingRecord
		entries []domain.PaymentEntry
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err = s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		position, err := s.repo.NextPosition(ctx, tx, recordID)
		if err != nil {
			return err
		}

		entry := domain.PaymentEntry{
			ID:              s.genID.Generate().Int64(),
			BillingRecordID: recordID,
			Position:        position,
			PaymentDate:     req.PaymentDate,
			AmountPaid:      req.AmountPaid,
			Note:            strings.TrimSpace(req.Note),
			CreatedAt:       s.clock.Now(ctx),
		}
		if err := s.repo.AppendEntry(ctx, tx, &entry); err != nil {
			return err
		}

		entries, err = s.repo.ListEntries(ctx, tx, recordID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(record, entries)
	return &resp, nil
}

func (s *Service) ReplaceLedger(ctx context.Context, id string, reqs []domain.EntryRequest) (*domain.Response, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var (
		record  *domain.BillingRecord
		entries []domain.PaymentEntry
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err = s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		entries = s.buildEntries(recordID, reqs, 0, s.clock.Now(ctx))
		return s.repo.ReplaceEntries(ctx, tx, recordID, entries)
	})
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(record, entries)
	return &resp, nil
}

// Settle derives the period outcome from the ledger and rolls the shortfall
// into the room's carried balance. Overpayments surface as a negative balance;
// they are never allocated into another period automatically.
func (s *Service) Settle(ctx context.Context, id string) (*domain.SettleResponse, error) {
	recordID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var resp domain.SettleResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.repo.FindByID(ctx, tx, recordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		room, err := s.findOwningRoom(ctx, tx, record)
		if err != nil {
			return err
		}

		entries, err := s.repo.ListEntries(ctx, tx, recordID)
		if err != nil {
			return err
		}

		settled := domain.SettledAmount(entries)
		shortfall := record.ComputedCharge - settled

		if err := s.roomRepo.SetCarriedBalance(ctx, tx, room.ID, shortfall); err != nil {
			return err
		}

		paid := len(entries) > 0 && settled >= record.ComputedCharge
		if record.Paid != paid {
			record.Paid = paid
			record.UpdatedAt = s.clock.Now(ctx)
			if err := s.repo.Update(ctx, tx, record); err != nil {
				return err
			}
		}

		resp = domain.SettleResponse{
			ID:             snowflake.ID(record.ID).String(),
			SettledAmount:  settled,
			Shortfall:      shortfall,
			CarriedBalance: shortfall,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("billing period settled",
		zap.Int64("record_id", recordID),
		zap.Int64("settled_amount", resp.SettledAmount),
		zap.Int64("shortfall", resp.Shortfall),
	)
	return &resp, nil
}

// findOwningRoom resolves the record's room reference. A missing room is an
// integrity breach, not a client not-found; it gets logged and surfaced as
// such.
func (s *Service) findOwningRoom(ctx context.Context, db *gorm.DB, record *domain.BillingRecord) (*roomdomain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, db, record.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		s.log.Error("billing record references a missing room",
			zap.Int64("record_id", record.ID),
			zap.Int64("room_id", record.RoomID),
		)
		return nil, domain.ErrRoomMissing
	}
	return room, nil
}

func (s *Service) buildEntries(recordID int64, reqs []domain.EntryRequest, startPos int, now time.Time) []domain.PaymentEntry {
	entries := make([]domain.PaymentEntry, 0, len(reqs))
	for i, req := range reqs {
		entries = append(entries, domain.PaymentEntry{
			ID:              s.genID.Generate().Int64(),
			BillingRecordID: recordID,
			Position:        startPos + i,
			PaymentDate:     req.PaymentDate,
			AmountPaid:      req.AmountPaid,
			Note:            strings.TrimSpace(req.Note),
			CreatedAt:       now,
		})
	}
	return entries
}

func (s *Service) toResponse(record *domain.BillingRecord, entries []domain.PaymentEntry) domain.Response {
	ledger := make([]domain.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		ledger = append(ledger, domain.EntryResponse{
			PaymentDate: entry.PaymentDate,
			AmountPaid:  entry.AmountPaid,
			Note:        entry.Note,
		})
	}

	settled := domain.SettledAmount(entries)
	return domain.Response{
		ID:             snowflake.ID(record.ID).String(),
		RoomID:         snowflake.ID(record.RoomID).String(),
		ElectricUsage:  record.ElectricUsage,
		WaterUsage:     record.WaterUsage,
		ComputedCharge: record.ComputedCharge,
		Overdue:        record.Overdue,
		Paid:           record.Paid,
		Ledger:         ledger,
		SettledAmount:  settled,
		Shortfall:      record.ComputedCharge - settled,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
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
