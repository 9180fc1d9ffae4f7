package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/ports"
)

// BlockInput is the agenda-block form: all four fields are required before
// submission is allowed. Start and end are not cross-checked for ordering;
// see the pinned-behavior note in DESIGN.md.
type BlockInput struct {
	ProfessionalID string `json:"professional_id" validate:"required"`
	Date           string `json:"date"            validate:"required,datetime=2006-01-02"`
	Start          string `json:"start"           validate:"required,datetime=15:04"`
	End            string `json:"end"             validate:"required,datetime=15:04"`
}

// BlockCreator creates resource-blocking reservations: appointment-shaped
// records with no service and no customer, so the platform treats the
// interval as unavailable.
type BlockCreator struct {
	schedule *ScheduleService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewBlockCreator(schedule *ScheduleService, log zerolog.Logger) *BlockCreator {
	return &BlockCreator{schedule: schedule, validate: validator.New(), log: log}
}

// Create validates the form and submits the block. Nil service and customer
// ids on the wire are the convention that marks the record as a block.
func (b *BlockCreator) Create(ctx context.Context, in BlockInput) error {
	if err := b.validate.Struct(in); err != nil {
		return err
	}

	req := ports.AppointmentRequest{
		ProfessionalID:    in.ProfessionalID,
		BusinessServiceID: nil,
		CustomerID:        nil,
		StartDate:         in.Date + "T" + in.Start + ":00",
		EndDate:           in.Date + "T" + in.End + ":00",
	}

	if err := b.schedule.CreateBlock(ctx, req); err != nil {
		return err
	}

	b.log.Info().
		Str("professional_id", in.ProfessionalID).
		Str("date", in.Date).
		Str("start", in.Start).
		Str("end", in.End).
		Msg("agenda block created")
	return nil
}
