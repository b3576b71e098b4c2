package dto

import (
	"time"

	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// SlotDTO is the public view of a slot; the holder is never exposed.
type SlotDTO struct {
	ID     string    `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Mode   string    `json:"mode"`
}

func NewSlotDTO(s models.Slot) SlotDTO {
	return SlotDTO{
		ID:     s.ID,
		Start:  s.Start,
		End:    s.End,
		Status: string(s.Status),
		Mode:   string(s.Mode),
	}
}

func NewSlotDTOs(slots []models.Slot) []SlotDTO {
	out := make([]SlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, NewSlotDTO(s))
	}
	return out
}
