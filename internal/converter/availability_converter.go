package converter

import (
	"time"

	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/scheduling"

	"github.com/google/uuid"
)

// SlotsToResponse converts computed slots to the availability response
func SlotsToResponse(doctorID uuid.UUID, date time.Time, slots []scheduling.Slot) *dto.SlotListResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.SlotResponse{
			Date:      slot.Start.Format("2006-01-02"),
			StartTime: slot.Start.Format("15:04"),
			EndTime:   slot.End.Format("15:04"),
		}
	}
	return &dto.SlotListResponse{
		DoctorID: doctorID,
		Date:     date.Format("2006-01-02"),
		Slots:    responses,
		Total:    len(responses),
	}
}

// TemplatesToResponse converts weekly template entries
func TemplatesToResponse(templates []entity.AvailabilityTemplate) *dto.TemplateListResponse {
	responses := make([]dto.TemplateEntryResponse, len(templates))
	for i, template := range templates {
		responses[i] = dto.TemplateEntryResponse{
			ID:          template.ID,
			DoctorID:    template.DoctorID,
			DayOfWeek:   template.DayOfWeek,
			StartTime:   template.StartTime,
			EndTime:     template.EndTime,
			IsAvailable: template.IsAvailable,
			UpdatedAt:   template.UpdatedAt,
		}
	}
	return &dto.TemplateListResponse{
		Entries: responses,
		Total:   len(responses),
	}
}
