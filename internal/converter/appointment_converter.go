package converter

import (
	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to its response DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:               appointment.ID,
		PatientID:        appointment.PatientID,
		DoctorID:         appointment.DoctorID,
		AppointmentDate:  appointment.AppointmentDate,
		DurationMinutes:  appointment.DurationMinutes,
		ConsultationType: string(appointment.ConsultationType),
		Symptoms:         appointment.Symptoms,
		Fee:              appointment.Fee,
		Status:           string(appointment.Status),
		PaymentStatus:    string(appointment.PaymentStatus),
		PaymentID:        appointment.PaymentID,
		Notes:            appointment.Notes,
		Diagnosis:        appointment.Diagnosis,
		PrescriptionRef:  appointment.PrescriptionRef,
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}

	// Include doctor info if preloaded
	if appointment.Doctor.UserID != uuid.Nil {
		response.Doctor = &dto.DoctorResponse{
			ID:              appointment.Doctor.UserID,
			FullName:        appointment.Doctor.FullName,
			Specialization:  appointment.Doctor.Specialization,
			ConsultationFee: appointment.Doctor.ConsultationFee,
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
