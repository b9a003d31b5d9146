package handler

import (
	"net/http"

	"go-teleconsult-booking/internal/delivery/http/middleware"
	"go-teleconsult-booking/internal/usecase"
	"go-teleconsult-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type VideoHandler struct {
	videoUsecase usecase.VideoUsecase
}

func NewVideoHandler(videoUsecase usecase.VideoUsecase) *VideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase}
}

func (h *VideoHandler) appointmentAndCaller(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return uuid.Nil, uuid.Nil, false
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid appointment ID", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return appointmentID, userID, true
}

// GetAdmission handles GET /appointments/{id}/video/admission, giving the UI
// the join verdict and countdown reason without side effects.
func (h *VideoHandler) GetAdmission(w http.ResponseWriter, r *http.Request) {
	appointmentID, userID, ok := h.appointmentAndCaller(w, r)
	if !ok {
		return
	}

	verdict, err := h.videoUsecase.CanJoin(r.Context(), appointmentID, userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Admission evaluated", verdict)
}

// StartCall handles POST /appointments/{id}/video/start
func (h *VideoHandler) StartCall(w http.ResponseWriter, r *http.Request) {
	appointmentID, userID, ok := h.appointmentAndCaller(w, r)
	if !ok {
		return
	}

	session, err := h.videoUsecase.StartCall(r.Context(), appointmentID, userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Video session started", session)
}

// JoinCall handles POST /appointments/{id}/video/join
func (h *VideoHandler) JoinCall(w http.ResponseWriter, r *http.Request) {
	appointmentID, userID, ok := h.appointmentAndCaller(w, r)
	if !ok {
		return
	}

	session, err := h.videoUsecase.JoinCall(r.Context(), appointmentID, userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Joined video session", session)
}

// LeaveCall handles POST /appointments/{id}/video/leave
func (h *VideoHandler) LeaveCall(w http.ResponseWriter, r *http.Request) {
	appointmentID, userID, ok := h.appointmentAndCaller(w, r)
	if !ok {
		return
	}

	if err := h.videoUsecase.LeaveCall(r.Context(), appointmentID, userID); err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Left video session", nil)
}

// EndCall handles POST /appointments/{id}/video/end
func (h *VideoHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	appointmentID, userID, ok := h.appointmentAndCaller(w, r)
	if !ok {
		return
	}

	session, err := h.videoUsecase.EndCall(r.Context(), appointmentID, userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Video session ended", session)
}
