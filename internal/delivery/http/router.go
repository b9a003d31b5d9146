package http

import (
	"net/http"

	"go-teleconsult-booking/internal/delivery/http/handler"
	"go-teleconsult-booking/internal/delivery/http/middleware"
	"go-teleconsult-booking/pkg/jwt"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	paymentHandler      *handler.PaymentHandler
	videoHandler        *handler.VideoHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	paymentHandler *handler.PaymentHandler,
	videoHandler *handler.VideoHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		paymentHandler:      paymentHandler,
		videoHandler:        videoHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything else requires an authenticated caller
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Availability
	protected.HandleFunc("/availability", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{doctorId}/availability", r.availabilityHandler.GetTemplate).Methods(http.MethodGet)

	// Weekly template management (doctor only)
	doctorOnly := protected.PathPrefix("/doctors/me").Subrouter()
	doctorOnly.Use(middleware.RequireRole(jwt.RoleDoctor))
	doctorOnly.HandleFunc("/availability", r.availabilityHandler.PutTemplate).Methods(http.MethodPut)

	// Appointments
	protected.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	patientOnly := protected.PathPrefix("/appointments").Subrouter()
	patientOnly.Use(middleware.RequireRole(jwt.RolePatient))
	patientOnly.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)

	// Payment gate
	protected.HandleFunc("/appointments/{id}/payment/confirm", r.paymentHandler.ConfirmPayment).Methods(http.MethodPost)

	// Video session
	protected.HandleFunc("/appointments/{id}/video/admission", r.videoHandler.GetAdmission).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/video/start", r.videoHandler.StartCall).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/video/join", r.videoHandler.JoinCall).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/video/leave", r.videoHandler.LeaveCall).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/video/end", r.videoHandler.EndCall).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
