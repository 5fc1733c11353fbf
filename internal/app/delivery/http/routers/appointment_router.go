package routers

import (
	"mediconnect-service/internal/app/delivery/http/controllers"
	"mediconnect-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.With(middlewares.Authenticate).Post("/", appointmentController.CreateAppointment)
	router.With(middlewares.Authenticate).Post("/cancel", appointmentController.CancelAppointment)
	router.With(middlewares.Authenticate).Get("/{appointmentId}", appointmentController.GetAppointment)
	router.With(middlewares.Authenticate).Post("/{appointmentId}/arrive", appointmentController.MarkArrived)
	router.With(middlewares.RequireSweeperSecret).Post("/{appointmentId}/complete", appointmentController.CompleteAppointment)
}
