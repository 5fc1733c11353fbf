package routers

import (
	"mediconnect-service/internal/app/delivery/http/controllers"
	"mediconnect-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachLifecycleRoutes(router chi.Router, middlewares *middlewares.Middlewares, lifecycleController *controllers.LifecycleController) {
	router.With(middlewares.RequireSweeperSecret).Post("/lifecycle/sweep", lifecycleController.Sweep)
}
