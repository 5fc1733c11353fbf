package controllers

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/exceptions"
	"mediconnect-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const sweepRequestTimeout = 2 * time.Minute

type LifecycleController struct {
	Log              *zap.Logger
	LifecycleSweeper contracts.LifecycleSweeper
}

func NewLifecycleController(logger *zap.Logger, lifecycleSweeper contracts.LifecycleSweeper) *LifecycleController {
	return &LifecycleController{
		Log:              logger,
		LifecycleSweeper: lifecycleSweeper,
	}
}

func (ctrl *LifecycleController) Sweep(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("LifecycleController.Sweep called",
		zap.String(constvars.LoggingRequestIDKey, requestID))

	ctx, cancel := context.WithTimeout(r.Context(), sweepRequestTimeout)
	defer cancel()

	response, err := ctrl.LifecycleSweeper.Sweep(ctx)
	if err != nil {
		ctrl.Log.Error("LifecycleController.Sweep LifecycleSweeper.Sweep error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("LifecycleController.Sweep succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingProcessedKey, response.Processed))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SweepLifecycleSuccessMessage, response)
}
