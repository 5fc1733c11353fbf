package controllers

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/dto/requests"
	"mediconnect-service/internal/pkg/exceptions"
	"mediconnect-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	bookingRequestTimeout = 30 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
}

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase) *AppointmentController {
	return &AppointmentController{
		Log:                logger,
		AppointmentUsecase: appointmentUsecase,
	}
}

func (ctrl *AppointmentController) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, patientID, ok := ctrl.callerFromContext(w, r, "CreateAppointment")
	if !ok {
		return
	}

	ctrl.Log.Info("AppointmentController.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID))

	request := new(requests.CreateAppointment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("AppointmentController.CreateAppointment error parsing request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeCreateAppointmentRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("AppointmentController.CreateAppointment validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingRequestTimeout)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.CreateAppointment(ctx, patientID, request)
	if err != nil {
		ctrl.respondUsecaseError(w, requestID, "CreateAppointment", err)
		return
	}

	ctrl.Log.Info("AppointmentController.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, response.AppointmentID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CreateAppointmentSuccessMessage, response)
}

func (ctrl *AppointmentController) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, patientID, ok := ctrl.callerFromContext(w, r, "CancelAppointment")
	if !ok {
		return
	}

	ctrl.Log.Info("AppointmentController.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID))

	request := new(requests.CancelAppointment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("AppointmentController.CancelAppointment error parsing request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeCancelAppointmentRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("AppointmentController.CancelAppointment validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingRequestTimeout)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.CancelAppointment(ctx, patientID, request)
	if err != nil {
		ctrl.respondUsecaseError(w, requestID, "CancelAppointment", err)
		return
	}

	message := constvars.CancelAppointmentSuccessMessage
	if response.AlreadyCancelled {
		message = constvars.AlreadyCancelledSuccessMessage
	}

	ctrl.Log.Info("AppointmentController.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, response.AppointmentID),
		zap.String(constvars.LoggingStatusKey, response.Status))
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, response)
}

func (ctrl *AppointmentController) GetAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, patientID, ok := ctrl.callerFromContext(w, r, "GetAppointment")
	if !ok {
		return
	}

	appointmentID := chi.URLParam(r, constvars.URLParamAppointmentID)
	ctrl.Log.Info("AppointmentController.GetAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID))

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.GetAppointment(ctx, patientID, appointmentID)
	if err != nil {
		ctrl.respondUsecaseError(w, requestID, "GetAppointment", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAppointmentSuccessMessage, response)
}

func (ctrl *AppointmentController) MarkArrived(w http.ResponseWriter, r *http.Request) {
	requestID, patientID, ok := ctrl.callerFromContext(w, r, "MarkArrived")
	if !ok {
		return
	}

	appointmentID := chi.URLParam(r, constvars.URLParamAppointmentID)
	ctrl.Log.Info("AppointmentController.MarkArrived called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID))

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.MarkArrived(ctx, patientID, appointmentID)
	if err != nil {
		ctrl.respondUsecaseError(w, requestID, "MarkArrived", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.MarkArrivedSuccessMessage, response)
}

// CompleteAppointment is called by the doctor console with the shared secret,
// so there is no patient identity to check.
func (ctrl *AppointmentController) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	appointmentID := chi.URLParam(r, constvars.URLParamAppointmentID)

	ctrl.Log.Info("AppointmentController.CompleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID))

	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	response, err := ctrl.AppointmentUsecase.CompleteAppointment(ctx, appointmentID)
	if err != nil {
		ctrl.respondUsecaseError(w, requestID, "CompleteAppointment", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CompleteAppointmentSuccessMessage, response)
}

func (ctrl *AppointmentController) callerFromContext(w http.ResponseWriter, r *http.Request, method string) (string, string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("AppointmentController." + method + " requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", "", false
	}

	patientID := utils.GetPatientID(r.Context())
	if patientID == "" {
		ctrl.Log.Error("AppointmentController."+method+" patientID not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID))
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingPatientID(nil))
		return "", "", false
	}
	return requestID, patientID, true
}

func (ctrl *AppointmentController) respondUsecaseError(w http.ResponseWriter, requestID, method string, err error) {
	ctrl.Log.Error("AppointmentController."+method+" AppointmentUsecase error",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err))

	if err == context.DeadlineExceeded {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}
