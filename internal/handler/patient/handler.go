package patient

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-records/internal/handler"
	"github.com/jwalitptl/patient-records/internal/middleware"
	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/procedure"
	"github.com/jwalitptl/patient-records/internal/repository"
	apperrors "github.com/jwalitptl/patient-records/pkg/errors"
	"github.com/jwalitptl/patient-records/pkg/logger"
)

// Handler adapts the patient procedures to HTTP. It owns no
// authorization logic: the transport only delivers a parsed input and
// the resolved identity, and serializes the typed result or error kind
// back to the caller.
type Handler struct {
	procs      *procedure.Patients
	outboxRepo repository.OutboxRepository
	logger     *logger.Logger
}

func NewHandler(procs *procedure.Patients, outboxRepo repository.OutboxRepository, logger *logger.Logger) *Handler {
	return &Handler{
		procs:      procs,
		outboxRepo: outboxRepo,
		logger:     logger.WithComponent("handler.patient"),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.POST("", h.CreatePatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	var req model.ListPatientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handler.RespondError(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	result, err := h.procs.GetAll(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := patientID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	patient, err := h.procs.GetByID(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	patient, err := h.procs.Create(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.recordEvent(c, model.EventPatientCreate, patient)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := patientID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.InvalidInput(err.Error(), err))
		return
	}

	patient, err := h.procs.Update(c.Request.Context(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.recordEvent(c, model.EventPatientUpdate, patient)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := patientID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	patient, err := h.procs.Delete(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.recordEvent(c, model.EventPatientDelete, patient)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func patientID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid patient id", err)
	}
	return id, nil
}

// recordEvent writes the mutation to the outbox for the worker to
// publish. Event failures never fail the request that caused them.
func (h *Handler) recordEvent(c *gin.Context, eventType string, patient *model.Patient) {
	payload, err := json.Marshal(patient)
	if err != nil {
		h.logger.Error(err, "failed to marshal patient for event", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{EventType: eventType, Payload: payload}
	if err := h.outboxRepo.Create(c.Request.Context(), event); err != nil {
		h.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}
