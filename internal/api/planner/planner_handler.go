package planner

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	api "github.com/FACorreiaa/go-travel-planner/internal/api"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreatePlanHandler(w http.ResponseWriter, r *http.Request)
	ListPlansHandler(w http.ResponseWriter, r *http.Request)
	GetPlanHandler(w http.ResponseWriter, r *http.Request)
	GetPlanStatusHandler(w http.ResponseWriter, r *http.Request)
	UpdatePlanHandler(w http.ResponseWriter, r *http.Request)
	DeletePlanHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// requireUser writes 401 and returns false when the request has no valid user.
func (h *HandlerImpl) requireUser(w http.ResponseWriter, r *http.Request, span trace.Span) (uuid.UUID, bool) {
	userID, ok := api.UserIDFromRequest(r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized - User ID missing")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))
	return userID, true
}

func (h *HandlerImpl) planIDParam(w http.ResponseWriter, r *http.Request, span trace.Span) (uuid.UUID, bool) {
	planID, err := api.URLParamUUID(r, "planID")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid plan ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid plan ID format")
		return uuid.Nil, false
	}
	span.SetAttributes(attribute.String("plan.id", planID.String()))
	return planID, true
}

func (h *HandlerImpl) CreatePlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "CreatePlan")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "CreatePlanHandler"))

	userID, ok := h.requireUser(w, r, span)
	if !ok {
		return
	}

	var req types.TravelRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode travel request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.GeneratePlan(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate plan")
		api.HandleServiceError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Plan created")
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

func (h *HandlerImpl) ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "ListPlans")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.requireUser(w, r, span)
	if !ok {
		return
	}

	p := api.ParsePagination(r)
	plans, err := h.service.ListPlans(ctx, userID, p.Page, p.PageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list plans")
		api.HandleServiceError(w, r, h.logger, err)
		return
	}

	span.SetStatus(codes.Ok, "Plans listed")
	api.WriteJSONResponse(w, r, http.StatusOK, plans)
}

func (h *HandlerImpl) GetPlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GetPlan")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.requireUser(w, r, span)
	if !ok {
		return
	}
	planID, ok := h.planIDParam(w, r, span)
	if !ok {
		return
	}

	plan, err := h.service.GetPlan(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get plan")
		api.HandleServiceError(w, r, h.logger, err)
		return
	}

	span.SetStatus(codes.Ok, "Plan retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

func (h *HandlerImpl) GetPlanStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GetPlanStatus")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.requireUser(w, r, span)
	if !ok {
		return
	}
	planID, ok := h.planIDParam(w, r, span)
	if !ok {
		return
	}

	status, err := h.service.GetPlanStatus(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get plan status")
		api.HandleServiceError(w, r, h.logger, err)
		return
	}

	span.SetStatus(codes.Ok, "Status retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, status)
}

func (h *HandlerImpl) UpdatePlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "UpdatePlan")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.requireUser(w, r, span)
	if !ok {
		return
	}
	planID, ok := h.planIDParam(w, r, span)
	if !ok {
		return
	}

	var patch types.UpdateTravelPlanRequest
	if err := api.DecodeJSONBody(w, r, &patch); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.UpdatePlan(ctx, userID, planID, patch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update plan")
		api.HandleServiceError(w, r, h.logger, err)
		return
	}

	span.SetStatus(codes.Ok, "Plan updated")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

func (h *HandlerImpl) DeletePlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "DeletePlan")
	defer span.End()
	r = r.WithContext(ctx)

	userID, ok := h.requireUser(w, r, span)
	if !ok {
		return
	}
	planID, ok := h.planIDParam(w, r, span)
	if !ok {
		return
	}

	if err := h.service.DeletePlan(ctx, userID, planID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete plan")
		api.HandleServiceError(w, r, h.logger, err)
		return
	}

	span.SetStatus(codes.Ok, "Plan deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
