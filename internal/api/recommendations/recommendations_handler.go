package recommendations

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	api "github.com/FACorreiaa/go-travel-planner/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetFlightsHandler(w http.ResponseWriter, r *http.Request)
	GetAccommodationsHandler(w http.ResponseWriter, r *http.Request)
	GetRecommendationsHandler(w http.ResponseWriter, r *http.Request)
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

func forceRefresh(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return err == nil && v
}

func (h *HandlerImpl) GetFlightsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationsHandler").Start(r.Context(), "GetFlights")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "GetFlightsHandler"))

	userID, ok := api.UserIDFromRequest(r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	planID, err := api.URLParamUUID(r, "planID")
	if err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid plan ID format")
		return
	}
	refresh := forceRefresh(r)
	span.SetAttributes(attribute.String("plan.id", planID.String()), attribute.Bool("refresh", refresh))

	res, err := h.service.GetFlights(ctx, userID, planID, refresh)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get flights")
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Flights retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

func (h *HandlerImpl) GetAccommodationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationsHandler").Start(r.Context(), "GetAccommodations")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "GetAccommodationsHandler"))

	userID, ok := api.UserIDFromRequest(r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	planID, err := api.URLParamUUID(r, "planID")
	if err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid plan ID format")
		return
	}
	refresh := forceRefresh(r)
	span.SetAttributes(attribute.String("plan.id", planID.String()), attribute.Bool("refresh", refresh))

	res, err := h.service.GetAccommodations(ctx, userID, planID, refresh)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get accommodations")
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Accommodations retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

func (h *HandlerImpl) GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationsHandler").Start(r.Context(), "GetRecommendations")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "GetRecommendationsHandler"))

	userID, ok := api.UserIDFromRequest(r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	planID, err := api.URLParamUUID(r, "planID")
	if err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	res, err := h.service.GetAll(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get recommendations")
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Recommendations retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}
