package preferences

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	api "github.com/FACorreiaa/go-travel-planner/internal/api"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetPreferencesHandler(w http.ResponseWriter, r *http.Request)
	UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request)
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

func (h *HandlerImpl) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "GetPreferences")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "GetPreferencesHandler"))

	userID, ok := api.UserIDFromRequest(r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	prefs, err := h.service.Get(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get preferences")
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Preferences retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

func (h *HandlerImpl) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "UpdatePreferences")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "UpdatePreferencesHandler"))

	userID, ok := api.UserIDFromRequest(r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.UpdatePreferencesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	prefs, err := h.service.Update(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update preferences")
		api.HandleServiceError(w, r, l, err)
		return
	}
	l.InfoContext(ctx, "Preferences updated", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Preferences updated")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}
