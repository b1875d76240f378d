package handler

import (
	"encoding/json"
	"net/http"

	"bookable/internal/availability/service"
	httputil "bookable/pkg/http"
	"bookable/pkg/logger"
	"bookable/pkg/middleware"
	"bookable/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

type putRequest struct {
	Slots []model.TimeSlot `json:"slots"`
}

// GetForSeller is the public view buyers browse before booking.
func (h *AvailabilityHandler) GetForSeller(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.ExtractDate(r)
	if err != nil {
		h.writeError(w, "GetForSeller", err)
		return
	}

	availability, err := h.service.GetForSeller(r.Context(), ps.ByName("id"), date)
	if err != nil {
		h.writeError(w, "GetForSeller", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetForSeller", "error", err)
	}
}

func (h *AvailabilityHandler) GetForOwner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		h.writeError(w, "GetForOwner", err)
		return
	}
	date, err := httputil.ExtractDate(r)
	if err != nil {
		h.writeError(w, "GetForOwner", err)
		return
	}

	availability, err := h.service.GetForOwner(r.Context(), identity, date)
	if err != nil {
		h.writeError(w, "GetForOwner", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetForOwner", "error", err)
	}
}

func (h *AvailabilityHandler) Put(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		h.writeError(w, "Put", err)
		return
	}
	date, err := httputil.ExtractDate(r)
	if err != nil {
		h.writeError(w, "Put", err)
		return
	}

	var body putRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "error", writeErr)
		}
		return
	}

	availability, err := h.service.Put(r.Context(), identity, date, body.Slots)
	if err != nil {
		h.writeError(w, "Put", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "error", err)
	}
}

func (h *AvailabilityHandler) Suggest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		h.writeError(w, "Suggest", err)
		return
	}
	date, err := httputil.ExtractDate(r)
	if err != nil {
		h.writeError(w, "Suggest", err)
		return
	}

	availability, err := h.service.Suggest(r.Context(), identity, date)
	if err != nil {
		h.writeError(w, "Suggest", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Suggest", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sellers/id/:id/availability", h.GetForSeller)
	router.GET("/api/v1/availability", h.GetForOwner)
	router.PUT("/api/v1/availability", h.Put)
	router.GET("/api/v1/availability/suggest", h.Suggest)
}
