package handler

import (
	"encoding/json"
	"net/http"

	"bookable/internal/sellers/service"
	httputil "bookable/pkg/http"
	"bookable/pkg/logger"
	"bookable/pkg/middleware"
	"bookable/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SellerHandler struct {
	service service.SellerService
	log     *logger.Logger
}

func NewSellerHandler(service service.SellerService, log *logger.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		log:     log,
	}
}

// GetAll is the public seller directory.
func (h *SellerHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	sellers, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, sellers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *SellerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seller, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, seller); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *SellerHandler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		h.writeError(w, "GetProfile", err)
		return
	}

	seller, err := h.service.GetByOwner(r.Context(), identity)
	if err != nil {
		h.writeError(w, "GetProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, seller); err != nil {
		h.log.Error("failed to write success response", "handler", "GetProfile", "error", err)
	}
}

func (h *SellerHandler) UpsertProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, err := middleware.IdentityFrom(r.Context())
	if err != nil {
		h.writeError(w, "UpsertProfile", err)
		return
	}

	var profile model.SellerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertProfile", "error", writeErr)
		}
		return
	}

	seller, err := h.service.Upsert(r.Context(), identity, &profile)
	if err != nil {
		h.writeError(w, "UpsertProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, seller); err != nil {
		h.log.Error("failed to write success response", "handler", "UpsertProfile", "error", err)
	}
}

func (h *SellerHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *SellerHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/sellers", h.GetAll)
	router.GET("/api/v1/sellers/id/:id", h.GetByID)
	router.GET("/api/v1/sellers/me", h.GetProfile)
	router.PUT("/api/v1/sellers/me", h.UpsertProfile)
}
