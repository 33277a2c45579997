package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/mindflow/backend/pkg/httpx"
	"github.com/mindflow/backend/pkg/logger"
	pkgvalidator "github.com/mindflow/backend/pkg/validator"
)

type devSessionRequest struct {
	OwnerID string `json:"owner_id" validate:"omitempty,uuid"`
}

type devSessionResponse struct {
	OwnerID uuid.UUID `json:"owner_id"`
}

// DevSessionRoutes mounts POST and DELETE handlers that open and close an
// owner session without a login flow. Development and testing only.
//
// POST takes {"owner_id": "<uuid>"}; an empty object creates a new owner.
func DevSessionRoutes(store sessions.Store, log logger.Logger) (post, del http.HandlerFunc) {
	post = func(w http.ResponseWriter, r *http.Request) {
		req, ok := pkgvalidator.ValidateRequest[devSessionRequest](w, r)
		if !ok {
			return
		}
		ownerID := uuid.New()
		if req.OwnerID != "" {
			ownerID = uuid.MustParse(req.OwnerID)
		}

		if err := StartSession(w, r, store, ownerID); err != nil {
			log.ErrorContext(r.Context(), "dev session start failed", "error", err)
			httpx.JSONError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		log.InfoContext(r.Context(), "dev session started", "owner_id", ownerID)
		httpx.JSON(w, http.StatusCreated, devSessionResponse{OwnerID: ownerID})
	}

	del = func(w http.ResponseWriter, r *http.Request) {
		if err := EndSession(w, r, store); err != nil {
			log.ErrorContext(r.Context(), "dev session end failed", "error", err)
			httpx.JSONError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
	return post, del
}
