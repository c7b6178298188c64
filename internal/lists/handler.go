package lists

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tasklight/tasklight/internal/httpx"
	"github.com/tasklight/tasklight/internal/middleware"
)

const msgListsFailed = "Failed to process list request."

// Handler holds the lists HTTP handlers. Both routes run behind
// middleware.RequireAuth, which guarantees a user id in the context.
type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Get handles GET /lists.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	set, err := h.svc.GetLists(r.Context(), userID)
	if err != nil {
		h.log.Error("get lists failed", "user_id", userID, "error", err)
		httpx.Error(w, http.StatusInternalServerError, msgListsFailed)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"lists": set})
}

// Put handles PUT /lists: normalize, replace wholesale, echo the persisted
// form.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Lists interface{} `json:"lists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	set, err := h.svc.SaveLists(r.Context(), userID, body.Lists)
	if err != nil {
		h.log.Error("save lists failed", "user_id", userID, "error", err)
		httpx.Error(w, http.StatusInternalServerError, msgListsFailed)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"lists": set})
}
