package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/localhub/internal/app/system/sqldb"
	"github.com/dalemusser/localhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB    *gorm.DB
	Mongo *mongo.Client // nil when the audit store is not configured
	Log   *zap.Logger
}

// NewHandler constructs a health Handler. client may be nil.
func NewHandler(db *gorm.DB, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Mongo: client,
		Log:   logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Audit    string `json:"audit,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "audit":"connected" }
//
// On failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
//
// "audit" is omitted when no Mongo client is configured.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	resp := healthResponse{Status: "ok", Database: "connected"}

	if err := sqldb.Ping(ctx, h.DB); err != nil {
		h.Log.Error("health-check: sql ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
	}

	if h.Mongo != nil {
		resp.Audit = "connected"
		if err := h.Mongo.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			resp.Audit = "disconnected"
			if resp.Status == "ok" {
				resp.Status = "error"
				resp.Message = "Audit store unavailable"
				resp.Error = err.Error()
			}
		}
	}

	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
