package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/llmwatch/console/internal/charts"
	"github.com/llmwatch/console/internal/console"
	"github.com/llmwatch/console/internal/core"
	"github.com/llmwatch/console/internal/export"
	"github.com/llmwatch/console/internal/filters"
	"github.com/llmwatch/console/internal/logview"
	"github.com/llmwatch/console/internal/websocket"
)

// HealthCheck returns the health status of the console.
func HealthCheck(hub *websocket.Hub, renderer *charts.SpecRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"time":        time.Now().UTC(),
			"surfaces":    hub.GetConnectedClients(),
			"live_charts": renderer.Live(),
		})
	}
}

// GetDashboard loads and returns the dashboard view.
func GetDashboard(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := o.LoadDashboard(r.Context())
		if err != nil {
			if errors.Is(err, console.ErrSuperseded) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type dashboardFilterRequest struct {
	TimeRange *string `json:"time_range,omitempty"`
	Backend   *string `json:"backend,omitempty"`
}

// SetDashboardFilters applies filter changes and returns the reloaded view.
func SetDashboardFilters(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dashboardFilterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		state := o.DashboardFilters()
		if req.TimeRange != nil {
			if err := state.SetTimeRange(filters.TimeRange(*req.TimeRange)); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if req.Backend != nil {
			state.SetBackend(*req.Backend)
		}

		GetDashboard(o)(w, r)
	}
}

// GetChartSpec returns the live inline spec for one chart key.
func GetChartSpec(registry *charts.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		spec, ok := registry.Spec(key)
		if !ok {
			http.Error(w, "No live chart for key: "+key, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, spec)
	}
}

// ExpandChart creates the full-screen instance from the cached payloads.
func ExpandChart(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		spec, err := o.ExpandChart(key)
		if err != nil {
			log.Error().Err(err).Str("chart", key).Msg("Failed to expand chart")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, spec)
	}
}

// DismissFullscreen tears down the full-screen instance.
func DismissFullscreen(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o.DismissFullscreen()
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetMessageLogs loads and returns the logs view.
func GetMessageLogs(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := o.LoadMessageLogs(r.Context())
		if err != nil {
			if errors.Is(err, console.ErrSuperseded) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type logFilterRequest struct {
	TimeRange *string `json:"time_range,omitempty"`
	Backend   *string `json:"backend,omitempty"`
	Model     *string `json:"model,omitempty"`
	DLPAction *string `json:"dlp_action,omitempty"`
	Search    *string `json:"search,omitempty"`
	Page      *int    `json:"page,omitempty"`
}

// SetLogFilters applies filter/page changes and returns the reloaded view.
func SetLogFilters(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logFilterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		state := o.LogFilters()
		if req.TimeRange != nil {
			if err := state.SetTimeRange(filters.TimeRange(*req.TimeRange)); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if req.Backend != nil {
			state.SetBackend(*req.Backend)
		}
		if req.Model != nil {
			state.SetModel(*req.Model)
		}
		if req.DLPAction != nil {
			if err := state.SetDLPAction(filters.Action(*req.DLPAction)); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if req.Search != nil {
			state.SetSearch(*req.Search)
		}
		if req.Page != nil {
			state.SetPage(*req.Page)
		}

		GetMessageLogs(o)(w, r)
	}
}

type tabRequest struct {
	Primary string `json:"primary,omitempty"`
	Sub     string `json:"sub,omitempty"`
}

// SelectCardTab applies a tab or sub-tab selection to one card and returns
// the re-rendered pane.
func SelectCardTab(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid record id", http.StatusBadRequest)
			return
		}

		var req tabRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var pane logview.Pane
		switch {
		case req.Primary != "":
			pane, err = o.SelectTab(r.Context(), id, logview.PrimaryTab(req.Primary))
		case req.Sub != "":
			pane, err = o.SelectSubTab(id, logview.SubTab(req.Sub))
		default:
			http.Error(w, "No tab selection given", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, pane)
	}
}

// CopyCard returns the active tab's content serialized for the clipboard.
func CopyCard(o *console.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid record id", http.StatusBadRequest)
			return
		}

		text, err := o.CopyCard(id)
		if err != nil {
			// Copy failures are diagnostic-only; the surface gets an empty body.
			log.Error().Err(err).Int64("record_id", id).Msg("Copy failed")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(text))
	}
}

// ExportLogs streams the filtered logs in the requested format.
func ExportLogs(o *console.Orchestrator, client core.Client, chunkSize int) http.HandlerFunc {
	exporter := export.NewExporter(client, chunkSize)
	return func(w http.ResponseWriter, r *http.Request) {
		format := export.Format(r.URL.Query().Get("format"))
		if format == "" {
			format = export.FormatJSON
		}

		switch format {
		case export.FormatCSV:
			w.Header().Set("Content-Type", "text/csv")
		case export.FormatJSON:
			w.Header().Set("Content-Type", "application/json")
		default:
			http.Error(w, "Unsupported export format: "+string(format), http.StatusBadRequest)
			return
		}

		result, err := exporter.Export(r.Context(), w, o.ExportQuery(), format)
		if err != nil {
			log.Error().Err(err).Msg("Export failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		log.Info().
			Int("rows", result.RowCount).
			Str("format", string(result.Format)).
			Dur("elapsed", result.Duration).
			Msg("Logs exported")
	}
}

// GetBackends returns the backend identifiers known to the core service.
func GetBackends(client core.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backends, err := client.Backends(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"backends": backends, "count": len(backends)})
	}
}

// GetModels returns the model identifiers known to the core service.
func GetModels(client core.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models, err := client.Models(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"models": models, "count": len(models)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
