package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/product-option-service/internal/catalog"
	"github.com/fairyhunter13/product-option-service/internal/config"
	httpopenapi "github.com/fairyhunter13/product-option-service/internal/http/openapi"
	"github.com/fairyhunter13/product-option-service/internal/model"
	"github.com/fairyhunter13/product-option-service/internal/obs"
	"github.com/fairyhunter13/product-option-service/internal/queue"
	"github.com/fairyhunter13/product-option-service/internal/store"
)

type App struct {
	Cfg     config.Config
	Store   *store.Store
	Manager *queue.Manager
	Views   *catalog.Service
	closing atomic.Bool
	started time.Time
}

type ack struct {
	Status      string          `json:"status"`
	RequestID   string          `json:"request_id"`
	Sequence    uint64          `json:"sequence"`
	ProductID   string          `json:"product_id"`
	Type        model.EventType `json:"type"`
	EntityID    string          `json:"entity_id,omitempty"`
	ReceivedAt  string          `json:"received_at"`
	QueueDepth  int             `json:"queue_depth"`
	BacklogSize int             `json:"backlog_size"`
	WorkerCount int             `json:"worker_count"`
}

func NewApp(cfg config.Config, st *store.Store, m *queue.Manager) *App {
	return &App{
		Cfg:     cfg,
		Store:   st,
		Manager: m,
		Views:   catalog.NewService(st, cfg.MatrixMaxCombinations),
		started: time.Now(),
	}
}

func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

// entityID names the option set or selection an event touches.
func entityID(ev model.Event) string {
	switch {
	case ev.OptionSet != nil:
		return ev.OptionSet.ID
	case ev.Selection != nil:
		return ev.Selection.ID
	case ev.OptionSetID != "":
		return ev.OptionSetID
	default:
		return ev.SelectionID
	}
}

func (a *App) postEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing.Load() || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var ev model.Event
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	ev.EnsureDefaults()
	if err := ev.Validate(); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	ev, ok := a.Manager.Submit(ev)
	if !ok {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ac := ack{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    ev.Sequence,
		ProductID:   ev.ProductID,
		Type:        ev.Type,
		EntityID:    entityID(ev),
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		QueueDepth:  a.Manager.QueueDepth(),
		BacklogSize: a.Manager.BacklogSize(),
		WorkerCount: a.Manager.WorkerCount(),
	}
	writeJSON(w, http.StatusAccepted, ac)
	obs.Logger.Info("event_accepted",
		"request_id", ac.RequestID,
		"sequence", ac.Sequence,
		"product_id", ac.ProductID,
		"type", ac.Type,
		"entity_id", ac.EntityID,
		"queue_depth", ac.QueueDepth,
		"backlog_size", ac.BacklogSize,
		"worker_count", ac.WorkerCount,
	)
}

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"product_ids": a.Store.ProductIDs()})
}

// productHandler serves /products/{id}, /products/{id}/matrix and
// /products/{id}/nesting.
func (a *App) productHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	rest, ok := strings.CutPrefix(r.URL.Path, "/products/")
	if !ok || rest == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	id, view, _ := strings.Cut(rest, "/")
	if id == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	switch view {
	case "":
		c, ok := a.Store.Get(id)
		if !ok {
			WriteJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		writeJSON(w, http.StatusOK, c)
	case "matrix":
		m, err := a.Views.Matrix(r.Context(), id, r.URL.Query().Get("where"))
		if err != nil {
			writeViewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	case "nesting":
		tree, err := a.Views.Nesting(r.Context(), id)
		if err != nil {
			writeViewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tree)
	default:
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	}
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Manager.QueueMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"events_enqueued":  enq,
		"events_processed": proc,
		"backlog_size":     backlog,
		"queue_depth":      depth,
		"worker_count":     a.Manager.WorkerCount(),
		"product_count":    len(a.Store.ProductIDs()),
		"uptime_sec":       time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Product Option Service API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
