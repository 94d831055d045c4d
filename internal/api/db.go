package api

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-overlay/internal/store"
)

// DBHandler exposes the persistence layer: DuckDB introspection plus the
// persisted layer records behind each session.
type DBHandler struct {
	db    *sql.DB
	store *store.Store
}

// NewDBHandler creates a new database handler. Both arguments may be
// nil when persistence is unavailable; the routes then return 503.
func NewDBHandler(db *sql.DB, st *store.Store) *DBHandler {
	return &DBHandler{db: db, store: st}
}

// RegisterRoutes registers database routes with Huma.
func (h *DBHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/tables", h.ListTables, huma.OperationTags("storage"))
	huma.Post(api, "/api/v1/query", h.Query, huma.OperationTags("storage"))
	huma.Get(api, "/api/v1/sessions/{session}/storage", h.SessionStorage, huma.OperationTags("storage"))
}

// TablesOutput is the response for listing tables.
type TablesOutput struct {
	Body struct {
		Tables []string `json:"tables" doc:"List of table names"`
	}
}

// ListTables returns all DuckDB tables.
func (h *DBHandler) ListTables(ctx context.Context, input *struct{}) (*TablesOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}

	rows, err := h.db.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list tables", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			tables = append(tables, name)
		}
	}

	out := &TablesOutput{}
	out.Body.Tables = tables
	return out, nil
}

// QueryInput is the input for SQL queries.
type QueryInput struct {
	Body struct {
		Query string `json:"query" required:"true" doc:"SQL query to execute"`
	}
}

// QueryOutput is the response for SQL queries.
type QueryOutput struct {
	Body struct {
		Columns []string         `json:"columns" doc:"Column names"`
		Rows    []map[string]any `json:"rows" doc:"Query results"`
		Count   int              `json:"count" doc:"Number of rows returned"`
	}
}

// Query executes a SQL query against DuckDB.
func (h *DBHandler) Query(ctx context.Context, input *QueryInput) (*QueryOutput, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}

	rows, err := h.db.QueryContext(ctx, input.Body.Query)
	if err != nil {
		return nil, huma.Error400BadRequest("Query failed: " + err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get columns", err)
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			continue
		}
		row := make(map[string]any)
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	out := &QueryOutput{}
	out.Body.Columns = columns
	out.Body.Rows = results
	out.Body.Count = len(results)
	return out, nil
}

// StoredLayer is a persisted layer record in wire form.
type StoredLayer struct {
	ID       string          `json:"id" doc:"Layer ID"`
	Kind     string          `json:"kind" doc:"Layer kind"`
	Spec     json.RawMessage `json:"spec" doc:"Layer spec as submitted"`
	Geometry json.RawMessage `json:"geometry,omitempty" doc:"Layer geometry as GeoJSON"`
}

// StorageOutput is the response for a session's persisted layers.
type StorageOutput struct {
	Body struct {
		Session string        `json:"session" doc:"Session ID"`
		Layers  []StoredLayer `json:"layers" doc:"Persisted layer records"`
	}
}

// SessionStorage returns the persisted layer records for a session.
func (h *DBHandler) SessionStorage(ctx context.Context, input *SessionIDInput) (*StorageOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}

	recs, err := h.store.Layers(input.Session)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load layers", err)
	}

	layers := make([]StoredLayer, 0, len(recs))
	for _, rec := range recs {
		sl := StoredLayer{ID: rec.ID, Kind: rec.Kind, Spec: json.RawMessage(rec.Spec)}
		if rec.Geometry != "" {
			sl.Geometry = json.RawMessage(rec.Geometry)
		}
		layers = append(layers, sl)
	}

	out := &StorageOutput{}
	out.Body.Session = input.Session
	out.Body.Layers = layers
	return out, nil
}
