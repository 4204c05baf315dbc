package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
)

// Handler serves GraphQL requests over HTTP POST.
type Handler struct {
	schema graphql.Schema
	logger *common.Logger
}

// NewHandler builds the schema and returns the HTTP handler for it.
func NewHandler(finance interfaces.FinanceService, identity interfaces.IdentityService, logger *common.Logger) (*Handler, error) {
	rs := &resolver{finance: finance, identity: identity, logger: logger}
	schema, err := newSchema(rs)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, logger: logger}, nil
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// ServeHTTP executes one GraphQL request. Resolver errors come back in
// the response's errors array with HTTP 200, per GraphQL convention.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
		return
	}

	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON: " + err.Error()})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.logger.Debug().
			Str("operation", req.OperationName).
			Int("errors", len(result.Errors)).
			Msg("GraphQL request completed with errors")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
