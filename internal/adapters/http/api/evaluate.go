package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/scoring"
	"github.com/okian/peloton/pkg/logger"
)

// EvaluateDependencies score free-form attributes and reload the league.
type EvaluateDependencies interface {
	Assess(attrs map[string]string) scoring.Assessment
	Reload(ctx context.Context) (league.Report, error)
}

// EvaluateHandler handles ad-hoc evaluation and dataset reloads.
type EvaluateHandler struct {
	deps EvaluateDependencies
	rep  reporter
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies, l logger.Logger) *EvaluateHandler {
	return &EvaluateHandler{deps: deps, rep: reporter{logger: l}}
}

// HandleArchetypes lists the riding styles in tie-break order.
func (h *EvaluateHandler) HandleArchetypes(w http.ResponseWriter, _ *http.Request) {
	all := archetype.All()
	labels := make([]string, 0, len(all))
	for _, a := range all {
		labels = append(labels, a.String())
	}
	writeJSON(w, http.StatusOK, labels)
}

// HandleEvaluate scores a JSON object of rider attributes. Numbers and
// strings are both accepted as values.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		h.rep.fail(w, r, op, err)
		return
	}
	attrs := make(map[string]string, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case nil:
			attrs[k] = ""
		case string:
			attrs[k] = t
		case float64:
			attrs[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			attrs[k] = strconv.FormatBool(t)
		default:
			h.rep.fail(w, r, op, WrapKind(op, ErrBadRequest, fmt.Errorf("attribute %q is not a scalar", k)))
			return
		}
	}
	writeJSON(w, http.StatusOK, h.deps.Assess(attrs))
}

type reloadResponse struct {
	Status string        `json:"status"`
	Report league.Report `json:"report"`
}

// HandleReload re-reads the league tables and re-evaluates every rider.
func (h *EvaluateHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.Reload(r.Context())
	if err != nil {
		h.rep.fail(w, r, "api.reload", err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded", Report: rep})
}
