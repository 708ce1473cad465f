package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/plate-changer/internal/inventory"
	"github.com/eugenenazirov/plate-changer/internal/planner"
	"github.com/eugenenazirov/plate-changer/internal/units"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Planner computes plate change recommendations.
type Planner interface {
	Plan(req planner.Request) (planner.Result, error)
	Catalogue() inventory.Catalogue
}

// Handler wires planner and inventory storage dependencies into HTTP handlers.
type Handler struct {
	planner Planner
	storage inventory.Storage

	clock func() time.Time

	mu                 sync.RWMutex
	inventoryUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(p Planner, store inventory.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		planner: p,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.inventoryUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPlates(w http.ResponseWriter, r *http.Request) {
	_ = r
	c := h.planner.Catalogue()
	resp := platesResponse{
		BarKg:    kgNumber(c.BarKg()),
		PlatesKg: kgNumbers(c.PlatesKg()),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	_ = r
	totals, err := h.storage.GetTotals()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := inventoryResponse{
		Inventory: inventory.ToMap(h.planner.Catalogue(), totals),
		UpdatedAt: h.currentInventoryUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Inventory) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid inventory", "inventory must contain at least one plate")
		return
	}

	c := h.planner.Catalogue()
	raw := rawTotals(req.Inventory)
	totals, err := h.storage.Update(func(current []int) ([]int, error) {
		return inventory.Resolve(c, raw, current)
	})
	if err != nil {
		var entryErr *inventory.EntryError
		switch {
		case errors.As(err, &entryErr):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "Invalid inventory",
				Details: err.Error(),
				Kind:    string(planner.KindInvalidInventory),
				Plate:   entryErr.Plate,
			})
		case errors.Is(err, inventory.ErrInvalidTotals):
			writeError(w, http.StatusBadRequest, "Invalid inventory", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	h.markInventoryUpdated()

	resp := inventoryResponse{
		Inventory: inventory.ToMap(c, totals),
		UpdatedAt: h.currentInventoryUpdatedAt(),
		Message:   "Inventory updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	totals, err := h.storage.GetTotals()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	start := time.Now()
	result, planErr := h.planner.Plan(planner.Request{
		CurrentKg: string(req.CurrentKg),
		DesiredKg: string(req.DesiredKg),
		Inventory: rawTotals(req.Inventory),
		Totals:    totals,
	})
	elapsed := time.Since(start)

	if planErr != nil {
		writePlanError(w, planErr)
		return
	}

	resp := transitionResponse{
		BarKg:             kgNumber(result.BarKg),
		CurrentKg:         kgNumber(result.CurrentKg),
		DesiredKg:         kgNumber(result.DesiredKg),
		Operations:        result.Operations,
		Unchanged:         result.Unchanged(),
		Current:           newLoadResponse(result.Current),
		Desired:           newLoadResponse(result.Desired),
		Remove:            newMoveResponses(result.Remove),
		Add:               newMoveResponses(result.Add),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePlanError(w http.ResponseWriter, err error) {
	var planErr *planner.Error
	if !errors.As(err, &planErr) {
		writeInternalError(w, err)
		return
	}

	resp := errorResponse{
		Error:   "Invalid request",
		Details: planErr.Error(),
		Kind:    string(planErr.Kind),
		Side:    planErr.Side.String(),
		Plate:   planErr.Plate,
	}
	status := http.StatusBadRequest
	switch planErr.Kind {
	case planner.KindInvalidInventory:
		resp.Error = "Invalid inventory"
	case planner.KindUnreachable:
		status = http.StatusUnprocessableEntity
		resp.Error = "Cannot load exactly"
		resp.Suggestion = fmt.Sprintf("Add plates to the inventory or pick a different %s weight", planErr.Side)
	case planner.KindInternal:
		status = http.StatusInternalServerError
		resp.Error = "Internal error"
	}
	writeJSON(w, status, resp)
}

func (h *Handler) currentInventoryUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.inventoryUpdatedAt
}

func (h *Handler) markInventoryUpdated() {
	h.mu.Lock()
	h.inventoryUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// flexValue accepts either a JSON number or a JSON string and keeps its text,
// so "2.5" and 2.5 reach validation unchanged.
type flexValue string

func (v *flexValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = flexValue(s)
	case len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')):
		*v = flexValue(trimmed)
	default:
		return fmt.Errorf("expected a number or a string, got %s", trimmed)
	}
	return nil
}

func rawTotals(in map[string]flexValue) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = string(v)
	}
	return out
}

func kgNumber(kg decimal.Decimal) json.Number {
	return json.Number(units.FormatKg(kg))
}

func kgNumbers(list []decimal.Decimal) []json.Number {
	out := make([]json.Number, len(list))
	for i, kg := range list {
		out[i] = kgNumber(kg)
	}
	return out
}

func newLoadResponse(l planner.Load) loadResponse {
	return loadResponse{
		Counts:        l.Counts,
		PlatesPerSide: l.PlatesPerSide,
		PerSideKg:     kgNumber(l.PerSideKg),
		PlatesKg:      kgNumbers(l.Plates),
	}
}

func newMoveResponses(moves []planner.Move) []moveResponse {
	out := make([]moveResponse, len(moves))
	for i, m := range moves {
		out[i] = moveResponse{PlateKg: kgNumber(m.PlateKg), Pairs: m.Pairs}
	}
	return out
}

type transitionRequest struct {
	CurrentKg flexValue            `json:"currentKg"`
	DesiredKg flexValue            `json:"desiredKg"`
	Inventory map[string]flexValue `json:"inventory,omitempty"`
}

type inventoryRequest struct {
	Inventory map[string]flexValue `json:"inventory"`
}

type transitionResponse struct {
	BarKg             json.Number    `json:"barKg"`
	CurrentKg         json.Number    `json:"currentKg"`
	DesiredKg         json.Number    `json:"desiredKg"`
	Operations        int            `json:"operations"`
	Unchanged         bool           `json:"unchanged"`
	Current           loadResponse   `json:"current"`
	Desired           loadResponse   `json:"desired"`
	Remove            []moveResponse `json:"remove"`
	Add               []moveResponse `json:"add"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type loadResponse struct {
	Counts        []int         `json:"counts"`
	PlatesPerSide int           `json:"platesPerSide"`
	PerSideKg     json.Number   `json:"perSideKg"`
	PlatesKg      []json.Number `json:"platesKg"`
}

type moveResponse struct {
	PlateKg json.Number `json:"plateKg"`
	Pairs   int         `json:"pairs"`
}

type platesResponse struct {
	BarKg    json.Number   `json:"barKg"`
	PlatesKg []json.Number `json:"platesKg"`
}

type inventoryResponse struct {
	Inventory map[string]int `json:"inventory"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Message   string         `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Side       string `json:"side,omitempty"`
	Plate      string `json:"plate,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
