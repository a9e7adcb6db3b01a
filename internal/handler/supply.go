package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/relief-supply/internal/domain"
	"github.com/msomdec/relief-supply/internal/service"
)

// SupplyHandler serves CRUD over the supply collection.
type SupplyHandler struct {
	supply *service.ResourceService
}

// NewSupplyHandler creates a new SupplyHandler.
func NewSupplyHandler(supply *service.ResourceService) *SupplyHandler {
	return &SupplyHandler{supply: supply}
}

// HandleCreate stores the request body as a new supply item.
// POST /api/v1/create-supply
// Response: 201 {"success":true,"message":"...","response":{"acknowledged":true,"insertedId":"..."}}
func (h *SupplyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := readJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be a JSON object.")
		return
	}

	doc, err := h.supply.Create(r.Context(), fields)
	if err != nil {
		writeResourceError(w, r, err, "create supply")
		return
	}

	writeSuccess(w, http.StatusCreated, "New Item Created Successfully", envelope{
		"response": envelope{"acknowledged": true, "insertedId": doc.ID},
	})
}

// HandleList returns every supply item.
// GET /api/v1/get-supply
func (h *SupplyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.supply.List(r.Context())
	if err != nil {
		writeResourceError(w, r, err, "list supply")
		return
	}
	writeSuccess(w, http.StatusOK, "Get All Supplies", envelope{"result": docs})
}

// HandleGet returns one supply item.
// GET /api/v1/get-single-supply/{id}
func (h *SupplyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.supply.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeResourceError(w, r, err, "get supply")
		return
	}
	writeSuccess(w, http.StatusOK, "Get Single Supply", envelope{"result": doc})
}

// HandleUpdate replaces the title, category, amount, description and image
// of a supply item. Fields absent from the request are stored as null.
// PUT /api/v1/update-supply/{id}
func (h *SupplyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplyUpdate
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	res, err := h.supply.Update(r.Context(), r.PathValue("id"), req.Fields())
	if err != nil {
		writeResourceError(w, r, err, "update supply")
		return
	}

	writeSuccess(w, http.StatusOK, "Supply Item Updated", envelope{
		"result": envelope{
			"acknowledged":  true,
			"matchedCount":  res.MatchedCount,
			"modifiedCount": res.ModifiedCount,
		},
	})
}

// HandleDelete removes a supply item. Deleting a missing item succeeds.
// DELETE /api/v1/delete-supply/{id}
func (h *SupplyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.supply.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeResourceError(w, r, err, "delete supply")
		return
	}
	writeSuccess(w, http.StatusOK, "Supply Item Deleted", nil)
}

// writeResourceError maps service errors on a collection to responses.
func writeResourceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid id.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Item not found.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, r, op, err)
	}
}
