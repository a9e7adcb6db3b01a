package handler

import (
	"net/http"

	"github.com/msomdec/relief-supply/internal/service"
)

// GoodsHandler serves the read-only goods collection.
type GoodsHandler struct {
	goods *service.ResourceService
}

// NewGoodsHandler creates a new GoodsHandler.
func NewGoodsHandler(goods *service.ResourceService) *GoodsHandler {
	return &GoodsHandler{goods: goods}
}

// HandleList returns every goods item.
// GET /api/v1/get-goods
func (h *GoodsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.goods.List(r.Context())
	if err != nil {
		writeResourceError(w, r, err, "list goods")
		return
	}
	writeSuccess(w, http.StatusOK, "Get All Goods", envelope{"result": docs})
}

// HandleGet returns one goods item.
// GET /api/v1/get-goods-detail/{id}
func (h *GoodsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.goods.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeResourceError(w, r, err, "get goods")
		return
	}
	writeSuccess(w, http.StatusOK, "Get Goods Detail", envelope{"result": doc})
}
