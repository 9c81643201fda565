package api

import (
	"encoding/json"
	"net/http"

	"github.com/fanchat/fanchat/pkg/geometry"
)

// LayoutRequest is the body of POST /api/layout. Without a current layout the
// response is the initial placement for the viewport; with one it is the
// current layout re-clamped to the viewport.
type LayoutRequest struct {
	Viewport geometry.Viewport `json:"viewport"`
	Touch    bool              `json:"touch"`
	Current  *geometry.Layout  `json:"current,omitempty"`
}

// LayoutResponse describes the computed layout
type LayoutResponse struct {
	geometry.Layout
	Device string `json:"device"`
}

// LayoutHandler handles POST /api/layout
func (h *Handlers) LayoutHandler(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Viewport.Measured() {
		http.Error(w, "viewport has not been measured", http.StatusUnprocessableEntity)
		return
	}

	placement := h.config().Layout.Placement
	resp := LayoutResponse{Device: placement.Classify(req.Viewport, req.Touch).String()}

	if req.Current != nil {
		resp.Layout = geometry.Reconcile(*req.Current, placement.MinSize, req.Viewport)
	} else {
		layout, _ := placement.InitialLayout(req.Viewport, req.Touch)
		layout.Position = geometry.ConstrainPosition(layout.Position, layout.Size, req.Viewport)
		resp.Layout = layout
	}

	writeJSON(w, http.StatusOK, resp)
}
