package handlers

import "net/http"

// ListPrints: GET /api/prints/{fileId}.
func (h *APIHandler) ListPrints(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuidPathParam(r, "fileId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	page, err := h.pageParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	prints, err := h.prints.ListByFile(r.Context(), fileID, page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]printDTO, 0, len(prints))
	for _, p := range prints {
		items = append(items, printDTO{
			ID:             p.ID,
			NozzleSizeMM:   p.NozzleSizeMM,
			BedTempCelsius: p.BedTempCelsius,
			ExtruderTemp:   p.ExtruderTemp,
			Successful:     p.Successful,
			Filament:       p.Filament,
			FilamentType:   p.FilamentType,
			Printer:        p.Printer,
			GcodeID:        p.GcodeID,
		})
	}
	writeJSON(w, http.StatusOK, printListResponse{Status: statusSuccess, Results: len(items), Prints: items})
}
