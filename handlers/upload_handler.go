package handlers

import (
	"net/http"

	"github.com/Dosada05/fight-events/services"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(us services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: us}
}

// UploadHandler обрабатывает POST /uploads?folder=fighters (multipart, поле "file")
func (h *UploadHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "fighters"
	}

	file, contentType, err := readUpload(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(r.Context(), folder, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, jsonResponse{"key": result.Key, "url": result.Location}, "")
}
