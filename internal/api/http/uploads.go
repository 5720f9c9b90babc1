package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (h *Handler) uploadDishImage(w http.ResponseWriter, r *http.Request) {
	s := h.requireOwner(w, r)
	if s == nil {
		return
	}
	dishID := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "error retrieving the file")
		return
	}
	defer file.Close()

	if !allowedImageTypes[handler.Header.Get("Content-Type")] {
		writeError(w, http.StatusBadRequest, "invalid file type, only JPEG, PNG, GIF, WebP allowed")
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}

	filename := fmt.Sprintf("dish_%s_%s", dishID, filepath.Base(handler.Filename))
	dst, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "please try again")
		return
	}

	imageURL := "/uploads/" + filename
	if err := h.Menu.UpdateImage(r.Context(), dishID, s.Identity.ID, imageURL); err != nil {
		h.writeMenuError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "image uploaded successfully",
		"image_url": imageURL,
	})
}
