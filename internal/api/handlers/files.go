package handlers

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"tour-guide-service/internal/adapters/files"
	"tour-guide-service/internal/api/dto"
	"tour-guide-service/internal/ports"
)

const multipartOverhead = 1 << 20

type FileHandler struct {
	Images ports.ImageStore
}

// UploadImage stores the multipart "file" field and returns its public URL.
func (h *FileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, files.MaxImageSize+multipartOverhead)

	f, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusBadRequest, "file exceeds 5MB size limit")
			return
		}
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer f.Close()

	if header.Size == 0 {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	if header.Size > files.MaxImageSize {
		writeError(w, r, http.StatusBadRequest, "file exceeds 5MB size limit")
		return
	}

	ext, ok := files.NormalizeExtension(filepath.Ext(header.Filename))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid file type; only jpg, jpeg, png and gif are allowed")
		return
	}

	url, err := h.Images.Save(r.Context(), ext, f)
	if errors.Is(err, files.ErrTooLarge) {
		writeError(w, r, http.StatusBadRequest, "file exceeds 5MB size limit")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UploadResponse{FileName: path.Base(url), URL: url})
}
