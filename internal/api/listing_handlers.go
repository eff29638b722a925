package api

import (
	"errors"
	"file-panel/internal/models"
	"file-panel/internal/storage"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const recentFilesLimit = 10

// @Summary      Recent uploads
// @Description  Lists the ten most recently uploaded files, newest first.
// @Tags         files
// @Produce      json,html
// @Success      200  {object}  FilesResponse
// @Failure      500  {object}  StatusResponse
// @Router       / [get]
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListFiles(r.Context(), recentFilesLimit)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list recent files: %w", err))
		return
	}
	if files == nil {
		files = []models.UploadedFile{}
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, FilesResponse{Status: "success", Files: files})
		return
	}
	principal, _ := s.resolvePrincipal(r)
	data := pageData{Title: "Recent uploads", Files: files}
	if principal != nil {
		data.User = principal.User
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

// @Summary      Download a file
// @Description  Streams the stored content of a file as an attachment.
// @Tags         files
// @Produce      octet-stream
// @Param        fileID  path      int  true  "File ID"
// @Success      200     {file}    file
// @Failure      400     {object}  StatusResponse
// @Failure      404     {object}  StatusResponse
// @Router       /media/{fileID} [get]
func (s *Server) MediaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "fileID"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, errInvalidFileID)
		return
	}

	file, err := s.store.GetFileByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("get file %d: %w", id, err))
		return
	}
	if file == nil {
		s.writeError(w, r, errFileNotFound)
		return
	}

	fileStream, err := s.storage.Get(r.Context(), file.File)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			s.logger.Warn("file record points at a missing blob", zap.Int64("file_id", id), zap.String("key", file.File))
			s.writeError(w, r, errFileNotFound)
			return
		}
		s.writeError(w, r, fmt.Errorf("open blob for file %d: %w", id, err))
		return
	}
	defer fileStream.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalName}))
	if file.MimeType != "" {
		w.Header().Set("Content-Type", file.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))

	if _, err := io.Copy(w, fileStream); err != nil {
		s.logger.Warn("failed to stream file", zap.Int64("file_id", id), zap.Error(err))
	}
}
