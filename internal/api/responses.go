package api

import (
	"encoding/json"
	"file-panel/internal/models"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type StatusResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty" example:"File deleted successfully!"`
}

type FileResponse struct {
	Status  string               `json:"status" example:"success"`
	Message string               `json:"message,omitempty" example:"File updated successfully!"`
	File    *models.UploadedFile `json:"file,omitempty"`
}

type FilesResponse struct {
	Status  string                `json:"status" example:"success"`
	Message string                `json:"message,omitempty" example:"2 file(s) uploaded successfully!"`
	Files   []models.UploadedFile `json:"files"`
}

// HTTPError is a failure the client is told about verbatim.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func badRequest(msg string) *HTTPError { return &HTTPError{Status: http.StatusBadRequest, Message: msg} }

var (
	errFileNotFound  = &HTTPError{Status: http.StatusNotFound, Message: "File not found"}
	errInvalidFileID = badRequest("Invalid file ID")
	errFileIDMissing = badRequest("File ID missing")
	errBadMethod     = &HTTPError{Status: http.StatusMethodNotAllowed, Message: "Invalid request method"}
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders err in the admin envelope. Anything that is not an
// HTTPError is logged and hidden behind a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if httpErr, ok := err.(*HTTPError); ok {
		writeJSON(w, httpErr.Status, StatusResponse{Status: "error", Message: httpErr.Message})
		return
	}
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, StatusResponse{Status: "error", Message: "Internal server error"})
}

// wantsJSON reports whether the client prefers JSON over HTML.
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/json":
			return true
		case "text/html", "application/xhtml+xml":
			return false
		}
	}
	return false
}

func isJSONBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

type pageData struct {
	Title    string
	User     *models.User
	Files    []models.UploadedFile
	Flashes  []string
	Username string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
	}
}
