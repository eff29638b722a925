package api

import (
	"context"
	"encoding/json"
	"errors"
	"file-panel/internal/database"
	"file-panel/internal/models"
	"file-panel/internal/storage"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const multipartMemory = 32 << 20

type FileIDRequest struct {
	ID json.RawMessage `json:"id" swaggertype:"integer" example:"7"`
}

// @Summary      Admin file management
// @Description  GET lists every file. POST uploads new files, or replaces one when an id field is present. PUT bumps a file's modification time. DELETE removes a file and its content. POST honours X-HTTP-Method-Override.
// @Tags         admin
// @Accept       mpfd,json
// @Produce      json,html
// @Security     BearerAuth
// @Param        file  formData  file           false  "File content (POST)"
// @Param        id    formData  int            false  "File to replace (POST)"
// @Param        body  body      FileIDRequest  false  "File id (PUT, DELETE)"
// @Success      200   {object}  FilesResponse
// @Failure      400   {object}  StatusResponse
// @Failure      404   {object}  StatusResponse
// @Failure      405   {object}  StatusResponse
// @Router       /admin/ [get]
// @Router       /admin/ [post]
// @Router       /admin/ [put]
// @Router       /admin/ [delete]
func (s *Server) AdminHandler(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	if method == http.MethodPost {
		switch override := strings.ToUpper(r.Header.Get("X-HTTP-Method-Override")); override {
		case http.MethodPut, http.MethodDelete:
			method = override
		}
	}

	var err error
	switch method {
	case http.MethodGet:
		s.dashboard(w, r)
		return
	case http.MethodPost:
		err = s.uploadOrReplace(w, r)
	case http.MethodPut:
		err = s.touchFile(w, r)
	case http.MethodDelete:
		err = s.deleteFile(w, r)
	default:
		err = errBadMethod
	}
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListFiles(r.Context(), 0)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list files: %w", err))
		return
	}
	if files == nil {
		files = []models.UploadedFile{}
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, FilesResponse{Status: "success", Files: files})
		return
	}
	principal := GetPrincipalFromContext(r.Context())
	s.render(w, r, http.StatusOK, "dashboard.html", pageData{Title: "Dashboard", User: principal.User, Files: files})
}

func (s *Server) uploadOrReplace(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &HTTPError{Status: http.StatusRequestEntityTooLarge, Message: "Upload exceeds the size limit"}
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return badRequest("Invalid multipart form")
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if rawID := r.FormValue("id"); rawID != "" {
		return s.replaceFile(w, r, rawID)
	}
	return s.uploadFiles(w, r)
}

func formFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File["file"]
}

func (s *Server) uploadFiles(w http.ResponseWriter, r *http.Request) error {
	headers := formFiles(r)
	if len(headers) == 0 {
		return badRequest("No files selected")
	}
	principal := GetPrincipalFromContext(r.Context())

	saved := make([]database.CreateFileParams, 0, len(headers))
	for _, fh := range headers {
		params, err := s.saveBlob(r.Context(), fh)
		if err != nil {
			s.releaseBatch(r.Context(), saved)
			return err
		}
		saved = append(saved, params)
	}

	created, err := s.store.CreateFiles(r.Context(), saved)
	if err != nil {
		s.releaseBatch(r.Context(), saved)
		return fmt.Errorf("create file records: %w", err)
	}

	for i := range created {
		s.logEvent(r.Context(), principal, database.EventFileUploaded, &created[i])
	}

	writeJSON(w, http.StatusOK, FilesResponse{
		Status:  "success",
		Message: fmt.Sprintf("%d file(s) uploaded successfully!", len(created)),
		Files:   created,
	})
	return nil
}

func (s *Server) replaceFile(w http.ResponseWriter, r *http.Request, rawID string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		return errInvalidFileID
	}

	existing, err := s.store.GetFileByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("get file %d: %w", id, err)
	}
	if existing == nil {
		return errFileNotFound
	}

	headers := formFiles(r)
	if len(headers) == 0 {
		return badRequest("No file provided for update")
	}

	params, err := s.saveBlob(r.Context(), headers[0])
	if err != nil {
		return err
	}

	updated, previousKey, err := s.store.ReplaceFileContent(r.Context(), id, params)
	if err != nil {
		s.releaseBlob(r.Context(), params.File)
		if errors.Is(err, database.ErrFileNotFound) {
			return errFileNotFound
		}
		return fmt.Errorf("replace file %d: %w", id, err)
	}
	s.releaseBlob(r.Context(), previousKey)

	s.logEvent(r.Context(), GetPrincipalFromContext(r.Context()), database.EventFileReplaced, updated)

	writeJSON(w, http.StatusOK, FileResponse{Status: "success", Message: "File updated successfully!", File: updated})
	return nil
}

func (s *Server) touchFile(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return badRequest("PUT requests with files are not supported. Use POST instead.")
	}

	var req FileIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequest("Invalid JSON data")
	}
	id, err := parseFileID(req.ID)
	if err != nil {
		return err
	}

	file, err := s.store.TouchFile(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			return errFileNotFound
		}
		return fmt.Errorf("touch file %d: %w", id, err)
	}

	s.logEvent(r.Context(), GetPrincipalFromContext(r.Context()), database.EventFileTouched, file)

	writeJSON(w, http.StatusOK, FileResponse{Status: "success", Message: "Metadata updated (no file change)", File: file})
	return nil
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) error {
	var req FileIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequest("Invalid JSON")
	}
	id, err := parseFileID(req.ID)
	if err != nil {
		return err
	}

	file, err := s.store.DeleteFile(r.Context(), id, s.storage.Delete)
	if err != nil {
		if errors.Is(err, database.ErrFileNotFound) {
			return errFileNotFound
		}
		return fmt.Errorf("delete file %d: %w", id, err)
	}

	s.logEvent(r.Context(), GetPrincipalFromContext(r.Context()), database.EventFileDeleted, file)

	writeJSON(w, http.StatusOK, StatusResponse{Status: "success", Message: "File deleted successfully!"})
	return nil
}

// parseFileID accepts a JSON number or a numeric string.
func parseFileID(raw json.RawMessage) (int64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == `""` {
		return 0, errFileIDMissing
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = trimmed
	}

	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id < 0 {
		return 0, errInvalidFileID
	}
	if id == 0 {
		return 0, errFileIDMissing
	}
	return id, nil
}

// saveBlob stores one uploaded part under a fresh key.
func (s *Server) saveBlob(ctx context.Context, fh *multipart.FileHeader) (database.CreateFileParams, error) {
	src, err := fh.Open()
	if err != nil {
		return database.CreateFileParams{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	mimeType, err := detectMimeType(fh, src)
	if err != nil {
		return database.CreateFileParams{}, err
	}

	key, err := storage.NewKey()
	if err != nil {
		return database.CreateFileParams{}, err
	}
	if err := s.storage.Save(ctx, key, src); err != nil {
		return database.CreateFileParams{}, fmt.Errorf("save blob: %w", err)
	}

	return database.CreateFileParams{
		File:         key,
		OriginalName: cleanFileName(fh.Filename),
		SizeBytes:    fh.Size,
		MimeType:     mimeType,
	}, nil
}

func detectMimeType(fh *multipart.FileHeader, src multipart.File) (string, error) {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return mtype.String(), nil
}

// cleanFileName keeps the base name only, as valid UTF-8 without NUL bytes.
func cleanFileName(name string) string {
	name = strings.ToValidUTF8(name, "\uFFFD")
	name = strings.ReplaceAll(name, "\x00", "")
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || strings.TrimSpace(name) == "" {
		return "unnamed"
	}
	return name
}

// releaseBlob is best effort; a failure leaves an orphan that is only logged.
func (s *Server) releaseBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.Warn("failed to release blob", zap.String("key", key), zap.Error(err))
	}
}

func (s *Server) releaseBatch(ctx context.Context, saved []database.CreateFileParams) {
	for _, params := range saved {
		s.releaseBlob(ctx, params.File)
	}
}

func (s *Server) logEvent(ctx context.Context, principal *Principal, eventType string, file *models.UploadedFile) {
	var userID int64
	if principal != nil {
		userID = principal.User.ID
	}
	if _, err := s.store.LogEvent(ctx, userID, eventType, file); err != nil {
		s.logger.Warn("failed to journal event", zap.String("event_type", eventType), zap.Error(err))
	}
}
