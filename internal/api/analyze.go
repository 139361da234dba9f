package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/chatlog"
)

const (
	formFiles    = "files"
	formUserName = "user_name"

	// Parts beyond this are spooled to disk by the multipart reader.
	multipartMemory = 8 << 20
)

// analyze handles POST /api/v1/analyze.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", s.maxUpload)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	defer r.Body.Close()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", s.maxUpload)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form: %v", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[formFiles]
	files := make([]analysis.File, 0, len(headers))
	for _, fh := range headers {
		text, err := readUpload(fh)
		if err != nil {
			s.logger.Error("failed to read upload", "file", fh.Filename, "error", err)
			writeError(w, http.StatusBadRequest, "could not read %s", fh.Filename)
			return
		}
		files = append(files, analysis.File{Name: fh.Filename, Text: text})
	}

	resp, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		UserName: r.FormValue(formUserName),
		Files:    files,
	})
	if err != nil {
		var inputErr *analysis.InputError
		if errors.As(err, &inputErr) {
			writeError(w, http.StatusBadRequest, "%s", inputErr.Reason)
			return
		}
		s.logger.Error("analysis failed", "files", len(files), "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return chatlog.Decode(data), nil
}
