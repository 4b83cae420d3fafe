package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"subburn/internal/captions"
	"subburn/internal/jobs"
	"subburn/internal/logging"
	"subburn/internal/media"
	"subburn/internal/services"
)

// maxUploadBytes caps multipart upload memory and size at 2 GiB.
const maxUploadBytes = 2 << 30

type createRequest struct {
	VideoID           string             `json:"videoId"`
	Captions          []captions.Segment `json:"captions"`
	Transcript        string             `json:"transcript"`
	Preset            string             `json:"preset"`
	Style             json.RawMessage    `json:"style"`
	Output            jobs.OutputOptions `json:"output"`
	ForceHighContrast bool               `json:"forceHighContrast"`
}

type uploadResponse struct {
	VideoID  string `json:"videoId"`
	Filename string `json:"filename"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("video")
	if err != nil {
		s.writeError(w, services.Wrap(services.ErrValidation, "api", "upload", `multipart field "video" is required`, err))
		return
	}
	defer file.Close()

	videoID := uuid.NewString()
	stored := media.StoredName(videoID, header.Filename)
	destPath := filepath.Join(s.cfg.Paths.UploadDir, stored)

	dest, err := os.Create(destPath)
	if err != nil {
		s.writeError(w, services.Wrap(nil, "api", "upload", "store upload", err))
		return
	}
	defer dest.Close()
	if _, err := io.Copy(dest, file); err != nil {
		_ = os.Remove(destPath)
		s.writeError(w, services.Wrap(nil, "api", "upload", "store upload", err))
		return
	}

	s.logger.Info("upload stored",
		logging.String("video_id", videoID),
		logging.String("filename", header.Filename),
	)
	writeJSON(w, http.StatusCreated, uploadResponse{VideoID: videoID, Filename: stored})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, services.Wrap(services.ErrValidation, "api", "create", "malformed request body", err))
		return
	}

	job, err := s.manager.Create(r.Context(), jobs.CreateRequest{
		VideoID:           req.VideoID,
		Captions:          req.Captions,
		Transcript:        req.Transcript,
		Preset:            req.Preset,
		Style:             req.Style,
		Output:            req.Output,
		ForceHighContrast: req.ForceHighContrast,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	job, err := s.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := s.manager.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if all == nil {
		all = []*jobs.Job{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path, err := s.manager.Output(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
