package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tsawler/startlist"
	"github.com/tsawler/startlist/export"
	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/store"
)

// ConvertResponse is the body of a successful upload. PreviousRun names the
// latest earlier run of the same document bytes, if any.
type ConvertResponse struct {
	Run         store.Run      `json:"run"`
	PreviousRun string         `json:"previous_run,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	Full        []model.Record `json:"full"`
	Filtered    []model.Record `json:"filtered"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// handleConvert converts an uploaded start list and stores the run.
// POST /api/convert
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r)
	if r.ContentLength > s.maxUpload {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
			return
		}
		s.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}

	conv := s.configure(startlist.FromReader(bytes.NewReader(data), header.Filename).WithLogger(log))
	if marker := r.FormValue("marker"); marker != "" {
		conv = conv.Marker(marker)
	}

	result, warnings, err := conv.Convert(r.Context())
	if err != nil {
		log.Warn("conversion failed", "file", header.Filename, "error", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result.Empty() {
		s.writeError(w, http.StatusUnprocessableEntity, startlist.NoRecordsMessage)
		return
	}

	newRun := store.NewRun(header.Filename, data, result)
	previous, err := s.store.FindByDigest(r.Context(), newRun.Digest)
	switch {
	case err == nil:
		log.Info("document already converted", "file", header.Filename, "previous_run", previous.ID)
	case !errors.Is(err, store.ErrNotFound):
		log.Error("find run by digest", "error", err)
		s.writeError(w, http.StatusInternalServerError, "store error")
		return
	}

	run, err := s.store.Save(r.Context(), newRun)
	if err != nil {
		log.Error("save run", "error", err)
		s.writeError(w, http.StatusInternalServerError, "saving run failed")
		return
	}

	resp := ConvertResponse{
		Run:         run,
		PreviousRun: previous.ID,
		Full:        result.Full.Records,
		Filtered:    result.Filtered.Records,
	}
	for _, warn := range warnings {
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	if resp.Filtered == nil {
		resp.Filtered = []model.Record{}
	}

	s.writeJSON(w, http.StatusCreated, resp)
}

// handleListRuns lists recent runs.
// GET /api/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.requestLog(r).Error("list runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns one run summary.
// GET /api/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// handleDeleteRun removes a run and its records.
// DELETE /api/runs/{id}
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.requestLog(r).Info("run deleted", "run_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleDataset downloads one dataset of a run.
// GET /api/runs/{id}/{dataset}.{format}
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	kind, ok := model.ParseDatasetKind(chi.URLParam(r, "dataset"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "dataset must be full or filtered")
		return
	}
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	ds, err := s.store.Dataset(r.Context(), id, kind)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	opts := s.export
	opts.Format = format

	var buf bytes.Buffer
	if err := export.NewExporterWithOptions(opts).Export(ds, &buf); err != nil {
		s.requestLog(r).Error("export dataset", "error", err)
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", id+"_"+kind.String()+format.FileExtension()))
	w.Write(buf.Bytes())
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	s.requestLog(r).Error("store", "error", err)
	s.writeError(w, http.StatusInternalServerError, "store error")
}
