// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/agricheck/internal/app"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/utils"
	"github.com/MKhiriev/agricheck/models"
	"github.com/go-chi/chi/v5"
)

// uploadField is the multipart form field carrying the leaf photo.
const uploadField = "file"

// scan accepts a multipart photo, diagnoses it and stores the result.
func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	upload, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Info().Int64("limit", tooLarge.Limit).Msg("upload exceeds size limit")
			utils.WriteError(w, http.StatusRequestEntityTooLarge, app.MsgFileTooLarge)
			return
		}
		log.Debug().Err(err).Msg("invalid multipart upload")
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	scan, err := h.services.ScanService.Scan(r.Context(), userID, upload)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, scan, http.StatusCreated)
}

func readUpload(r *http.Request) (models.ImageUpload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return models.ImageUpload{}, err
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return models.ImageUpload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.ImageUpload{}, err
	}

	return models.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) saveScan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.SaveScanRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	scan, err := h.services.ScanService.SaveScan(r.Context(), userID, request)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, scan, http.StatusCreated)
}

// history lists a page of the user's scans. Query parameters: limit
// (1..100, default 50), offset (default 0), disease and sort_by.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query, err := parseHistoryQuery(r)
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid history query")
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}
	query.UserID = userID

	history, err := h.services.ScanService.History(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if history.Scans == nil {
		history.Scans = []models.Scan{}
	}

	h.writeJSON(w, r, history, http.StatusOK)
}

var errInvalidLimit = errors.New("limit must be a positive integer")

func parseHistoryQuery(r *http.Request) (models.ScanHistoryQuery, error) {
	values := r.URL.Query()
	query := models.ScanHistoryQuery{
		Disease: values.Get("disease"),
		SortBy:  models.ScanSort(values.Get("sort_by")),
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return models.ScanHistoryQuery{}, err
		}
		// zero would otherwise select the default page size
		if limit < 1 {
			return models.ScanHistoryQuery{}, errInvalidLimit
		}
		query.Limit = limit
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return models.ScanHistoryQuery{}, err
		}
		query.Offset = offset
	}

	return query, nil
}

func (h *Handler) diseases(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	diseases, err := h.services.ScanService.Diseases(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if diseases == nil {
		diseases = []string{}
	}

	h.writeJSON(w, r, models.DiseasesResponse{Diseases: diseases}, http.StatusOK)
}

func (h *Handler) scanImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	img, err := h.services.ScanService.Image(r.Context(), userID, chi.URLParam(r, "scanID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if _, err = utils.WriteBytes(w, img.Data, img.MediaType); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing image")
	}
}

func (h *Handler) deleteScan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	scanID := chi.URLParam(r, "scanID")
	if err := h.services.ScanService.DeleteScan(r.Context(), userID, scanID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.DeleteScanResponse{Message: app.MsgScanDeleted, DeletedScanID: scanID}, http.StatusOK)
}
