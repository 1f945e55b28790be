package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/openfra/fra-atlas/internal/datastore"
	"github.com/openfra/fra-atlas/internal/ocr"
)

// handleDocumentUpload receives a claim document and stores it under a
// generated name so original filenames never touch the filesystem.
func (s *Server) handleDocumentUpload(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Document storage requires a datastore", http.StatusServiceUnavailable)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return s.handleError(c, err, "file form field is required", http.StatusBadRequest)
	}
	if fh.Size > s.cfg.Uploads.MaxBytes {
		return s.handleError(c, nil, "File exceeds the upload size limit", http.StatusRequestEntityTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extAllowed(ext, s.cfg.Uploads.AllowedExtensions) {
		return s.handleError(c, nil, "File type "+ext+" is not accepted", http.StatusBadRequest)
	}

	if err := os.MkdirAll(s.cfg.Uploads.Dir, 0o755); err != nil {
		return s.handleError(c, err, "Upload directory unavailable", http.StatusInternalServerError)
	}

	src, err := fh.Open()
	if err != nil {
		return s.handleError(c, err, "Failed to read upload", http.StatusInternalServerError)
	}
	defer src.Close()

	storedPath := filepath.Join(s.cfg.Uploads.Dir, uuid.New().String()+ext)
	dst, err := os.Create(storedPath)
	if err != nil {
		return s.handleError(c, err, "Failed to store upload", http.StatusInternalServerError)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(storedPath)
		return s.handleError(c, err, "Failed to store upload", http.StatusInternalServerError)
	}
	if err := dst.Close(); err != nil {
		os.Remove(storedPath)
		return s.handleError(c, err, "Failed to store upload", http.StatusInternalServerError)
	}

	doc := datastore.Document{
		Filename:    fh.Filename,
		StoredPath:  storedPath,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		SizeBytes:   fh.Size,
		Status:      datastore.DocumentUploaded,
	}
	if role, ok := c.Get(roleKey).(string); ok {
		doc.UploadedBy = role
	}
	if raw := c.FormValue("claim_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			linked := uint(id)
			doc.ClaimID = &linked
		}
	}

	if err := s.db.SaveDocument(&doc); err != nil {
		os.Remove(storedPath)
		return s.handleError(c, err, "Failed to record upload", http.StatusInternalServerError)
	}

	s.log.Info("document uploaded", "document", doc.ID, "filename", doc.Filename, "bytes", doc.SizeBytes)
	return c.JSON(http.StatusCreated, echo.Map{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"status":      doc.Status,
		"message":     "Document uploaded successfully. Use /ocr endpoint to process.",
		"metadata": echo.Map{
			"content_type":  doc.ContentType,
			"size_bytes":    doc.SizeBytes,
			"document_type": c.FormValue("document_type"),
			"state":         c.FormValue("state"),
			"district":      c.FormValue("district"),
			"village":       c.FormValue("village"),
		},
	})
}

func (s *Server) handleListDocuments(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Document storage requires a datastore", http.StatusServiceUnavailable)
	}

	limit := intParam(c, "limit", 50)
	offset := intParam(c, "offset", 0)
	docs, total, err := s.db.ListDocuments(limit, offset)
	if err != nil {
		return s.handleError(c, err, "Failed to list documents", http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"documents": docs,
		"total":     total,
		"count":     len(docs),
	})
}

// handleDocumentOCR queues background text recognition for a document.
func (s *Server) handleDocumentOCR(c echo.Context) error {
	if s.ocr == nil {
		return s.handleError(c, nil, "OCR requires a datastore", http.StatusServiceUnavailable)
	}

	docID, err := uintParam(c, "id")
	if err != nil {
		return s.handleError(c, err, "Invalid document id", http.StatusBadRequest)
	}

	job, err := s.ocr.Enqueue(docID)
	if errors.Is(err, datastore.ErrNotFound) {
		return s.handleError(c, nil, "Document not found", http.StatusNotFound)
	}
	if err != nil {
		return s.handleError(c, err, "Failed to queue OCR job", http.StatusInternalServerError)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"document_id":    docID,
		"job_id":         job.ID,
		"status":         "processing",
		"message":        "OCR processing started",
		"estimated_time": "2-5 minutes",
		"languages":      ocr.NewStubEngine().Langs,
	})
}

// handleDocumentExtract runs entity extraction over a document's OCR text.
func (s *Server) handleDocumentExtract(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Extraction requires a datastore", http.StatusServiceUnavailable)
	}

	docID, err := uintParam(c, "id")
	if err != nil {
		return s.handleError(c, err, "Invalid document id", http.StatusBadRequest)
	}

	doc, err := s.db.GetDocument(docID)
	if errors.Is(err, datastore.ErrNotFound) {
		return s.handleError(c, nil, "Document not found", http.StatusNotFound)
	}
	if err != nil {
		return s.handleError(c, err, "Failed to load document", http.StatusInternalServerError)
	}
	if doc.ExtractedText == "" {
		return s.handleError(c, nil, "Document must be processed with OCR first", http.StatusBadRequest)
	}

	ex := ocr.Extract(doc.ExtractedText)
	return c.JSON(http.StatusOK, echo.Map{
		"document_id": doc.ID,
		"status":      "extracted",
		"structured_data": echo.Map{
			"claim_type": ex.ClaimType,
			"claimant_details": echo.Map{
				"name":     ex.ClaimantName,
				"village":  ex.Village,
				"district": ex.District,
				"state":    ex.State,
			},
			"land_details": echo.Map{
				"survey_number": ex.SurveyNumber,
				"area_acres":    ex.AreaAcres,
				"coordinates":   ex.Coordinates,
			},
			"certification": echo.Map{
				"certificate_number": ex.CertificateNumber,
				"recognition_date":   ex.RecognitionDate,
				"status":             "recognized",
			},
			"confidence_scores":    ex.ConfidenceScores,
			"extraction_timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		"raw_text":          doc.ExtractedText,
		"extraction_method": "rule-based",
	})
}

func (s *Server) handleOCRJobStatus(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "OCR requires a datastore", http.StatusServiceUnavailable)
	}

	jobID, err := uintParam(c, "id")
	if err != nil {
		return s.handleError(c, err, "Invalid job id", http.StatusBadRequest)
	}

	job, err := s.db.GetOCRJob(jobID)
	if errors.Is(err, datastore.ErrNotFound) {
		return s.handleError(c, nil, "Job not found", http.StatusNotFound)
	}
	if err != nil {
		return s.handleError(c, err, "Failed to load job", http.StatusInternalServerError)
	}

	resp := echo.Map{
		"job_id":      job.ID,
		"document_id": job.DocumentID,
		"status":      job.Status,
		"progress":    jobProgress(job.Status),
	}
	switch job.Status {
	case datastore.JobDone:
		results := echo.Map{
			"text_confidence": job.Confidence,
			"text":            job.Text,
		}
		if job.EntitiesJSON != "" {
			results["entities"] = json.RawMessage(job.EntitiesJSON)
		}
		resp["results"] = results
	case datastore.JobFailed:
		resp["error"] = job.Error
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDocumentSearch(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Search requires a datastore", http.StatusServiceUnavailable)
	}

	query := c.QueryParam("q")
	if query == "" {
		return s.handleError(c, nil, "q query parameter is required", http.StatusBadRequest)
	}

	limit := intParam(c, "limit", 20)
	docs, err := s.db.SearchDocuments(query, limit)
	if err != nil {
		return s.handleError(c, err, "Search failed", http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"query":         query,
		"total_results": len(docs),
		"results":       docs,
	})
}

func (s *Server) handleDocumentDelete(c echo.Context) error {
	if s.db == nil {
		return s.handleError(c, nil, "Document storage requires a datastore", http.StatusServiceUnavailable)
	}

	docID, err := uintParam(c, "id")
	if err != nil {
		return s.handleError(c, err, "Invalid document id", http.StatusBadRequest)
	}

	doc, err := s.db.GetDocument(docID)
	if errors.Is(err, datastore.ErrNotFound) {
		return s.handleError(c, nil, "Document not found", http.StatusNotFound)
	}
	if err != nil {
		return s.handleError(c, err, "Failed to load document", http.StatusInternalServerError)
	}

	if err := s.db.DeleteDocument(doc.ID); err != nil {
		return s.handleError(c, err, "Failed to delete document", http.StatusInternalServerError)
	}
	if doc.StoredPath != "" {
		if err := os.Remove(doc.StoredPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("remove stored file", "path", doc.StoredPath, "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"document_id": doc.ID,
		"status":      "deleted",
		"message":     "Document deleted successfully",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func extAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

func uintParam(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(n), err
}

func jobProgress(status string) int {
	switch status {
	case datastore.JobQueued:
		return 0
	case datastore.JobRunning:
		return 50
	default:
		return 100
	}
}
