package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/blob"
	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/server/middleware"
)

// uploadField is the multipart field carrying the document
const uploadField = "resume"

// multipartOverhead allows for form boundaries and headers around the file
const multipartOverhead = 1 << 20

// ParseResponse is returned after an upload is stored
type ParseResponse struct {
	Success   bool              `json:"success"`
	ResumeID  uuid.UUID         `json:"resumeId"`
	ATSScore  int               `json:"atsScore"`
	Keywords  []string          `json:"keywords"`
	Skills    []string          `json:"skills"`
	Saved     bool              `json:"saved"`
	ResumeURL string            `json:"resumeUrl"`
	Analysis  *pipeline.Outcome `json:"analysis"`
}

// UpdateResumeRequest is the body of PATCH /resumes/{id}
type UpdateResumeRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// JobMatchRequest is the body of POST /resumes/{id}/job-match
type JobMatchRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

// JobMatchResponse reports how well a resume covers a job description
type JobMatchResponse struct {
	MatchScore      int      `json:"matchScore"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
}

// AnalysisResponse is the body of GET /resumes/{id}/analysis
type AnalysisResponse struct {
	KeywordsDensity map[string]int `json:"keywordsDensity"`
	Suggestions     []string       `json:"suggestions"`
}

// StatsResponse summarizes the caller's resumes
type StatsResponse struct {
	TotalResumes    int `json:"totalResumes"`
	AnalyzedResumes int `json:"analyzedResumes"`
	AverageScore    int `json:"averageScore"`
}

// ReanalyzeResponse is the body of POST /resumes/{id}/analyze
type ReanalyzeResponse struct {
	Resume   *resume.Record    `json:"resume"`
	Analysis *pipeline.Outcome `json:"analysis"`
}

// handleParseResume accepts a multipart upload and runs the pipeline on it
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	rec, outcome, err := s.pipeline.Run(r.Context(), upload)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, newParseResponse(rec, outcome))
}

// handleParseResumeStream runs the pipeline and streams progress as
// server-sent events, ending with a complete or error event.
func (s *Server) handleParseResumeStream(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	observed := s.pipeline.Observe(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Warn().Err(err).Msg("failed to write progress event")
		}
	})

	rec, outcome, err := observed.Run(r.Context(), upload)
	if err != nil {
		status := HTTPStatus(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			s.logger.Error().Err(err).Msg("streamed upload failed")
			message = "Internal server error"
		}
		sse.WriteError(status, message)
		return
	}

	sse.WriteComplete(newParseResponse(rec, outcome))
}

// readUpload reads the multipart document for the authenticated user. It
// writes the error response itself and returns false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (pipeline.Upload, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return pipeline.Upload{}, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, &ErrTooLarge{Limit: s.maxUpload})
			return pipeline.Upload{}, false
		}
		s.writeError(w, &ErrValidation{Field: uploadField, Message: "invalid multipart form"})
		return pipeline.Upload{}, false
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return pipeline.Upload{}, false
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		s.writeError(w, &ErrTooLarge{Limit: s.maxUpload})
		return pipeline.Upload{}, false
	}

	mimeType := uploadMIMEType(header.Header.Get("Content-Type"), header.Filename)
	if !extract.IsSupported(mimeType) {
		s.writeError(w, &extract.UnsupportedFormatError{MIMEType: mimeType})
		return pipeline.Upload{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to read upload: %w", err))
		return pipeline.Upload{}, false
	}

	return pipeline.Upload{
		UserID:   userID,
		FileName: header.Filename,
		MIMEType: mimeType,
		Data:     data,
	}, true
}

// uploadMIMEType trusts the part's declared type unless it is missing or
// generic, in which case the file extension decides.
func uploadMIMEType(declared, fileName string) string {
	declared = extract.NormalizeMIMEType(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	if byName := extract.MIMETypeForFile(fileName); byName != "" {
		return byName
	}
	return declared
}

func newParseResponse(rec *resume.Record, outcome pipeline.Outcome) ParseResponse {
	return ParseResponse{
		Success:   true,
		ResumeID:  rec.ID,
		ATSScore:  rec.ATSScore,
		Keywords:  rec.ATSKeywords,
		Skills:    rec.Skills.CurrentSkills,
		Saved:     true,
		ResumeURL: fmt.Sprintf("/resumes/%s", rec.ID),
		Analysis:  &outcome,
	}
}

// handleListResumes returns the caller's resumes, newest first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := s.store.ListByUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, records)
}

// handleUserStats summarizes the caller's resumes
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := s.store.ListByUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats := StatsResponse{TotalResumes: len(records)}
	var scores []int
	for _, rec := range records {
		if rec.HasAnalysis {
			stats.AnalyzedResumes++
			scores = append(scores, rec.ATSScore)
		}
	}
	stats.AverageScore = scoring.AverageScore(scores)

	s.jsonResponse(w, http.StatusOK, stats)
}

// handleGetResume returns one of the caller's resumes
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleUpdateResume renames a resume. Analysis fields are untouched, so the
// version stays the same.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req UpdateResumeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	saved, err := s.store.UpdateTitle(r.Context(), rec.ID, req.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if saved == nil {
		s.writeError(w, &ErrNotFound{Resource: "resume"})
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// handleDeleteResume removes a resume and its stored original
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.Delete(r.Context(), rec.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, &ErrNotFound{Resource: "resume"})
		return
	}

	if rec.FileKey != "" && s.files != nil {
		if err := s.files.Delete(r.Context(), rec.FileKey); err != nil {
			s.logger.Warn().Err(err).Str("resume_id", rec.ID.String()).Msg("failed to delete stored file")
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "id": rec.ID})
}

// handleResumeFile returns the original upload
func (s *Server) handleResumeFile(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	data := rec.FileData
	if len(data) == 0 && rec.FileKey != "" && s.files != nil {
		var err error
		data, err = s.files.Get(r.Context(), rec.FileKey)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				s.writeError(w, &ErrNotFound{Resource: "file"})
				return
			}
			s.writeError(w, err)
			return
		}
	}
	if len(data) == 0 {
		s.writeError(w, &ErrNotFound{Resource: "file"})
		return
	}

	w.Header().Set("Content-Type", rec.FileType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.FileName}))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write file response")
	}
}

// handleResumeAnalysis returns keyword density and suggestions for an
// analyzed resume
func (s *Server) handleResumeAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	if !rec.HasAnalysis {
		s.errorResponse(w, http.StatusNotFound, "Analysis not available")
		return
	}

	suggestions := rec.ResumeTips
	if len(suggestions) == 0 {
		suggestions = scoring.ResumeSuggestions(rec.RawText)
	}

	s.jsonResponse(w, http.StatusOK, AnalysisResponse{
		KeywordsDensity: scoring.KeywordDensity(rec.RawText),
		Suggestions:     suggestions,
	})
}

// handleReanalyze runs the model again on a stored resume
func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	updated, outcome, err := s.pipeline.Reanalyze(r.Context(), rec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ReanalyzeResponse{Resume: updated, Analysis: &outcome})
}

// handleJobMatch scores a resume against a job description
func (s *Server) handleJobMatch(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req JobMatchRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	s.jsonResponse(w, http.StatusOK, JobMatchResponse{
		MatchScore:      scoring.MatchScore(rec.RawText, req.JobDescription),
		MissingKeywords: scoring.MissingKeywords(rec.RawText, req.JobDescription),
		Suggestions:     scoring.JobMatchSuggestions(rec.RawText, req.JobDescription),
	})
}

// ownedResume loads the resume named by the {id} path value. Resumes of
// other users are reported as not found.
func (s *Server) ownedResume(w http.ResponseWriter, r *http.Request) (*resume.Record, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return nil, false
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if rec == nil || rec.UserID != userID {
		s.writeError(w, &ErrNotFound{Resource: "resume"})
		return nil, false
	}
	return rec, true
}

// decodeAndValidate reads a JSON body into dst, trims it when dst knows how,
// then validates it. It writes the error response itself.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if t, ok := dst.(interface{ trim() }); ok {
		t.trim()
	}
	if err := s.validator.Struct(dst); err != nil {
		s.writeError(w, validationError(err))
		return false
	}
	return true
}

func (r *UpdateResumeRequest) trim() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *JobMatchRequest) trim() {
	r.JobDescription = strings.TrimSpace(r.JobDescription)
}
