package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"orato/internal/api"
	"orato/internal/campus"
	"orato/internal/logging"
	"orato/internal/scam"
	"orato/internal/services"
	"orato/internal/textutil"
)

const (
	noVideoUploaded = "No video uploaded"
	noHumanDetected = "No human detected in the video."
	videoTooLarge   = "Video exceeds the upload limit"
	maxHistoryLimit = 500
	maxMessageBytes = 1 << 20
)

var (
	//go:embed static/scam_home.html
	scamHomePage []byte
	//go:embed static/predict_page.html
	predictPage []byte
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := services.WithPipeline(r.Context(), "presentation")
	logger := logging.WithContext(ctx, s.log())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	file, header, err := r.FormFile("video")
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, videoTooLarge)
			return
		}
		logger.Info("analyze request without video", logging.Error(err))
		s.writeError(w, http.StatusBadRequest, noVideoUploaded)
		return
	}
	defer file.Close()

	path := filepath.Join(s.cfg.Paths.UploadDir, textutil.UploadName(uuid.NewString(), header.Filename))
	if err := saveUpload(path, file); err != nil {
		logging.ErrorWithContext(logger, "failed to save upload", "upload_save_failed",
			logging.Error(err),
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "check that paths.upload_dir exists and is writable"),
		)
		s.writeError(w, http.StatusInternalServerError, "Failed to save video: "+err.Error())
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.WarnWithContext(logger, "failed to remove upload", "upload_cleanup_failed",
				logging.Error(err),
				logging.String("path", path),
				logging.String(logging.FieldErrorHint, "remove the file manually from paths.upload_dir"),
			)
		}
	}()
	logger.Info("video saved", logging.String("path", path), logging.Int64("bytes", header.Size))

	result, err := s.deps.Analyzer.Analyze(ctx, path)
	switch {
	case errors.Is(err, services.ErrNoHuman):
		logger.Info("no human detected, skipping analysis")
		s.writeError(w, http.StatusBadRequest, noHumanDetected)
		return
	case err != nil:
		logging.ErrorWithContext(logger, "presentation analysis failed", "analysis_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run orato status to check ffmpeg and the vision sidecar"),
		)
		s.writeError(w, http.StatusInternalServerError, criticalFailure)
		return
	}

	s.record(ctx, "presentation", func(ctx context.Context) error {
		return s.deps.History.RecordPresentation(ctx, textutil.SanitizeFileName(header.Filename), result)
	})
	s.writeJSON(w, http.StatusOK, result)
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}

// readMessage decodes {"message": ...}. Missing, blank, or undecodable
// bodies all yield "".
func readMessage(r *http.Request) string {
	var req api.MessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.Message)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	message := readMessage(r)
	if message == "" {
		s.writeError(w, http.StatusBadRequest, scam.NoMessage)
		return
	}
	ctx := services.WithPipeline(r.Context(), "campus")
	reply := s.deps.Assistant.Chat(ctx, message)
	s.writeJSON(w, http.StatusOK, api.ChatResponse{
		Response:     reply,
		ResponseHTML: campus.RenderHTML(reply),
		Status:       api.StatusSuccess,
	})
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	day := r.PathValue("day")
	s.writeJSON(w, http.StatusOK, api.TimetableResponse{
		Day:      day,
		Schedule: s.deps.Campus.TimetableForDay(day),
		Status:   api.StatusSuccess,
	})
}

func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.writeJSON(w, http.StatusOK, api.SubjectResponse{
		Subject: name,
		Info:    s.deps.Campus.SubjectInfo(name),
		Status:  api.StatusSuccess,
	})
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	s.writeJSON(w, http.StatusOK, api.RoomResponse{
		Room:   query,
		Info:   s.deps.Campus.RoomInfo(query),
		Status: api.StatusSuccess,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := services.WithPipeline(r.Context(), "scam")
	verdict, err := s.deps.Classifier.Predict(ctx, readMessage(r))
	if err != nil {
		var modelErr *scam.ModelError
		switch {
		case errors.As(err, &modelErr):
			s.writeError(w, http.StatusInternalServerError, modelErr.Error())
		case services.HTTPStatus(err) == http.StatusBadRequest:
			s.writeError(w, http.StatusBadRequest, scam.NoMessage)
		default:
			logging.ErrorWithContext(logging.WithContext(ctx, s.log()), "classification failed", "scam_predict_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect the scam model artifacts"),
			)
			s.writeError(w, http.StatusInternalServerError, criticalFailure)
		}
		return
	}
	s.record(ctx, "verdict", func(ctx context.Context) error {
		return s.deps.History.RecordVerdict(ctx, verdict)
	})
	s.writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) handleScamHome(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, scamHomePage)
}

func (s *Server) handlePredictPage(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, predictPage)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// historyLimit reads ?limit=, falling back to history.recent_limit.
func (s *Server) historyLimit(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return s.cfg.History.RecentLimit, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return min(parsed, maxHistoryLimit), true
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.historyLimit(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	records, err := s.deps.History.RecentVerdicts(r.Context(), limit)
	if err != nil {
		s.historyFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{Items: api.FromVerdicts(records)})
}

func (s *Server) handleAnalyzeHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.historyLimit(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	records, err := s.deps.History.RecentPresentations(r.Context(), limit)
	if err != nil {
		s.historyFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.PresentationHistoryResponse{Items: api.FromPresentations(records)})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.deps.History.ClearVerdicts(r.Context())
	if err != nil {
		s.historyFailure(w, r, err)
		return
	}
	s.log().Info("verdict history cleared", logging.Int64("deleted", deleted))
	s.writeJSON(w, http.StatusOK, api.ClearResponse{Deleted: deleted})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.History.VerdictStats(r.Context())
	if err != nil {
		s.historyFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromStats(stats))
}

func (s *Server) historyFailure(w http.ResponseWriter, r *http.Request, err error) {
	logging.ErrorWithContext(logging.WithContext(r.Context(), s.log()), "history query failed", "history_query_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check history.path and disk space"),
	)
	s.writeError(w, http.StatusInternalServerError, "history unavailable")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Status == nil {
		s.writeJSON(w, http.StatusOK, api.ServiceStatus{Healthy: true, PID: os.Getpid()})
		return
	}
	deep, _ := strconv.ParseBool(r.URL.Query().Get("deep"))
	s.writeJSON(w, http.StatusOK, s.deps.Status(r.Context(), deep))
}

// record persists a result without failing the request.
func (s *Server) record(ctx context.Context, kind string, fn func(context.Context) error) {
	if s.deps.History == nil {
		return
	}
	if err := fn(ctx); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.log()), "failed to record history", "history_write_failed",
			logging.Error(err),
			logging.String("kind", kind),
			logging.String(logging.FieldImpact, "result returned to client but not stored"),
			logging.String(logging.FieldErrorHint, "check history.path and disk space"),
		)
	}
}
