// Package api serves the recognition endpoint and its debugging companions
// over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/motion.report/internal/db"
	"github.com/banshee-data/motion.report/internal/features"
	"github.com/banshee-data/motion.report/internal/httputil"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/pipeline"
	"github.com/banshee-data/motion.report/internal/version"
)

// maxBodyBytes bounds a /predict or /api/features request body.
const maxBodyBytes = 16 << 20

var logf = monitoring.Component("api")

type Server struct {
	pipeline *pipeline.Pipeline
	db       *db.DB
}

// NewServer returns a Server. database may be nil, in which case nothing is
// persisted and the history endpoints report 503.
func NewServer(p *pipeline.Pipeline, database *db.DB) *Server {
	return &Server{pipeline: p, db: database}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.predict)
	mux.HandleFunc("/api/predictions", s.listPredictions)
	mux.HandleFunc("/api/features", s.showFeatures)
	mux.HandleFunc("/api/version", s.showVersion)
	return mux
}

// Process runs the pipeline over one batch and, with a database attached,
// stores the batch and its result. Storage failures are logged but do not
// change the result.
func (s *Server) Process(ctx context.Context, source string, readings []features.Reading) (pipeline.Result, error) {
	res, err := s.pipeline.Run(readings)
	if err != nil {
		return pipeline.Result{}, err
	}
	if s.db == nil {
		return res, nil
	}

	batchID, err := s.db.RecordBatch(ctx, source, readings)
	if err != nil {
		logf("failed to record %s batch: %v", source, err)
		return res, nil
	}
	if err := s.db.RecordPrediction(ctx, db.Prediction{
		BatchID:       batchID,
		Status:        res.Status,
		Exercise:      res.Exercise,
		ExerciseScore: res.ExerciseScore,
		Mistakes:      res.Mistakes,
		MistakesScore: res.MistakesScore,
		Message:       res.Message,
	}); err != nil {
		logf("failed to record prediction for batch %s: %v", batchID, err)
	}
	return res, nil
}

// HandleBatch processes a batch delivered by the serial collector.
func (s *Server) HandleBatch(ctx context.Context, readings []features.Reading) error {
	res, err := s.Process(ctx, "serial", readings)
	if err != nil {
		return err
	}
	if res.Status == pipeline.StatusOK {
		logf("serial batch of %d readings: exercise %s (%.2f), mistakes %s (%.2f)",
			len(readings), res.Exercise, res.ExerciseScore, res.Mistakes, res.MistakesScore)
	} else {
		logf("serial batch of %d readings: %s", len(readings), res.Message)
	}
	return nil
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	if !httputil.AllowMethods(w, r, http.MethodPost) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, pipeline.Failed("Method not allowed"))
		return
	}

	readings, err := features.ReadReadingsJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if errors.Is(err, features.ErrNotList) {
		// Clients expect a 200 with a FAILED status for a wrongly shaped body.
		httputil.WriteJSON(w, http.StatusOK, pipeline.Failed("Input must be of type list"))
		return
	}
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, pipeline.Failed(err.Error()))
		return
	}

	res, err := s.Process(r.Context(), "http", readings)
	if err != nil {
		logf("prediction failed: %v", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, pipeline.Failed(err.Error()))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) listPredictions(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "No database attached")
		return
	}

	limit := db.DefaultPredictionLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.WriteJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	predictions, err := s.db.RecentPredictions(r.Context(), limit)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve predictions: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, predictions)
}

func (s *Server) showFeatures(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	stage, err := pipeline.ParseStage(r.URL.Query().Get("stage"))
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	readings, err := features.ReadReadingsJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := s.pipeline.Features(readings, stage)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, table)
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, version.Current())
}
