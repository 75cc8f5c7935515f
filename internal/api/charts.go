package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
	"tailscale.com/tsweb"

	"github.com/banshee-data/motion.report/internal/db"
	"github.com/banshee-data/motion.report/internal/features"
	"github.com/banshee-data/motion.report/internal/httputil"
	"github.com/banshee-data/motion.report/internal/pipeline"
)

// AttachAdminRoutes mounts the feature chart on the /debug/ handler.
func (s *Server) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	debug.HandleFunc("features/chart", "Acceleration magnitude of the latest batch", s.handleFeatureChart)
}

// handleFeatureChart renders the acceleration magnitude of every sensor in
// the latest stored batch, or in ?batch=<id>, as an HTML line chart.
func (s *Server) handleFeatureChart(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "No database attached")
		return
	}
	ctx := r.Context()

	var batchID uuid.UUID
	if b := r.URL.Query().Get("batch"); b != "" {
		id, err := parseBatchID(b)
		if err != nil {
			httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		batchID = id
	} else {
		id, err := s.db.LastBatchID(ctx)
		if errors.Is(err, db.ErrNotFound) {
			httputil.WriteJSONError(w, http.StatusNotFound, "No batches recorded yet")
			return
		}
		if err != nil {
			httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		batchID = id
	}

	readings, err := s.db.BatchReadings(ctx, batchID)
	if errors.Is(err, db.ErrNotFound) {
		httputil.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Batch %s not found", batchID))
		return
	}
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	table, err := s.pipeline.Features(readings, pipeline.StageMagnitude)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	line := magnitudeChart(table, batchID.String())
	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func magnitudeChart(t *features.Table, subtitle string) *charts.Line {
	x := make([]int, t.Len())
	for r := range x {
		x[r] = t.Label(r)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Acceleration magnitude", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Acceleration magnitude", Subtitle: fmt.Sprintf("batch=%s rows=%d", subtitle, t.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "row", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m/s²", NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x)

	suffix := "." + features.AccMagnitude.String()
	for _, name := range t.Columns() {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		col, _ := t.Column(name)
		data := make([]opts.LineData, len(col))
		for i, v := range col {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries("sensor "+strings.TrimSuffix(name, suffix), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}
