package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"seriesgen/internal/analysis"
	"seriesgen/internal/api/models"
	"seriesgen/internal/data"
	"seriesgen/internal/export"
	"seriesgen/internal/metrics"
	"seriesgen/internal/model"
	"seriesgen/internal/pipeline"
	"seriesgen/internal/sheet"
	"seriesgen/internal/store"
)

// Settings are the server-side defaults applied to every generation request.
type Settings struct {
	Layout         sheet.Layout
	Sheet          string
	Seed           int64
	MaxUploadBytes int64
	MaxRows        int
	PreviewRows    int
	ResultTTL      time.Duration
	Export         export.Options
	// FileName overrides the default download name; the extension follows the format.
	FileName string
}

// Publisher pushes an exported file to external storage and returns its key.
type Publisher interface {
	Upload(ctx context.Context, name, contentType string, body []byte) (string, error)
}

// GenerateHandler handles upload, preview and download of generated series.
type GenerateHandler struct {
	settings  Settings
	results   *store.ResultStore
	metrics   *metrics.Metrics
	publisher Publisher
	log       *zap.Logger
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(settings Settings, results *store.ResultStore, m *metrics.Metrics, log *zap.Logger) *GenerateHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &GenerateHandler{settings: settings, results: results, metrics: m, log: log}
}

// WithPublisher enables the publish endpoint.
func (h *GenerateHandler) WithPublisher(p Publisher) *GenerateHandler {
	h.publisher = p
	return h
}

// Generate handles POST /api/v1/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	if h.settings.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.settings.MaxUploadBytes)
	}

	var form models.GenerateForm
	if err := c.ShouldBind(&form); err != nil {
		if tooLarge(err) {
			h.uploadTooLarge(c)
			return
		}
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			h.uploadTooLarge(c)
			return
		}
		badRequest(c, "MISSING_FILE", "multipart field \"file\" is required")
		return
	}
	if _, err := data.DetectFormat(fh.Filename); err != nil {
		badRequest(c, "UNSUPPORTED_FILE", err.Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, time.Now(), model.UnexpectedFailure(err))
		return
	}
	defer f.Close()

	sheetName := h.settings.Sheet
	if form.Sheet != "" {
		sheetName = form.Sheet
	}
	seed := h.settings.Seed
	if form.Seed != nil {
		seed = *form.Seed
	}

	started := time.Now()
	res, err := pipeline.RunReader(f, fh.Filename, sheetName,
		pipeline.WithLayout(h.settings.Layout),
		pipeline.WithSeed(seed),
		pipeline.WithMaxRows(h.settings.MaxRows),
		pipeline.WithLogger(h.log.With(zap.String("upload", fh.Filename))),
	)
	if err != nil {
		h.fail(c, started, err)
		return
	}
	h.metrics.Observe(metrics.OutcomeSuccess, res.Table.NumRows(), time.Since(started))

	result := &store.Result{
		SourceName: fh.Filename,
		Table:      res.Table,
		Header:     res.Plan.Header,
		Series:     res.Plan.Series,
	}
	h.results.Put(result)

	previewRows := h.settings.PreviewRows
	if form.PreviewRows != nil {
		previewRows = *form.PreviewRows
	}
	c.JSON(http.StatusOK, h.buildResponse(result, previewRows))
}

// Download handles GET /api/v1/generate/:id/download
func (h *GenerateHandler) Download(c *gin.Context) {
	_, format, body, ok := h.exportStored(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.fileName(format)))
	c.Data(http.StatusOK, format.ContentType(), body)
}

// Publish handles POST /api/v1/generate/:id/publish
func (h *GenerateHandler) Publish(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "PUBLISH_DISABLED",
				Message: "object storage is not configured",
			},
		})
		return
	}
	result, format, body, ok := h.exportStored(c)
	if !ok {
		return
	}

	name := result.ID + "/" + h.fileName(format)
	key, err := h.publisher.Upload(c.Request.Context(), name, format.ContentType(), body)
	if err != nil {
		h.log.Error("publish failed", zap.String("id", result.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "PUBLISH_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, models.PublishResponse{ID: result.ID, Key: key, Format: string(format)})
}

// exportStored resolves :id and ?format= and encodes the stored table. On
// failure the error response has already been written.
func (h *GenerateHandler) exportStored(c *gin.Context) (*store.Result, export.Format, []byte, bool) {
	var q models.DownloadQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "INVALID_FORMAT", err.Error())
		return nil, "", nil, false
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		badRequest(c, "INVALID_FORMAT", err.Error())
		return nil, "", nil, false
	}

	result, ok := h.results.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: "no generated data for this id; it may have expired",
			},
		})
		return nil, "", nil, false
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, result.Table, format, h.settings.Export); err != nil {
		h.log.Error("export failed", zap.String("id", result.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "EXPORT_ERROR",
				Message: err.Error(),
			},
		})
		return nil, "", nil, false
	}
	return result, format, buf.Bytes(), true
}

// Discard handles DELETE /api/v1/generate/:id
func (h *GenerateHandler) Discard(c *gin.Context) {
	if !h.results.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: "no generated data for this id; it may have expired",
			},
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/v1/generate/:id/stats
func (h *GenerateHandler) Stats(c *gin.Context) {
	result, ok := h.results.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: "no generated data for this id; it may have expired",
			},
		})
		return
	}

	ranked := analysis.RankBySpread(analysis.SummarizeTable(result.Table))
	out := make([]models.SeriesStat, len(ranked))
	for i, r := range ranked {
		out[i] = stat(r.SeriesSummary)
		out[i].Rank = r.Rank
	}
	c.JSON(http.StatusOK, models.StatsResponse{ID: result.ID, Series: out})
}

func stats(summaries []analysis.SeriesSummary) []models.SeriesStat {
	out := make([]models.SeriesStat, len(summaries))
	for i, s := range summaries {
		out[i] = stat(s)
	}
	return out
}

func stat(s analysis.SeriesSummary) models.SeriesStat {
	return models.SeriesStat{
		Name:         s.Name,
		Count:        s.Count,
		Min:          s.Min,
		Max:          s.Max,
		Mean:         s.Mean,
		P05:          s.P05,
		P95:          s.P95,
		SpreadP95P05: s.SpreadP95P05,
	}
}

// Template handles GET /api/v1/template
func (h *GenerateHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := data.WriteTemplate(&buf, data.DefaultTemplate()); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "TEMPLATE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="series_template.xlsx"`)
	c.Data(http.StatusOK, export.FormatXLSX.ContentType(), buf.Bytes())
}

func (h *GenerateHandler) fileName(format export.Format) string {
	if h.settings.FileName == "" {
		return format.FileName()
	}
	return h.settings.FileName + format.Extension()
}

func (h *GenerateHandler) buildResponse(r *store.Result, previewRows int) models.GenerateResponse {
	series := make([]models.SeriesInfo, len(r.Series))
	for i, s := range r.Series {
		series[i] = models.SeriesInfo{Name: s.Name, Low: s.Low, High: s.High, Row: s.Row}
	}
	return models.GenerateResponse{
		ID:          r.ID,
		SourceName:  r.SourceName,
		Rows:        r.Table.NumRows(),
		Columns:     r.Table.NumColumns(),
		Header:      r.Table.Header(),
		Window:      models.TimeWindow{Start: r.Header.Start, End: r.Header.End},
		Frequency:   string(r.Header.Frequency),
		Series:      series,
		Preview:     export.Preview(r.Table, previewRows, h.settings.Export),
		Stats:       stats(analysis.SummarizeTable(r.Table)),
		DownloadURL: fmt.Sprintf("/api/v1/generate/%s/download", r.ID),
		ExpiresAt:   r.CreatedAt.Add(h.settings.ResultTTL),
	}
}

// fail maps pipeline errors onto the error envelope: input problems are 422,
// anything else is 500.
func (h *GenerateHandler) fail(c *gin.Context, started time.Time, err error) {
	var pe *model.PipelineError
	if !errors.As(err, &pe) {
		pe = model.UnexpectedFailure(err)
	}

	status := http.StatusUnprocessableEntity
	outcome := metrics.OutcomeInvalidInput
	if pe.Kind == model.ErrUnexpectedFailure {
		status = http.StatusInternalServerError
		outcome = metrics.OutcomeFailure
		h.log.Error("generation failed", zap.Error(err))
	} else {
		h.log.Info("rejected upload", zap.String("kind", string(pe.Kind)), zap.Error(err))
	}
	h.metrics.Observe(outcome, 0, time.Since(started))

	details := map[string]interface{}{}
	if pe.Label != "" {
		details["label"] = pe.Label
	}
	if pe.Row >= 0 {
		details["row"] = pe.Row
	}
	if pe.Text != "" {
		details["text"] = pe.Text
	}
	if pe.Limit > 0 {
		details["limit"] = pe.Limit
	}
	if len(details) == 0 {
		details = nil
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    string(pe.Kind),
			Message: pe.Error(),
			Details: details,
		},
	})
}

func (h *GenerateHandler) uploadTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UPLOAD_TOO_LARGE",
			Message: fmt.Sprintf("upload exceeds %d bytes", h.settings.MaxUploadBytes),
		},
	})
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
		},
	})
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
