package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"seriesgen/internal/api/models"
	"seriesgen/internal/config"
	"seriesgen/internal/data"
	"seriesgen/internal/metrics"
	"seriesgen/internal/store"
)

const scenarioCSV = "Hourly data generator\n" +
	",Start,2024-06-01\n" +
	",End,2024-06-01 02:00\n" +
	",Frequency,hourly\n" +
	",,Series,Low,High\n" +
	",,Temp,10,20\n" +
	",,Humidity,30,50\n"

type recordingPublisher struct {
	name, contentType string
	body              []byte
	err               error
}

func (p *recordingPublisher) Upload(_ context.Context, name, contentType string, body []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.name, p.contentType, p.body = name, contentType, body
	return "exports/" + name, nil
}

type RouterTestSuite struct {
	suite.Suite
	cfg       *config.Config
	results   *store.ResultStore
	metrics   *metrics.Metrics
	publisher *recordingPublisher
	router    *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterTestSuite))
}

func (suite *RouterTestSuite) SetupTest() {
	suite.cfg = config.Default()
	suite.cfg.Server.PreviewRows = 2
	suite.results = store.New(time.Minute, time.Hour)
	reg := prometheus.NewRegistry()
	suite.metrics = metrics.New(reg)
	suite.publisher = &recordingPublisher{}
	suite.router = NewRouter(Deps{
		Config:    suite.cfg,
		Results:   suite.results,
		Metrics:   suite.metrics,
		Gatherer:  reg,
		Publisher: suite.publisher,
	})
}

func (suite *RouterTestSuite) TearDownTest() {
	suite.results.Close()
}

func (suite *RouterTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) upload(filename string, body []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		suite.Require().NoError(err)
		_, err = fw.Write(body)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return suite.do(req)
}

func (suite *RouterTestSuite) generated(w *httptest.ResponseRecorder) models.GenerateResponse {
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp models.GenerateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (suite *RouterTestSuite) errorBody(w *httptest.ResponseRecorder) models.ErrorDetail {
	var resp models.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func (suite *RouterTestSuite) TestHealth() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"ok"}`, w.Body.String())
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (suite *RouterTestSuite) TestRequestIDIsPropagated() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := suite.do(req)
	suite.Equal("abc-123", w.Header().Get("X-Request-ID"))
}

func (suite *RouterTestSuite) TestGenerateAndDownloadCSV() {
	resp := suite.generated(suite.upload("input.csv", []byte(scenarioCSV), map[string]string{"seed": "7"}))

	suite.NotEmpty(resp.ID)
	suite.Equal("input.csv", resp.SourceName)
	suite.Equal(3, resp.Rows)
	suite.Equal(3, resp.Columns)
	suite.Equal([]string{"timestamp", "Temp", "Humidity"}, resp.Header)
	suite.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), resp.Window.Start.UTC())
	suite.Equal(time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC), resp.Window.End.UTC())
	suite.Equal("hourly", resp.Frequency)
	suite.Require().Len(resp.Series, 2)
	suite.Equal(models.SeriesInfo{Name: "Temp", Low: 10, High: 20, Row: 5}, resp.Series[0])
	suite.Len(resp.Preview, 2, "preview is capped by configuration")
	suite.Equal("2024-06-01 00:00:00", resp.Preview[0][0])
	suite.Equal(fmt.Sprintf("/api/v1/generate/%s/download", resp.ID), resp.DownloadURL)

	w := suite.do(httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "text/csv")
	suite.Contains(w.Header().Get("Content-Disposition"), "generated_hourly_data.csv")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	suite.Require().Len(lines, 4)
	suite.Equal("timestamp,Temp,Humidity", lines[0])
	suite.Equal(strings.Join(resp.Preview[0], ","), lines[1])
	suite.True(strings.HasPrefix(lines[3], "2024-06-01 02:00:00,"))

	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.Runs.WithLabelValues(metrics.OutcomeSuccess)))
	suite.Equal(3.0, testutil.ToFloat64(suite.metrics.Rows))
}

func (suite *RouterTestSuite) TestSeedIsReproducible() {
	a := suite.generated(suite.upload("a.csv", []byte(scenarioCSV), map[string]string{"seed": "42", "preview_rows": "3"}))
	b := suite.generated(suite.upload("b.csv", []byte(scenarioCSV), map[string]string{"seed": "42", "preview_rows": "3"}))
	suite.NotEqual(a.ID, b.ID)
	suite.Equal(a.Preview, b.Preview)
	suite.Len(a.Preview, 3)
}

func (suite *RouterTestSuite) TestGenerateFromTemplateWorkbook() {
	var buf bytes.Buffer
	suite.Require().NoError(data.WriteTemplate(&buf, data.DefaultTemplate()))

	resp := suite.generated(suite.upload("template.xlsx", buf.Bytes(), nil))
	suite.Equal(24, resp.Rows)

	w := suite.do(httptest.NewRequest(http.MethodGet, resp.DownloadURL+"?format=xlsx", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Disposition"), "generated_hourly_data.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	suite.Require().NoError(err)
	suite.Len(rows, 25)
}

func (suite *RouterTestSuite) TestStatsStayWithinBounds() {
	resp := suite.generated(suite.upload("input.csv", []byte(scenarioCSV), nil))
	suite.Require().Len(resp.Stats, 2)
	temp := resp.Stats[0]
	suite.Equal("Temp", temp.Name)
	suite.Equal(3, temp.Count)
	suite.GreaterOrEqual(temp.Min, 10.0)
	suite.Less(temp.Max, 20.0)

	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/v1/generate/"+resp.ID+"/stats", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	var ranked models.StatsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ranked))
	suite.Equal(resp.ID, ranked.ID)
	suite.Require().Len(ranked.Series, 2)
	suite.Equal(1, ranked.Series[0].Rank)
	suite.Equal(2, ranked.Series[1].Rank)
	suite.GreaterOrEqual(ranked.Series[0].SpreadP95P05, ranked.Series[1].SpreadP95P05)

	w = suite.do(httptest.NewRequest(http.MethodGet, "/api/v1/generate/missing/stats", nil))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestDownloadParquet() {
	resp := suite.generated(suite.upload("input.csv", []byte(scenarioCSV), nil))
	w := suite.do(httptest.NewRequest(http.MethodGet, resp.DownloadURL+"?format=parquet", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(bytes.HasPrefix(w.Body.Bytes(), []byte("PAR1")))
}

func (suite *RouterTestSuite) TestDownloadErrors() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/v1/generate/unknown/download", nil))
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("RESULT_NOT_FOUND", suite.errorBody(w).Code)

	resp := suite.generated(suite.upload("input.csv", []byte(scenarioCSV), nil))
	w = suite.do(httptest.NewRequest(http.MethodGet, resp.DownloadURL+"?format=json", nil))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_FORMAT", suite.errorBody(w).Code)
}

func (suite *RouterTestSuite) TestPipelineErrorsAre422() {
	tests := []struct {
		name  string
		body  string
		code  string
		label string
	}{
		{
			name:  "missing end",
			body:  ",Start,2024-06-01\n,Frequency,hourly\n,,Series\n",
			code:  "MISSING_LABEL",
			label: "end",
		},
		{
			name:  "missing marker",
			body:  ",Start,2024-06-01\n,End,2024-06-02\n,Frequency,hourly\n",
			code:  "MISSING_MARKER",
			label: "series",
		},
		{
			name: "daily frequency",
			body: ",Start,2024-06-01\n,End,2024-06-02\n,Frequency,daily\n,,Series\n",
			code: "UNSUPPORTED_FREQUENCY",
		},
		{
			name:  "bad date",
			body:  ",Start,soon\n,End,2024-06-02\n,Frequency,hourly\n,,Series\n",
			code:  "INVALID_DATE",
			label: "start",
		},
		{
			name: "non numeric bound",
			body: ",Start,2024-06-01\n,End,2024-06-02\n,Frequency,hourly\n,,Series\n,,Temp,abc,5\n",
			code: "INVALID_SERIES_ROW",
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.upload("input.csv", []byte(tt.body), nil)
			suite.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
			detail := suite.errorBody(w)
			suite.Equal(tt.code, detail.Code)
			suite.NotEmpty(detail.Message)
			if tt.label != "" {
				suite.Equal(tt.label, detail.Details["label"])
			}
		})
	}
	suite.Equal(float64(len(tests)), testutil.ToFloat64(suite.metrics.Runs.WithLabelValues(metrics.OutcomeInvalidInput)))
}

func (suite *RouterTestSuite) TestWindowTooLarge() {
	suite.cfg.Server.MaxRows = 1000
	suite.router = NewRouter(Deps{Config: suite.cfg, Results: suite.results})

	body := ",Start,1500-01-01\n,End,2499-12-31\n,Frequency,hourly\n,,Series\n,,A,1,2\n"
	w := suite.upload("input.csv", []byte(body), nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	detail := suite.errorBody(w)
	suite.Equal("WINDOW_TOO_LARGE", detail.Code)
	suite.Equal("8765809", detail.Details["text"])
	suite.Equal(float64(1000), detail.Details["limit"])
	suite.Equal(0, suite.results.Len())

	w = suite.upload("input.csv", []byte(scenarioCSV), nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestUnreadableWorkbookIs500() {
	w := suite.upload("broken.xlsx", []byte("not a zip"), nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("UNEXPECTED_FAILURE", suite.errorBody(w).Code)
}

func (suite *RouterTestSuite) TestUploadValidation() {
	w := suite.upload("", nil, map[string]string{"seed": "1"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("MISSING_FILE", suite.errorBody(w).Code)

	w = suite.upload("input.pdf", []byte("%PDF"), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("UNSUPPORTED_FILE", suite.errorBody(w).Code)

	w = suite.upload("input.csv", []byte(scenarioCSV), map[string]string{"seed": "many"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_REQUEST", suite.errorBody(w).Code)
}

func (suite *RouterTestSuite) TestUploadTooLarge() {
	suite.cfg.Server.MaxUploadBytes = 256
	suite.router = NewRouter(Deps{Config: suite.cfg, Results: suite.results})

	w := suite.upload("input.csv", bytes.Repeat([]byte("x,"), 4096), nil)
	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	suite.Equal("UPLOAD_TOO_LARGE", suite.errorBody(w).Code)
}

func (suite *RouterTestSuite) TestDiscard() {
	resp := suite.generated(suite.upload("input.csv", []byte(scenarioCSV), nil))

	w := suite.do(httptest.NewRequest(http.MethodDelete, "/api/v1/generate/"+resp.ID, nil))
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(httptest.NewRequest(http.MethodDelete, "/api/v1/generate/"+resp.ID, nil))
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("RESULT_NOT_FOUND", suite.errorBody(w).Code)
}

func (suite *RouterTestSuite) TestTemplate() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/v1/template", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Disposition"), "series_template.xlsx")

	grid, err := data.ReadXLSX(bytes.NewReader(w.Body.Bytes()), "")
	suite.Require().NoError(err)
	v, ok := grid.Value(2, 1)
	suite.True(ok)
	suite.Equal("Start", v)
}

func (suite *RouterTestSuite) TestPublish() {
	resp := suite.generated(suite.upload("input.csv", []byte(scenarioCSV), nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/"+resp.ID+"/publish?format=csv", nil)
	w := suite.do(req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var pub models.PublishResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &pub))
	suite.Equal(resp.ID, pub.ID)
	suite.Equal("exports/"+resp.ID+"/generated_hourly_data.csv", pub.Key)
	suite.Equal("csv", pub.Format)
	suite.Contains(suite.publisher.contentType, "text/csv")
	suite.True(bytes.HasPrefix(suite.publisher.body, []byte("timestamp,Temp,Humidity\n")))

	suite.publisher.err = errors.New("bucket gone")
	w = suite.do(httptest.NewRequest(http.MethodPost, "/api/v1/generate/"+resp.ID+"/publish", nil))
	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal("PUBLISH_ERROR", suite.errorBody(w).Code)
}

func (suite *RouterTestSuite) TestPublishDisabled() {
	router := NewRouter(Deps{Config: suite.cfg, Results: suite.results})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/generate/x/publish", nil))
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *RouterTestSuite) TestMetricsEndpoint() {
	suite.generated(suite.upload("input.csv", []byte(scenarioCSV), nil))
	w := suite.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `seriesgen_runs_total{outcome="success"} 1`)
}

func (suite *RouterTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := suite.do(req)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (suite *RouterTestSuite) TestNoRoute() {
	w := suite.do(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	suite.Equal(http.StatusNotFound, w.Code)
}
