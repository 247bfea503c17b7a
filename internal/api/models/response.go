package models

import "time"

// GenerateResponse describes a stored generation result with a preview of its rows.
type GenerateResponse struct {
	ID          string       `json:"id"`
	SourceName  string       `json:"source_name"`
	Rows        int          `json:"rows"`
	Columns     int          `json:"columns"`
	Header      []string     `json:"header"`
	Window      TimeWindow   `json:"window"`
	Frequency   string       `json:"frequency"`
	Series      []SeriesInfo `json:"series"`
	Preview     [][]string   `json:"preview"`
	Stats       []SeriesStat `json:"stats"`
	DownloadURL string       `json:"download_url"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SeriesInfo echoes one series row detected in the upload.
type SeriesInfo struct {
	Name string `json:"name"`
	Low  int    `json:"low"`
	High int    `json:"high"`
	Row  int    `json:"row"` // 0-based sheet row
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PublishResponse reports where a result was written in object storage.
type PublishResponse struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Format string `json:"format"`
}

// SeriesStat summarizes the generated values of one series.
type SeriesStat struct {
	Rank         int     `json:"rank,omitempty"`
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	P05          float64 `json:"p05"`
	P95          float64 `json:"p95"`
	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

// StatsResponse ranks the series of a stored result by spread.
type StatsResponse struct {
	ID     string       `json:"id"`
	Series []SeriesStat `json:"series"`
}
