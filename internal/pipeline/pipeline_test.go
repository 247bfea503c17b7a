package pipeline

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"seriesgen/internal/data"
	"seriesgen/internal/model"
)

type PipelineTestSuite struct {
	suite.Suite
	logger *zap.Logger
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (suite *PipelineTestSuite) SetupSuite() {
	suite.logger = zap.NewNop()
}

func scenarioGrid() model.RawGrid {
	return model.NewRawGrid([][]string{
		{"", "Hourly data generator"},
		{},
		{"", "Start", "2024-06-01"},
		{"", "End", "2024-06-01 02:00"},
		{"", "Frequency", "hourly"},
		{},
		{"", "", "Series", "Low", "High"},
		{"", "", "Temp", "10", "20"},
		{"", "", "Humidity", "30", "50"},
	})
}

func (suite *PipelineTestSuite) requireKind(err error, kind model.ErrorKind) *model.PipelineError {
	suite.Require().Error(err)
	var pe *model.PipelineError
	suite.Require().True(errors.As(err, &pe), "error %T is not a PipelineError", err)
	suite.Equal(kind, pe.Kind)
	return pe
}

func (suite *PipelineTestSuite) TestScenario() {
	table, err := Generate(scenarioGrid(), WithSeed(1), WithLogger(suite.logger))
	suite.Require().NoError(err)

	suite.Equal([]string{"timestamp", "Temp", "Humidity"}, table.Header())
	suite.Equal([]time.Time{
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC),
	}, table.Timestamps)

	temp, _ := table.Column("Temp")
	for _, v := range temp.Values {
		suite.GreaterOrEqual(v, 10.0)
		suite.Less(v, 20.0)
	}
	hum, _ := table.Column("Humidity")
	for _, v := range hum.Values {
		suite.GreaterOrEqual(v, 30.0)
		suite.Less(v, 50.0)
	}
}

func (suite *PipelineTestSuite) TestInclusiveWindow() {
	grid := model.NewRawGrid([][]string{
		{"", "Start", "2024-01-01 00:00"},
		{"", "End", "2024-01-01 03:00"},
		{"", "Frequency", "Hourly"},
		{"", "", "Series"},
	})
	table, err := Generate(grid)
	suite.Require().NoError(err)
	suite.Equal(4, table.NumRows())
	suite.Equal(1, table.NumColumns())
}

func (suite *PipelineTestSuite) TestMaxRows() {
	grid := model.NewRawGrid([][]string{
		{"", "Start", "1500-01-01"},
		{"", "End", "2499-12-31"},
		{"", "Frequency", "hourly"},
		{"", "", "Series"},
		{"", "", "A", "1", "2"},
	})
	table, err := Generate(grid, WithMaxRows(1000))
	suite.Nil(table)
	pe := suite.requireKind(err, model.ErrWindowTooLarge)
	suite.Equal("8765809", pe.Text)
	suite.Equal(1000, pe.Limit)

	// the limit is inclusive
	table, err = Generate(scenarioGrid(), WithMaxRows(3))
	suite.Require().NoError(err)
	suite.Equal(3, table.NumRows())
}

func (suite *PipelineTestSuite) TestReversedWindowIsHeaderOnly() {
	grid := model.NewRawGrid([][]string{
		{"", "Start", "2024-01-02"},
		{"", "End", "2024-01-01"},
		{"", "Frequency", "hourly"},
		{"", "", "Series"},
		{"", "", "A", "1", "5"},
	})
	table, err := Generate(grid)
	suite.Require().NoError(err)
	suite.Equal(0, table.NumRows())
	suite.Equal([]string{"timestamp", "A"}, table.Header())
}

func (suite *PipelineTestSuite) TestSparseSeriesRows() {
	grid := model.NewRawGrid([][]string{
		{"", "Start", "2024-01-01"},
		{"", "End", "2024-01-01 01:00"},
		{"", "Frequency", "hourly"},
		{"", "", "Series"},
		{"", "", "A", "1", "5"},
		{"", "", "B", "1"},
	})
	table, err := Generate(grid)
	suite.Require().NoError(err)
	suite.Equal([]string{"timestamp", "A"}, table.Header())
}

func (suite *PipelineTestSuite) TestPointMass() {
	grid := model.NewRawGrid([][]string{
		{"", "Start", "2024-01-01"},
		{"", "End", "2024-01-02"},
		{"", "Frequency", "hourly"},
		{"", "", "Series"},
		{"", "", "A", "10", "10"},
	})
	for i := 0; i < 3; i++ {
		table, err := Generate(grid)
		suite.Require().NoError(err)
		a, ok := table.Column("A")
		suite.Require().True(ok)
		suite.Len(a.Values, 25)
		for _, v := range a.Values {
			suite.Equal(10.0, v)
		}
	}
}

func (suite *PipelineTestSuite) TestFrequencyGate() {
	for _, freq := range []string{"daily", "Daily", "DAILY"} {
		grid := model.NewRawGrid([][]string{
			{"", "Start", "2024-01-01"},
			{"", "End", "2024-01-02"},
			{"", "Frequency", freq},
			{"", "", "Series"},
			{"", "", "A", "1", "2"},
		})
		table, err := Generate(grid)
		suite.Nil(table)
		pe := suite.requireKind(err, model.ErrUnsupportedFrequency)
		suite.Equal(freq, pe.Text)
	}
}

func (suite *PipelineTestSuite) TestShapeMatchesSeries() {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 20; i++ {
		hours := rng.Intn(48)
		nSeries := rng.Intn(6)
		rows := [][]string{
			{"", "Start", "2024-03-01 00:00"},
			{"", "End", time.Date(2024, 3, 1, hours, 0, 0, 0, time.UTC).Format("2006-01-02 15:04")},
			{"", "Frequency", "hourly"},
			{"", "", "Series"},
		}
		for s := 0; s < nSeries; s++ {
			rows = append(rows, []string{"", "", string(rune('A' + s)), "0", "100"})
		}

		table, err := Generate(model.NewRawGrid(rows), WithSource(rand.NewSource(int64(i))))
		suite.Require().NoError(err)
		suite.Equal(hours+1, table.NumRows())
		suite.Equal(nSeries+1, table.NumColumns())
		for _, c := range table.Columns {
			suite.Len(c.Values, table.NumRows())
		}
	}
}

func (suite *PipelineTestSuite) TestErrorsAbortRun() {
	tests := []struct {
		name string
		rows [][]string
		kind model.ErrorKind
	}{
		{
			name: "missing label",
			rows: [][]string{{"", "End", "2024-01-01"}, {"", "Frequency", "hourly"}, {"", "", "Series"}},
			kind: model.ErrMissingLabel,
		},
		{
			name: "missing marker",
			rows: [][]string{{"", "Start", "2024-01-01"}, {"", "End", "2024-01-01"}, {"", "Frequency", "hourly"}},
			kind: model.ErrMissingMarker,
		},
		{
			name: "invalid date",
			rows: [][]string{{"", "Start", "?"}, {"", "End", "2024-01-01"}, {"", "Frequency", "hourly"}, {"", "", "Series"}},
			kind: model.ErrInvalidDate,
		},
		{
			name: "invalid series row",
			rows: [][]string{
				{"", "Start", "2024-01-01"}, {"", "End", "2024-01-01"}, {"", "Frequency", "hourly"},
				{"", "", "Series"}, {"", "", "A", "1", "2"}, {"", "", "B", "x", "2"},
			},
			kind: model.ErrInvalidSeriesRow,
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			table, err := Generate(model.NewRawGrid(tt.rows))
			suite.Nil(table)
			suite.requireKind(err, tt.kind)
		})
	}
}

func (suite *PipelineTestSuite) TestGenerateFileFromTemplate() {
	path := filepath.Join(suite.T().TempDir(), "input.xlsx")
	var buf bytes.Buffer
	suite.Require().NoError(data.WriteTemplate(&buf, data.DefaultTemplate()))

	f, err := excelize.OpenReader(&buf)
	suite.Require().NoError(err)
	suite.Require().NoError(f.SaveAs(path))
	suite.Require().NoError(f.Close())

	table, err := GenerateFile(path, "", WithSeed(3))
	suite.Require().NoError(err)
	suite.Equal(24, table.NumRows())
	suite.Equal([]string{"timestamp", "Temp", "Humidity"}, table.Header())
}

func (suite *PipelineTestSuite) TestGenerateFileUnexpectedFailure() {
	_, err := GenerateFile(filepath.Join(suite.T().TempDir(), "missing.xlsx"), "")
	pe := suite.requireKind(err, model.ErrUnexpectedFailure)
	suite.Contains(pe.Error(), "missing.xlsx")

	_, err = GenerateReader(bytes.NewReader([]byte("garbage")), "upload.xlsx", "")
	suite.requireKind(err, model.ErrUnexpectedFailure)
}

func (suite *PipelineTestSuite) TestInspect() {
	plan, err := Inspect(scenarioGrid())
	suite.Require().NoError(err)
	suite.Equal(2, plan.Locations.StartRow)
	suite.Len(plan.Series, 2)

	_, err = Inspect(model.NewRawGrid(nil))
	suite.requireKind(err, model.ErrMissingLabel)
}

func (suite *PipelineTestSuite) TestRunReaderReturnsPlan() {
	body := "Title\n,Start,2024-06-01 00:00\n,End,2024-06-01 05:00\n,Frequency,Hourly\n,,Series\n,,Load,0,1\n"
	res, err := RunReader(bytes.NewReader([]byte(body)), "input.csv", "", WithSeed(9))
	suite.Require().NoError(err)

	suite.Equal(6, res.Table.NumRows())
	suite.Require().Len(res.Plan.Series, 1)
	suite.Equal("Load", res.Plan.Series[0].Name)
	suite.Equal(model.FrequencyHourly, res.Plan.Header.Frequency)
}
