package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"seriesgen/internal/analysis"
	"seriesgen/internal/config"
	"seriesgen/internal/data"
	"seriesgen/internal/export"
	"seriesgen/internal/logger"
	"seriesgen/internal/model"
	"seriesgen/internal/pipeline"
	"seriesgen/internal/sink"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to YAML config (optional)",
		Sources: cli.EnvVars("SERIESGEN_CONFIG"),
	}
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Input workbook (.xlsx) or .csv",
		Required: true,
	}
}

func sheetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "sheet",
		Usage: "Worksheet name (default: first sheet)",
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "seriesgen",
		Usage: "Generate hourly random time series from a spreadsheet description",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Run the full pipeline and write the generated table",
				Flags: []cli.Flag{
					inputFlag(),
					sheetFlag(),
					configFlag(),
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed for reproducible output (0 = system entropy)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, xlsx or parquet",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output path (default: generated_hourly_data.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "stats",
						Usage: "Print per-series summary statistics",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Also upload the output to the configured S3 bucket",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return generateAction(ctx, cmd, out)
				},
			},
			{
				Name:  "inspect",
				Usage: "Detect the layout and print header and series without generating",
				Flags: []cli.Flag{inputFlag(), sheetFlag(), configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return inspectAction(ctx, cmd, out)
				},
			},
			{
				Name:  "template",
				Usage: "Write a sample input workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output path",
						Value:   "series_template.xlsx",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return templateAction(ctx, cmd, out)
				},
			},
		},
	}
}

// setup loads configuration and applies the flags shared by generate and inspect.
func setup(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if s := cmd.String("sheet"); s != "" {
		cfg.Layout.Sheet = s
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func generateAction(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.IsSet("seed") {
		cfg.Generator.Seed = cmd.Int("seed")
	}
	if f := cmd.String("format"); f != "" {
		cfg.Output.Format = f
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	table, err := pipeline.GenerateFile(cmd.String("input"), cfg.Layout.Sheet,
		pipeline.WithLayout(cfg.Layout.ToLayout()),
		pipeline.WithSeed(cfg.Generator.Seed),
		pipeline.WithLogger(log),
	)
	if err != nil {
		return err
	}

	outPath := cmd.String("out")
	if outPath == "" {
		outPath = format.FileName()
		if cfg.Output.FileName != "" {
			outPath = cfg.Output.FileName + format.Extension()
		}
	}
	opts := export.Options{TimestampLayout: cfg.Output.TimestampLayout}
	if err := export.WriteFile(outPath, table, format, opts); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(out, "wrote %s: %d rows x %d columns\n", outPath, table.NumRows(), table.NumColumns())
	if cmd.Bool("stats") {
		if err := printStats(out, table); err != nil {
			return err
		}
	}

	if !cmd.Bool("upload") {
		return nil
	}
	uploader, err := sink.NewS3Uploader(ctx, cfg.S3, log)
	if err != nil {
		return err
	}
	body, err := os.ReadFile(outPath)
	if err != nil {
		return err
	}
	key, err := uploader.Upload(ctx, filepath.Base(outPath), format.ContentType(), body)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "uploaded s3://%s/%s\n", cfg.S3.Bucket, key)
	return nil
}

func inspectAction(_ context.Context, cmd *cli.Command, out io.Writer) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	grid, err := data.LoadGrid(cmd.String("input"), cfg.Layout.Sheet)
	if err != nil {
		return err
	}
	plan, err := pipeline.Inspect(grid, pipeline.WithLayout(cfg.Layout.ToLayout()), pipeline.WithLogger(log))
	if err != nil {
		return err
	}

	loc := plan.Locations
	fmt.Fprintf(out, "rows: start=%d end=%d frequency=%d series=%d\n",
		loc.StartRow, loc.EndRow, loc.FrequencyRow, loc.SeriesRow)
	fmt.Fprintf(out, "window: %s .. %s (%s)\n",
		plan.Header.Start.Format(cfg.Output.TimestampLayout),
		plan.Header.End.Format(cfg.Output.TimestampLayout),
		plan.Header.Frequency)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tSERIES\tLOW\tHIGH")
	for _, s := range plan.Series {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", s.Row, s.Name, s.Low, s.High)
	}
	return tw.Flush()
}

func printStats(out io.Writer, table *model.OutputTable) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIES\tMIN\tMEAN\tMAX\tP05\tP95")
	for _, s := range analysis.SummarizeTable(table) {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", s.Name, s.Min, s.Mean, s.Max, s.P05, s.P95)
	}
	return tw.Flush()
}

func templateAction(_ context.Context, cmd *cli.Command, out io.Writer) error {
	path := cmd.String("out")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := data.WriteTemplate(f, data.DefaultTemplate()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}
