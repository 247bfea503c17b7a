package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"seriesgen/internal/data"
	"seriesgen/internal/export"
	"seriesgen/internal/model"
	"seriesgen/internal/pipeline"
)

// Demo:
// - Build the sample workbook in memory
// - Read it back the way an upload is read
// - Generate the hourly table and print the first rows
func main() {
	hours := flag.Int("hours", 12, "Length of the demo window in hours")
	seed := flag.Int64("seed", 1, "Random seed (0 = system entropy)")
	n := flag.Int("n", 6, "Number of rows to print")
	outCSV := flag.String("out", "", "Optional path to write the generated CSV")
	verbose := flag.Bool("v", false, "Log pipeline stages")
	flag.Parse()

	if *hours < 1 {
		fmt.Fprintln(os.Stderr, "--hours must be >= 1")
		os.Exit(2)
	}

	tpl := data.DefaultTemplate()
	tpl.End = tpl.Start.Add(time.Duration(*hours-1) * time.Hour)
	tpl.Series = append(tpl.Series, model.SeriesSpec{Name: "Wind", Low: 0, High: 25})

	var workbook bytes.Buffer
	if err := data.WriteTemplate(&workbook, tpl); err != nil {
		panic(err)
	}

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}

	res, err := pipeline.RunReader(&workbook, "demo.xlsx", "",
		pipeline.WithSeed(*seed),
		pipeline.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Window: %s .. %s (%s)\n",
		res.Plan.Header.Start.Format(export.DefaultTimestampLayout),
		res.Plan.Header.End.Format(export.DefaultTimestampLayout),
		res.Plan.Header.Frequency)
	for _, s := range res.Plan.Series {
		fmt.Printf("Series %-10s [%d, %d)\n", s.Name, s.Low, s.High)
	}
	fmt.Println()

	fmt.Println(strings.Join(res.Table.Header(), "\t"))
	for _, row := range export.Preview(res.Table, *n, export.Options{}) {
		fmt.Println(strings.Join(row, "\t"))
	}
	if rest := res.Table.NumRows() - *n; rest > 0 {
		fmt.Printf("... %d more rows\n", rest)
	}

	if *outCSV != "" {
		if err := export.WriteFile(*outCSV, res.Table, export.FormatCSV, export.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *outCSV, err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s\n", *outCSV)
	}
}
