// reportgen builds section reports straight from workbook files, without
// the dashboard. The two sections share no state, so when both files are
// given the builds run concurrently; results are identical either way.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	domain "ccdviz/domain/report"
	"ccdviz/internal/config"
	"ccdviz/internal/report"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	juniorFile := flag.String("junior", "", "workbook for the 2N, 2R, 3R section")
	seniorFile := flag.String("senior", "", "workbook for the 4R section")
	flag.Parse()

	if *juniorFile == "" && *seniorFile == "" {
		fmt.Fprintln(os.Stderr, "usage: reportgen -junior scores.xlsx [-senior scores.xlsx]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	builder := report.NewBuilder(cfg.Data.HeaderRows)

	type job struct {
		file string
		tmpl domain.ColumnTemplate
	}
	jobs := []job{}
	if *juniorFile != "" {
		jobs = append(jobs, job{*juniorFile, domain.SectionJunior})
	}
	if *seniorFile != "" {
		jobs = append(jobs, job{*seniorFile, domain.SectionSenior})
	}

	results := make([]*domain.Report, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			data, err := os.ReadFile(j.file)
			if err != nil {
				return fmt.Errorf("read %s: %w", j.file, err)
			}
			rep, err := builder.BuildFromBytes(data, j.tmpl)
			if err != nil {
				return fmt.Errorf("build %q from %s: %w", j.tmpl.Section, j.file, err)
			}
			results[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Report build failed: %v", err)
	}

	for _, rep := range results {
		fmt.Printf("section %-10q build=%s records=%d starred=%d\n",
			rep.Section, rep.BuildID, len(rep.Records), rep.DefinedStarCount())
		for _, sc := range rep.StarCounts {
			fmt.Printf("  %s\n", sc.Label)
		}
	}
}
