// Package main analyzes a single document from the command line and writes
// the report as JSON plus a CSV of the strongest bridge characters.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charnet/core/internal/models"
)

const (
	reportFile  = "report.json"
	bridgesFile = "bridges.csv"
)

type outputPaths struct {
	report  string
	bridges string
}

func writeOutputs(dir string, report *models.Report) (*outputPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := &outputPaths{
		report:  filepath.Join(dir, reportFile),
		bridges: filepath.Join(dir, bridgesFile),
	}

	if err := writeReport(paths.report, report); err != nil {
		return nil, err
	}
	if err := writeBridges(paths.bridges, report); err != nil {
		return nil, err
	}

	return paths, nil
}

func writeReport(path string, report *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return f.Close()
}

func writeBridges(path string, report *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bridges: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"rank", "name", "betweenness", "frequency", "community"}); err != nil {
		return fmt.Errorf("failed to write bridges: %w", err)
	}

	for _, b := range report.Bridges {
		community := ""
		if report.Partition != nil {
			if id, ok := report.Partition.Membership[b.Name]; ok {
				community = strconv.Itoa(id)
			}
		}

		record := []string{
			strconv.Itoa(b.Rank),
			b.Name,
			strconv.FormatFloat(b.Betweenness, 'f', 6, 64),
			strconv.Itoa(b.Frequency),
			community,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write bridges: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write bridges: %w", err)
	}

	return f.Close()
}
