// Package main times the churnviz CLI on datasets of different sizes.
// Every command runs several times; the first successful run counts as cold and the
// rest are averaged as warm. Results go to a timestamped CSV file.
//
// Prerequisites:
// - churnviz binary installed and available in PATH
// - One or more churn datasets (.csv or .parquet) in the dataset directory
//
// Usage: go run benchmark/main.go [dataset-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one dataset.
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DatasetDir string
	Timeout    time.Duration
	Runs       int
	Commands   [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [dataset-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		DatasetDir: os.Args[1],
		Timeout:    2 * time.Minute,
		Runs:       4,
		Commands: [][]string{
			{"pie", "Exited"},
			{"bar", "Geography"},
			{"box", "Age"},
			{"hist", "Balance"},
			{"corr"},
			{"page"},
		},
	}

	datasets, err := findDatasets(config.DatasetDir)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// findDatasets checks for the binary and lists the datasets to time.
func findDatasets(dir string) ([]string, error) {
	if _, err := exec.LookPath("churnviz"); err != nil {
		return nil, errors.New("churnviz binary not found in PATH")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset dir %s: %w", dir, err)
	}
	var datasets []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".csv" || ext == ".parquet") {
			datasets = append(datasets, filepath.Join(dir, e.Name()))
		}
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("no .csv or .parquet datasets in %s", dir)
	}
	slices.Sort(datasets)
	return datasets, nil
}

// runBenchmarks times every command on every dataset.
func runBenchmarks(config BenchmarkConfig, datasets []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %d commands, %v timeout, %d runs\n",
		len(datasets), len(config.Commands), config.Timeout, config.Runs)

	chartDir, err := os.MkdirTemp("", "churnviz-benchmark-*")
	if err != nil {
		fmt.Printf("Warning: cannot create chart dir, charts go to the working directory: %v\n", err)
		chartDir = "."
	} else {
		defer func() { _ = os.RemoveAll(chartDir) }()
	}

	for _, dataset := range datasets {
		fmt.Printf("Benchmarking %s\n", filepath.Base(dataset))
		for _, command := range config.Commands {
			args := append(slices.Clone(command),
				"--data", dataset,
				"--output", "none",
				"--store-backend", "none",
				"--quiet",
				"--chart-file", filepath.Join(chartDir, command[0]+".html"),
			)
			results = append(results, runBenchmarkSuite(config, dataset, strings.Join(command, " "), args))
		}
	}

	return results
}

// runBenchmarkSuite runs one command repeatedly and summarizes the timings.
func runBenchmarkSuite(config BenchmarkConfig, dataset, name string, args []string) BenchmarkResult {
	times := runBenchmark(config, args)

	result := BenchmarkResult{
		Dataset:  filepath.Base(dataset),
		Command:  name,
		ColdTime: "FAILED",
		WarmTime: "FAILED",
	}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  %-14s cold: %s, warm: %s\n", name, result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark executes churnviz several times and returns the durations of successful runs.
func runBenchmark(config BenchmarkConfig, args []string) []float64 {
	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "churnviz", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err != nil {
			fmt.Printf("  run failed: %v\n%s", err, string(output))
			continue
		}
		times = append(times, elapsed)
	}
	return times
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("churnviz_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Dataset, r.Command, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by dataset.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	current := ""
	for _, r := range results {
		if r.Dataset != current {
			current = r.Dataset
			fmt.Printf("%s:\n", current)
		}
		fmt.Printf("  %-14s: Cold: %s, Warm: %s\n", r.Command, r.ColdTime, r.WarmTime)
	}
}
