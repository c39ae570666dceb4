package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/seep/config"
)

// Output file names inside the output directory.
const (
	AggregationFile = "aggregation.csv"
	TelemetryFile   = "telemetry.csv"
	PerfFile        = "perf.csv"
	RunsFile        = "runs.csv"
	BookmarksFile   = "bookmarks.csv"
	ConfigFile      = "config.yaml"
)

// csvTable is one CSV output file whose header is written with the first row.
type csvTable struct {
	f             *os.File
	headerWritten bool
}

func (t *csvTable) write(rows any) error {
	if !t.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(rows, t.f); err != nil {
			return err
		}
		t.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	return gocsv.MarshalWithoutHeaders(rows, t.f)
}

// OutputManager handles structured experiment output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir string

	// aggregation.csv is append-only and headerless so that repeated
	// sessions accumulate into one log.
	aggregationFile *os.File

	telemetry csvTable
	perf      csvTable
	runs      csvTable
	bookmarks csvTable
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.OpenFile(filepath.Join(dir, AggregationFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", AggregationFile, err)
	}
	om.aggregationFile = f

	for _, t := range []struct {
		name  string
		table *csvTable
	}{
		{TelemetryFile, &om.telemetry},
		{PerfFile, &om.perf},
		{RunsFile, &om.runs},
		{BookmarksFile, &om.bookmarks},
	} {
		f, err := os.Create(filepath.Join(dir, t.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", t.name, err)
		}
		t.table.f = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteAggregation appends one aggregation record to aggregation.csv.
func (om *OutputManager) WriteAggregation(r AggregationRecord) error {
	if om == nil {
		return nil
	}
	return WriteAggregationRecords(om.aggregationFile, []AggregationRecord{r})
}

// WriteAggregationRecords writes records as headerless CSV rows.
func WriteAggregationRecords(w io.Writer, records []AggregationRecord) error {
	if err := gocsv.MarshalWithoutHeaders(records, w); err != nil {
		return fmt.Errorf("writing aggregation log: %w", err)
	}
	return nil
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteRun writes a run summary to runs.csv.
func (om *OutputManager) WriteRun(s RunSummary) error {
	if om == nil {
		return nil
	}
	if err := om.runs.write([]RunSummary{s}); err != nil {
		return fmt.Errorf("writing run summary: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	files := []*os.File{
		om.aggregationFile,
		om.telemetry.f,
		om.perf.f,
		om.runs.f,
		om.bookmarks.f,
	}

	var firstErr error
	for _, f := range files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
