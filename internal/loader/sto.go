package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/relabs-tech/motion_playback/internal/dataset"
	"github.com/relabs-tech/motion_playback/internal/quat"
)

// STOLoader reads header+data recordings: free-form header lines up to a
// line reading "endheader" (case-insensitive), then a row of column names
// and whitespace- or tab-delimited data rows. Each data cell holds a full
// quaternion, comma- or whitespace-separated.
type STOLoader struct{}

func (STOLoader) Load(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	// Skip the header block.
	sawEnd := false
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "endheader") {
			sawEnd = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !sawEnd {
		return nil, fmt.Errorf("%s: no endheader line", path)
	}

	// First non-blank line after the header holds the column names.
	var columns []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, c := range splitRow(line) {
			columns = append(columns, strings.TrimSpace(c))
		}
		break
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", path, dataset.ErrNoSensors)
	}

	// Collect the data rows. Rows stay whole so a missing trailing cell
	// is distinguishable from an empty one.
	var rows [][]string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := splitRow(line)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var timelines []dataset.Timeline
	for i, name := range columns {
		if strings.EqualFold(name, "time") {
			continue
		}
		if !looksLikeQuaternion(rows, i) {
			continue
		}

		// Once a column is accepted, every row must supply a parseable
		// value: dropping a frame here would silently desynchronize the
		// sensor from the rest of the recording.
		tl := dataset.Timeline{Name: name, Frames: make([]quat.Quaternion, 0, len(rows))}
		for rowNum, fields := range rows {
			if i >= len(fields) {
				return nil, fmt.Errorf("%s: column %q: row %d: %w: missing value",
					path, name, rowNum+1, quat.ErrMalformed)
			}
			q, err := quat.Parse(fields[i])
			if err != nil {
				return nil, fmt.Errorf("%s: column %q: row %d: %w", path, name, rowNum+1, err)
			}
			tl.Frames = append(tl.Frames, q)
		}
		timelines = append(timelines, tl)
	}

	return finish(path, timelines)
}

// splitRow splits one data row into cells. Tab-delimited rows keep
// spaces inside a cell (so a cell can carry "w x y z"); otherwise any
// whitespace separates cells.
func splitRow(line string) []string {
	if strings.Contains(line, "\t") {
		return strings.Split(line, "\t")
	}
	return strings.Fields(line)
}

// looksLikeQuaternion sniffs a column on its first non-missing value:
// exactly 3 commas, or exactly 4 whitespace tokens. Later rows are not
// consulted; a column rejected here is skipped silently. The tolerance
// for missing values exists only here, for deciding column acceptance.
func looksLikeQuaternion(rows [][]string, col int) bool {
	for _, fields := range rows {
		if col >= len(fields) || fields[col] == "" {
			continue
		}
		v := fields[col]
		return strings.Count(v, ",") == 3 || len(strings.Fields(v)) == 4
	}
	return false
}
