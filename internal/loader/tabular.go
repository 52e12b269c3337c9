package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/relabs-tech/motion_playback/internal/dataset"
	"github.com/relabs-tech/motion_playback/internal/quat"
)

// quatPrefix is the column naming convention of tabular recordings:
// Quat1_<sensor>..Quat4_<sensor>, component 1 being the scalar.
const quatPrefix = "Quat"

// isComponentColumn reports whether a header cell follows the component
// naming convention. Two columns with the same component name would make
// the read ambiguous; other duplicated headers are none of our business.
func isComponentColumn(name string) bool {
	for c := '1'; c <= '4'; c++ {
		if strings.HasPrefix(name, quatPrefix+string(c)+"_") {
			return true
		}
	}
	return false
}

// CSVLoader reads comma-separated tabular recordings.
type CSVLoader struct{}

func (CSVLoader) Load(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return loadTabular(path, rows)
}

// XLSXLoader reads the first sheet of an Excel workbook.
type XLSXLoader struct{}

func (XLSXLoader) Load(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return loadTabular(path, rows)
}

// loadTabular assembles a dataset from a row matrix with a header row.
// Sensor discovery: every distinct suffix of a column named Quat1_<name>,
// in first-appearance order; the remaining three component columns must
// exist. Row order is frame order.
func loadTabular(path string, rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, dataset.ErrNoSensors)
	}

	header := rows[0]
	colIndex := make(map[string]int, len(header))
	for i, c := range header {
		name := strings.TrimSpace(c)
		if _, dup := colIndex[name]; dup && isComponentColumn(name) {
			return nil, fmt.Errorf("%s: duplicate column %q", path, name)
		}
		colIndex[name] = i
	}

	var names []string
	for _, c := range header {
		name, ok := strings.CutPrefix(strings.TrimSpace(c), quatPrefix+"1_")
		if ok && name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", path, dataset.ErrNoSensors)
	}

	timelines := make([]dataset.Timeline, 0, len(names))
	for _, name := range names {
		var cols [4]int
		for c := 1; c <= 4; c++ {
			col := fmt.Sprintf("%s%d_%s", quatPrefix, c, name)
			idx, ok := colIndex[col]
			if !ok {
				return nil, fmt.Errorf("%s: sensor %q: missing column %q", path, name, col)
			}
			cols[c-1] = idx
		}

		tl := dataset.Timeline{Name: name, Frames: make([]quat.Quaternion, 0, len(rows)-1)}
		for rowNum, row := range rows[1:] {
			var comp [4]float64
			for c, idx := range cols {
				if idx >= len(row) {
					return nil, fmt.Errorf("%s: row %d: %w: missing value for %s%d_%s",
						path, rowNum+2, quat.ErrMalformed, quatPrefix, c+1, name)
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
				if err != nil {
					return nil, fmt.Errorf("%s: row %d: %w: %s%d_%s value %q",
						path, rowNum+2, quat.ErrMalformed, quatPrefix, c+1, name, row[idx])
				}
				comp[c] = v
			}
			tl.Frames = append(tl.Frames, quat.Quaternion{W: comp[0], X: comp[1], Y: comp[2], Z: comp[3]})
		}
		timelines = append(timelines, tl)
	}

	return finish(path, timelines)
}
