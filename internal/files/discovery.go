package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"farsreport/internal/dataprocessing"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// YearFile is an accident file together with the year in its name.
type YearFile struct {
	Year int `json:"year"`
	FileInfo
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindFilesByPattern finds regular files in the base directory matching a glob pattern
func (d *Discovery) FindFilesByPattern(pattern string) ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(d.basePath, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// YearFiles lists the accident_<YEAR>.csv.bz2 files of the base directory,
// ascending by year. Names whose year part is not an integer are skipped.
func (d *Discovery) YearFiles() ([]YearFile, error) {
	if _, err := os.Stat(d.basePath); err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", d.basePath, err)
	}

	files, err := d.FindFilesByPattern(dataprocessing.FilenamePrefix + "*" + dataprocessing.FilenameSuffix)
	if err != nil {
		return nil, err
	}

	years := make([]YearFile, 0, len(files))
	for _, f := range files {
		yearText := strings.TrimSuffix(strings.TrimPrefix(f.Name, dataprocessing.FilenamePrefix), dataprocessing.FilenameSuffix)
		year, err := strconv.Atoi(yearText)
		if err != nil {
			continue
		}
		years = append(years, YearFile{Year: year, FileInfo: f})
	}

	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years, nil
}

// AvailableYears returns the years that have an accident file, ascending.
func (d *Discovery) AvailableYears() ([]int, error) {
	files, err := d.YearFiles()
	if err != nil {
		return nil, err
	}
	years := make([]int, len(files))
	for i, f := range files {
		years[i] = f.Year
	}
	return years, nil
}
