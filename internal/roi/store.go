// Package roi loads the static regions of interest drawn over the video.
//
// The file holds one record per line, "label,x1,y1,x2,y2", with no header
// and no quoting. Lines that do not parse are skipped and logged.
package roi

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"validation/internal/models"
)

const fieldCount = 5

// MaxLineLength bounds a single record, newline included.
const MaxLineLength = 4096

var (
	ErrLineTooLong = errors.New("line too long")
	ErrFieldCount  = errors.New("expected label,x1,y1,x2,y2")
	ErrCoordinate  = errors.New("coordinate is not an integer")
)

type Store struct {
	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{logger: logger.With("component", "roi")}
}

// Load reads ROIs from path. A missing file is not an error: the result is
// empty and a warning is logged.
func (s *Store) Load(path string) ([]models.ROI, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("ROI definitions file not found", "path", path)
			return []models.ROI{}, nil
		}
		return nil, fmt.Errorf("open roi file: %w", err)
	}

	defer f.Close()

	rois, err := s.Parse(f)
	if err != nil {
		return rois, fmt.Errorf("read roi file %s: %w", path, err)
	}

	s.logger.Info("loaded ROI definitions", "path", path, "count", len(rois))

	return rois, nil
}

// Parse keeps file order; later entries are drawn on top of earlier ones.
// On a read error the ROIs parsed so far are returned with the error.
func (s *Store) Parse(r io.Reader) ([]models.ROI, error) {
	rois := []models.ROI{}
	reader := bufio.NewReader(r)

	lineNo := 0
	for {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			lineNo++
			if roi, ok := s.parseRecord(lineNo, raw); ok {
				rois = append(rois, roi)
			}
		}

		if err == io.EOF {
			return rois, nil
		}
		if err != nil {
			return rois, err
		}
	}
}

func (s *Store) parseRecord(lineNo int, raw string) (models.ROI, bool) {
	if len(raw) > MaxLineLength {
		s.logger.Warn("skipping malformed ROI line", "line", lineNo, "length", len(raw), "err", ErrLineTooLong)
		return models.ROI{}, false
	}

	line := strings.TrimSpace(raw)
	if line == "" {
		return models.ROI{}, false
	}

	roi, err := ParseLine(line)
	if err != nil {
		s.logger.Warn("skipping malformed ROI line", "line", lineNo, "text", line, "err", err)
		return models.ROI{}, false
	}

	return roi, true
}

func ParseLine(line string) (models.ROI, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldCount {
		return models.ROI{}, fmt.Errorf("%w: got %d fields", ErrFieldCount, len(fields))
	}

	var coords [4]int
	for i, raw := range fields[1:] {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return models.ROI{}, fmt.Errorf("%w: %q", ErrCoordinate, raw)
		}
		coords[i] = v
	}

	return models.ROI{
		Label: fields[0],
		Start: image.Pt(coords[0], coords[1]),
		End:   image.Pt(coords[2], coords[3]),
	}, nil
}
