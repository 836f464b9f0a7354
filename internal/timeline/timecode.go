package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"revoice/internal/services"
)

var timeRe = regexp.MustCompile(`\d{2}:\d{2}:\d{2}\.\d{3}`)

// TimeToSec converts an HH:MM:SS.mmm timestamp to seconds.
func TimeToSec(value string) (float64, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, services.Wrap(services.ErrValidation, "timeline", "parse timecode",
			fmt.Sprintf("malformed timestamp %q", value), nil)
	}
	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, services.Wrap(services.ErrValidation, "timeline", "parse timecode",
			fmt.Sprintf("malformed timestamp %q", value), nil)
	}
	hour, err1 := strconv.Atoi(parts[0])
	min, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(secParts[0])
	msec, err4 := strconv.Atoi(secParts[1])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, services.Wrap(services.ErrValidation, "timeline", "parse timecode",
			fmt.Sprintf("malformed timestamp %q", value), nil)
	}
	return float64(hour)*3600 + float64(min)*60 + float64(sec) + float64(msec)/1000, nil
}

// TimecodeRange extracts the start and end seconds from a source timecode
// line of the form `[ HH:MM:SS.mmm --> HH:MM:SS.mmm ]`.
func TimecodeRange(timecode string) (start, end float64, err error) {
	stamps := timeRe.FindAllString(timecode, -1)
	if len(stamps) != 2 {
		return 0, 0, services.Wrap(services.ErrValidation, "timeline", "parse timecode",
			fmt.Sprintf("expected two timestamps in %q", timecode), nil)
	}
	if start, err = TimeToSec(stamps[0]); err != nil {
		return 0, 0, err
	}
	if end, err = TimeToSec(stamps[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
