package engine

import (
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// ExifReport summarizes metadata a re-encode would silently discard. The
// baker never carries EXIF across; the scan command uses this to warn about
// what a bake run will drop.
type ExifReport struct {
	HasExif      bool
	HasGPS       bool
	HasModel     bool
	HasTimestamp bool
}

// Categories lists the human-readable metadata categories found.
func (r ExifReport) Categories() []string {
	var cats []string
	if r.HasGPS {
		cats = append(cats, "GPS")
	}
	if r.HasModel {
		cats = append(cats, "Device Model")
	}
	if r.HasTimestamp {
		cats = append(cats, "Timestamp")
	}
	return cats
}

// InspectExif reads any EXIF block in the file and reports what it carries.
// A file without EXIF yields a zero report and no error.
func InspectExif(path string) (ExifReport, error) {
	report := ExifReport{}

	f, err := os.Open(path)
	if err != nil {
		return report, err
	}
	defer f.Close()

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(f, nil, true)
	if err != nil {
		if isNoExif(err) {
			return report, nil
		}
		return report, err
	}

	for _, tag := range tags {
		report.HasExif = true
		name := tag.TagName

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			report.HasGPS = true
		}
		if name == "Model" || name == "CameraModelName" {
			report.HasModel = true
		}
		if name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime" {
			report.HasTimestamp = true
		}
	}

	return report, nil
}

func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
