package imageio

import (
	"fmt"
	"strconv"
	"strings"

	"firmaverify/logging"

	exiftool "github.com/barasher/go-exiftool"
)

// ReadDPI extracts the horizontal/vertical resolution metadata from an image
// file. Returns 0 when the file carries no resolution tags; callers fall
// back to pixel-count heuristics in that case.
func ReadDPI(path string) (float64, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return 0, fmt.Errorf("failed to initialize exiftool: %v", err)
	}
	defer et.Close()

	fileInfos := et.ExtractMetadata(path)
	if len(fileInfos) == 0 {
		return 0, fmt.Errorf("no metadata extracted from %s", path)
	}

	fileInfo := fileInfos[0]
	if fileInfo.Err != nil {
		return 0, fmt.Errorf("error extracting metadata from %s: %v", path, fileInfo.Err)
	}

	xRes := resolutionTag(fileInfo.Fields, "XResolution")
	yRes := resolutionTag(fileInfo.Fields, "YResolution")

	switch {
	case xRes > 0 && yRes > 0:
		return (xRes + yRes) / 2, nil
	case xRes > 0:
		return xRes, nil
	case yRes > 0:
		return yRes, nil
	}

	logging.DebugLog("no resolution tags in %s", path)
	return 0, nil
}

// resolutionTag pulls a numeric resolution value out of the raw exiftool
// field map, tolerating string, int and float encodings.
func resolutionTag(fields map[string]interface{}, name string) float64 {
	raw, ok := fields[name]
	if !ok {
		return 0
	}

	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		// Some writers emit "300" or "300/1"
		s := strings.TrimSpace(v)
		if idx := strings.Index(s, "/"); idx > 0 {
			num, errN := strconv.ParseFloat(s[:idx], 64)
			den, errD := strconv.ParseFloat(s[idx+1:], 64)
			if errN == nil && errD == nil && den != 0 {
				return num / den
			}
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}
