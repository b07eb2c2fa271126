package upload

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ScrapeVideoID scans uploader output for a JSON object carrying a video
// identifier. bvid is preferred over the numeric aid; the last match wins.
func ScrapeVideoID(lines []string) (string, bool) {
	var found string
	for _, line := range lines {
		for start := strings.IndexByte(line, '{'); start >= 0; {
			var payload map[string]any
			if err := json.NewDecoder(strings.NewReader(line[start:])).Decode(&payload); err == nil {
				if id, ok := findID(payload); ok {
					found = id
				}
			}
			next := strings.IndexByte(line[start+1:], '{')
			if next < 0 {
				break
			}
			start += next + 1
		}
	}
	return found, found != ""
}

func findID(payload map[string]any) (string, bool) {
	if v, ok := payload["bvid"].(string); ok && v != "" {
		return v, true
	}
	switch v := payload["aid"].(type) {
	case float64:
		if v > 0 {
			return strconv.FormatInt(int64(v), 10), true
		}
	case string:
		if v != "" {
			return v, true
		}
	}
	for _, nested := range payload {
		if m, ok := nested.(map[string]any); ok {
			if id, ok := findID(m); ok {
				return id, true
			}
		}
	}
	return "", false
}
