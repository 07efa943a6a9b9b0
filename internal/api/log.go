package api

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"aeroprofile/pkg/logging"
)

// Regex to capture key=value or key="value with spaces"
var logRegex = regexp.MustCompile(`([a-zA-Z0-9_\-.]+)=(?:"([^"]*)"|([^ ]+))`)

const maxLogValueLen = 20

const maxLogTail = 32

// LogResponse is the body of GET /api/log/latest.
type LogResponse struct {
	Log   string   `json:"log"`
	Lines []string `json:"lines,omitempty"`
}

// handleLatestLog returns the last captured log line, plus the last n lines
// when n is given.
func handleLatestLog(w http.ResponseWriter, r *http.Request) {
	resp := LogResponse{Log: formatLogLine(logging.Recent.Last())}
	if r.URL.Query().Get("n") != "" {
		n, err := parsePositiveInt(r, "n", 1, maxLogTail)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, line := range logging.Recent.Tail(n) {
			resp.Lines = append(resp.Lines, formatLogLine(line))
		}
	}
	writeJSON(w, resp)
}

// formatLogLine turns a slog text line into "HH:MM:SS msg (k=v, ...)".
// Values longer than maxLogValueLen are dropped, level is omitted and the
// remaining attributes are sorted.
func formatLogLine(raw string) string {
	matches := logRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	var msg, timeStr string
	var params []string

	for _, m := range matches {
		key := m[1]
		val := m[2]
		if val == "" {
			val = m[3]
		}
		val = strings.TrimSpace(val)

		switch key {
		case "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				timeStr = t.Format("15:04:05")
			}
		case "level":
		case "msg":
			msg = val
		default:
			if len(val) <= maxLogValueLen {
				params = append(params, fmt.Sprintf("%s=%s", key, val))
			}
		}
	}

	if msg == "" {
		return raw
	}

	sort.Strings(params)

	output := msg
	if timeStr != "" {
		output = fmt.Sprintf("%s %s", timeStr, msg)
	}
	if len(params) > 0 {
		return fmt.Sprintf("%s (%s)", output, strings.Join(params, ", "))
	}
	return output
}
