package parse

import (
	"math"
	"strconv"
	"strings"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders a byte count with binary prefixes and at most two decimals
func FormatBytes(bytes float64) string {
	if bytes <= 0 || math.IsNaN(bytes) {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(bytes) / math.Log(1024)))
	i = max(0, min(i, len(byteUnits)-1))
	v := bytes / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + byteUnits[i]
}

// FormatDuration renders seconds as "1h 2m 5s", omitting zero leading units
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0s"
	}
	total := int64(math.Round(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	var parts []string
	if h > 0 {
		parts = append(parts, strconv.FormatInt(h, 10)+"h")
	}
	if h > 0 || m > 0 {
		parts = append(parts, strconv.FormatInt(m, 10)+"m")
	}
	parts = append(parts, strconv.FormatInt(s, 10)+"s")
	return strings.Join(parts, " ")
}

// formatPercent renders 50 as "50%" and 33.33 as "33.33%"
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}
