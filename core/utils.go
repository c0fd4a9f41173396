package core

import (
	"math"
	"os"
	"path/filepath"
	"strings"
)

// StoredDecimals is the number of decimal places marks, grade bounds and computed averages are
// stored with.
const StoredDecimals = 2

// HasDecimals reports whether x is representable with at most places decimal places.
func HasDecimals(x float64, places int) bool {
	p := math.Pow10(places)
	return math.Abs(x*p-math.Round(x*p)) < 1e-6
}

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests,
// so we walk up from there. Falls back to the working directory when no root is found.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
