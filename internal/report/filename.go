package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
)

// Filename renders the export filename template. Available variables:
// month_name, month (two digits), year and ext.
func Filename(tmpl string, format Format, month time.Month, year int) (string, error) {
	data := map[string]interface{}{
		"month_name": MonthName(month),
		"month":      fmt.Sprintf("%02d", int(month)),
		"year":       year,
		"ext":        string(format),
	}

	name, err := mustache.Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("failed to render export filename: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("export filename template produced an invalid name %q", name)
	}
	return name, nil
}
