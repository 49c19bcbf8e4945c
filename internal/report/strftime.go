// File: internal/report/strftime.go
// ============================================
package report

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Strftime expands a C-style date template such as "orders_%Y-%m-%d.csv".
func Strftime(tmpl string, t time.Time) (string, error) {
	s, err := strftime.Format(tmpl, t)
	if err != nil {
		return "", fmt.Errorf("invalid date template %q: %w", tmpl, err)
	}
	return s, nil
}

