package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/taiseel/propcore/internal/property"
	"github.com/taiseel/propcore/pkg/logger"
)

// Loader imports the legacy unit inventory into the units table
type Loader struct {
	units  *property.Repository
	logger *logger.Logger
}

// NewLoader creates a seed loader
func NewLoader(units *property.Repository, log *logger.Logger) *Loader {
	return &Loader{units: units, logger: log}
}

// ImportHTML parses the legacy page and inserts every unit row. Existing
// unit codes are left untouched, so the import is safe to re-run.
func (l *Loader) ImportHTML(ctx context.Context, r io.Reader) (int, error) {
	units, err := ParseUnitsHTML(r)
	if err != nil {
		return 0, fmt.Errorf("parse legacy inventory: %w", err)
	}

	for _, u := range units {
		if err := l.units.InsertUnit(ctx, u); err != nil {
			return 0, err
		}
	}

	l.logger.WithField("units", len(units)).Info("Legacy inventory imported")
	return len(units), nil
}

// ImportHTMLFile imports from a file path
func (l *Loader) ImportHTMLFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open inventory file: %w", err)
	}
	defer f.Close()

	return l.ImportHTML(ctx, f)
}
