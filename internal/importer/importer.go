package importer

import (
	"io"

	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
)

// Format is the container an export arrives in.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

type Importer interface {
	Import(r io.Reader) (*meta.Result, error)
}
