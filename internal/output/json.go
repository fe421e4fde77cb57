// Package output renders engine results as tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Formats accepted by Write
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Output writes data to stdout in the specified format
func Output(format string, data interface{}) error {
	return Write(os.Stdout, format, data)
}

// Write writes data in the specified format
func Write(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatTable, "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
