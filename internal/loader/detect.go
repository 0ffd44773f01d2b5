package loader

import (
	"bytes"
	"path/filepath"
	"strings"
)

// xlsxMagic is the ZIP local-file signature every XLSX workbook starts
// with.
var xlsxMagic = []byte{'P', 'K', 0x03, 0x04}

// Detect picks an input format from the file name, the content type and
// the content itself, in that order. The fallback is CSV.
func Detect(name, contentType string, body []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".html", ".htm":
		return FormatHTML
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "csv"):
		return FormatCSV
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "spreadsheetml"):
		return FormatXLSX
	case strings.Contains(ct, "html"):
		return FormatHTML
	}

	return sniff(body)
}

// sniff guesses the format from content alone.
func sniff(body []byte) Format {
	if bytes.HasPrefix(body, xlsxMagic) {
		return FormatXLSX
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n\uFEFF")
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[', '{':
			return FormatJSON
		case '<':
			if bytes.Contains(bytes.ToLower(trimmed), []byte("<table")) {
				return FormatHTML
			}
		}
	}

	return FormatCSV
}
