package content

import "strings"

// DefaultType is returned for unknown or missing extensions.
const DefaultType = "application/octet-stream"

// contentTypes maps lower-case file extensions, including the leading dot,
// to their content type. It is never modified after initialization.
var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".txt":  "text/plain",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
}

// TypeByExtension returns the content type for a file extension such as
// ".PNG" or ".html". The match is case-insensitive.
func TypeByExtension(ext string) string {
	if t, ok := contentTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return DefaultType
}
