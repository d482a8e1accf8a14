package utils

import (
	"mime"
	"net/url"
	"path"
	"strings"

	"s3zipper/internal/models"
)

// DisplayFilename picks the name a source object gets inside the archive: the stored
// Content-Disposition filename, then the "filename" user metadata, then the key's base name.
// Upload percent-encodes reserved characters, so the result is percent-decoded.
func DisplayFilename(key string, meta *models.ObjectMetadata) string {
	var raw string
	if meta != nil {
		raw = FilenameFromDisposition(meta.ContentDisposition)
		if raw == "" {
			raw = meta.Metadata["filename"]
		}
	}
	if raw == "" {
		raw = path.Base(key)
	}
	return DecodeFilename(raw)
}

// FilenameFromDisposition returns the filename parameter of a Content-Disposition value, or "".
func FilenameFromDisposition(value string) string {
	if value == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(value); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	// Unquoted names with spaces or separators are rejected by the MIME parser.
	idx := strings.Index(strings.ToLower(value), "filename=")
	if idx < 0 {
		return ""
	}
	name := value[idx+len("filename="):]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.Trim(strings.TrimSpace(name), `"`)
}

// DecodeFilename percent-decodes name, returning it unchanged when it is not valid escaping.
func DecodeFilename(name string) string {
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return name
	}
	return decoded
}
