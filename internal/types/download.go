package types

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	HeaderContentDisposition = "Content-Disposition"
	HeaderETag               = "ETag"
	HeaderLastModified       = "Last-Modified"
)

var contentDispositionFilename = regexp.MustCompile(`filename=(.+)`)

// Download is a binary payload plus the validators needed to re-fetch it
// conditionally.
type Download struct {
	Content      []byte
	Filename     string
	ETag         string
	LastModified *time.Time
}

// ParseDownload builds a Download from a buffered response.
func ParseDownload(header http.Header, body []byte) (*Download, error) {
	d := &Download{
		Content:  body,
		Filename: filenameFromHeader(header.Get(HeaderContentDisposition)),
		ETag:     strings.Trim(header.Get(HeaderETag), `"`),
	}
	if lm := header.Get(HeaderLastModified); lm != "" {
		t, err := http.ParseTime(lm)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", HeaderLastModified, lm, err)
		}
		t = t.UTC()
		d.LastModified = &t
	}
	return d, nil
}

func filenameFromHeader(v string) string {
	if v == "" {
		return ""
	}
	m := contentDispositionFilename.FindStringSubmatch(v)
	if len(m) < 2 {
		return ""
	}
	return strings.Trim(m[1], `"`)
}
