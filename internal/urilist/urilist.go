// Package urilist parses text/uri-list drag payloads into resource references.
package urilist

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// MIME is the data transfer key under which dropped resources arrive.
const MIME = "text/uri-list"

// schemeRE matches an RFC 3986 scheme.
var schemeRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)

// Resource is one well-formed entry of a uri-list payload.
type Resource struct {
	// Index is the position of the resource among the valid entries of the payload.
	Index int
	uri   *url.URL
}

// NewResource wraps u as a Resource at index i.
func NewResource(i int, u *url.URL) Resource {
	return Resource{Index: i, uri: u}
}

// Scheme returns the lowercase URI scheme.
func (r Resource) Scheme() string {
	return strings.ToLower(r.uri.Scheme)
}

// IsFile reports whether the resource addresses the local filesystem.
func (r Resource) IsFile() bool {
	return r.Scheme() == "file"
}

// Path returns the decoded path component of the URI.
func (r Resource) Path() string {
	return r.uri.Path
}

// FilePath returns the path component in the host's filepath form.
func (r Resource) FilePath() string {
	return filepath.FromSlash(r.uri.Path)
}

// Name returns the last element of the path, or "" when the path is empty.
func (r Resource) Name() string {
	p := strings.TrimRight(r.uri.Path, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// Ext returns the extension of Name including the leading dot, or "".
// A leading dot marks a hidden file, not an extension, so ".gitignore" has
// no extension.
func (r Resource) Ext() string {
	name := r.Name()
	ext := path.Ext(name)
	if len(ext) == len(name) {
		return ""
	}
	return ext
}

// String returns the URI in its textual form.
func (r Resource) String() string {
	return r.uri.String()
}

// Parse splits payload into resources. CRLF line endings are collapsed to LF
// before splitting; lines that are not well-formed URIs are dropped. The
// returned slice is nil when no line survives.
func Parse(payload string) []Resource {
	payload = strings.ReplaceAll(payload, "\r\n", "\n")
	var out []Resource
	for _, line := range strings.Split(payload, "\n") {
		u, ok := parseLine(line)
		if !ok {
			continue
		}
		out = append(out, NewResource(len(out), u))
	}
	return out
}

// parseLine reports whether line is a well-formed absolute URI that
// addresses something: a scheme plus a path, host, or opaque part.
func parseLine(line string) (*url.URL, bool) {
	if line == "" {
		return nil, false
	}
	u, err := url.Parse(line)
	if err != nil {
		return nil, false
	}
	if !schemeRE.MatchString(u.Scheme) {
		return nil, false
	}
	if u.Path == "" && u.Host == "" && u.Opaque == "" {
		return nil, false
	}
	return u, true
}
