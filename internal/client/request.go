// ABOUTME: Immutable request descriptor for the API client
// ABOUTME: Carries an explicit retry count and rebuilds its body on every send

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FormFile is a file attached to a multipart request
type FormFile struct {
	Field string
	Path  string
}

// MultipartForm is a multipart/form-data body
type MultipartForm struct {
	Fields map[string]string
	Files  []FormFile
}

// Request describes one API call. Values are never mutated after
// construction; the With* methods return modified copies.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// JSON is marshaled as the request body when non-nil
	JSON any
	// Form is sent as multipart/form-data when non-nil
	Form *MultipartForm

	// Anonymous requests carry no Authorization header and skip token refresh
	Anonymous bool

	// Retries counts how many times this request was replayed after a refresh
	Retries int

	bearer string
}

// NewRequest builds a request for method and path
func NewRequest(method, path string) Request {
	return Request{Method: method, Path: path}
}

// WithQuery returns a copy with query parameters set
func (r Request) WithQuery(q url.Values) Request {
	r.Query = cloneValues(q)
	return r
}

// WithJSON returns a copy with a JSON body
func (r Request) WithJSON(body any) Request {
	r.JSON = body
	r.Form = nil
	return r
}

// WithForm returns a copy with a multipart body
func (r Request) WithForm(form *MultipartForm) Request {
	r.Form = form
	r.JSON = nil
	return r
}

// WithHeader returns a copy with header key set to value
func (r Request) WithHeader(key, value string) Request {
	h := r.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(key, value)
	r.Header = h
	return r
}

// WithRetry returns a copy marked as one more replay
func (r Request) WithRetry() Request {
	r.Retries++
	return r
}

// WithBearer returns a copy pinned to token instead of the stored access token
func (r Request) WithBearer(token string) Request {
	r.bearer = token
	return r
}

// Retried reports whether the request has already been replayed
func (r Request) Retried() bool {
	return r.Retries > 0
}

// build creates a fresh *http.Request. Bodies are rebuilt each time so a
// replay after refresh sends the same payload.
func (r Request) build(baseURL, token, userAgent string) (*http.Request, error) {
	target, err := joinURL(baseURL, r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader
		contentType = "application/json"
	)
	switch {
	case r.Form != nil:
		buf, ct, err := encodeMultipart(r.Form)
		if err != nil {
			return nil, err
		}
		body = buf
		contentType = ct
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range r.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if !r.Anonymous {
		if r.bearer != "" {
			token = r.bearer
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// joinURL resolves path against baseURL. Paths may carry their own query string.
func joinURL(baseURL, path string, query url.Values) (string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	u := base.ResolveReference(ref)

	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeMultipart(form *MultipartForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for k, v := range form.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	for _, f := range form.Files {
		if err := writeFormFile(mw, f); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

func writeFormFile(mw *multipart.Writer, f FormFile) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer file.Close()

	part, err := mw.CreateFormFile(f.Field, filepath.Base(f.Path))
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", f.Field, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
