package http

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Response is buffered until the server writes it after dispatch.
type Response struct {
	Status int
	Body   []byte

	header http.Header
}

func NewResponse() *Response {
	return &Response{
		header: make(http.Header),
	}
}

func (res *Response) Header() http.Header {
	return res.header
}

func (res *Response) WithStatus(status int) *Response {
	res.Status = status
	return res
}

func (res *Response) WithText(payload string) *Response {
	res.header.Set("Content-Type", "text/plain; charset=utf-8")
	res.Body = []byte(payload)
	return res
}

func (res *Response) WithBytes(contentType string, payload []byte) *Response {
	res.header.Set("Content-Type", contentType)
	res.Body = payload
	return res
}

// WithJSON encodes payload as the response body. A string payload is taken
// as already encoded JSON.
func (res *Response) WithJSON(payload any) error {
	if raw, ok := payload.(string); ok {
		res.WithBytes("application/json", []byte(raw))
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	res.WithBytes("application/json", body)
	return nil
}

func (res *Response) SetCookie(cookie *http.Cookie) {
	if v := cookie.String(); v != "" {
		res.header.Add("Set-Cookie", v)
	}
}

// Reset drops everything buffered so far.
func (res *Response) Reset() {
	res.Status = 0
	res.Body = nil
	res.header = make(http.Header)
}

// StatusCode is the status that will be written, 200 when none was set.
func (res *Response) StatusCode() int {
	if res.Status == 0 {
		return http.StatusOK
	}

	return res.Status
}

// Flush writes the buffered response to w. The body is left out for HEAD
// requests while Content-Length still reflects it.
func (res *Response) Flush(w http.ResponseWriter, head bool) error {
	header := w.Header()
	for name, values := range res.header {
		header[name] = values
	}
	if len(res.Body) > 0 {
		header.Set("Content-Length", strconv.Itoa(len(res.Body)))
	}

	w.WriteHeader(res.StatusCode())

	if head || len(res.Body) == 0 {
		return nil
	}

	_, err := w.Write(res.Body)
	return err
}
