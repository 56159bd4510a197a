// Package stream consumes a streamed summary from the backend proxy.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ashureev/ikigai/internal/domain"
)

const (
	// GeneratePath is the proxy endpoint for plain-text streaming.
	GeneratePath = "/api/generate"

	// StatusTrailer is sent by the proxy after the body to report how the stream ended.
	StatusTrailer = "X-Ikigai-Stream-Status"
	// ErrorTrailer carries the failure message when StatusTrailer is "error".
	ErrorTrailer = "X-Ikigai-Stream-Error"

	StatusComplete = "complete"
	StatusError    = "error"

	readBufferSize = 4096
)

// Consumer streams a summary for a set of answers.
type Consumer interface {
	Stream(ctx context.Context, rec domain.AnswerRecord) iter.Seq2[string, error]
}

// TransportError reports a failure to obtain or read the stream.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	var sb strings.Builder
	sb.WriteString("stream ")
	sb.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrNoBody is wrapped when a successful response carries no readable body.
var ErrNoBody = errors.New("response has no body")

// Client posts answers to the proxy and yields decoded text chunks.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a plain-text stream client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: http.DefaultClient}
}

// Stream issues one request per iteration and yields chunks in arrival order.
// The sequence ends after the first error.
func (c *Client) Stream(ctx context.Context, rec domain.AnswerRecord) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := c.send(ctx, rec)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		dec := decoder{}
		buf := make([]byte, readBufferSize)
		for {
			n, readErr := resp.Body.Read(buf)
			if n > 0 {
				if text := dec.decode(buf[:n]); text != "" {
					if !yield(text, nil) {
						return
					}
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				yield("", &TransportError{Op: "read", Err: readErr})
				return
			}
		}

		if tail := dec.flush(); tail != "" {
			if !yield(tail, nil) {
				return
			}
		}

		if resp.Trailer.Get(StatusTrailer) == StatusError {
			yield("", &TransportError{Op: "read", Message: resp.Trailer.Get(ErrorTrailer)})
		}
	}
}

func (c *Client) send(ctx context.Context, rec domain.AnswerRecord) (*http.Response, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &TransportError{Op: "send", StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if resp.Body == nil || resp.Body == http.NoBody || resp.StatusCode == http.StatusNoContent {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, &TransportError{Op: "send", StatusCode: resp.StatusCode, Err: ErrNoBody}
	}
	return resp, nil
}

// errorMessage extracts the {"error": "..."} message from a failed response.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// decoder turns raw bytes into text, holding back an incomplete trailing
// UTF-8 sequence until the next read completes it. Invalid bytes become
// U+FFFD.
type decoder struct {
	pending []byte
}

func (d *decoder) decode(p []byte) string {
	data := append(d.pending, p...)
	d.pending = nil

	// Look back at most UTFMax-1 bytes for the start of an unfinished rune.
	cut := len(data)
	for i := len(data) - 1; i >= 0 && i >= len(data)-(utf8.UTFMax-1); i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				cut = i
			}
			break
		}
	}
	if cut < len(data) {
		d.pending = append([]byte(nil), data[cut:]...)
	}
	return strings.ToValidUTF8(string(data[:cut]), "\uFFFD")
}

// flush returns whatever is still held back, replacing a truncated
// sequence with U+FFFD.
func (d *decoder) flush() string {
	s := strings.ToValidUTF8(string(d.pending), "\uFFFD")
	d.pending = nil
	return s
}
