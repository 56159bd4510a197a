package stream

import (
	"context"
	"errors"
	"iter"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ashureev/ikigai/internal/domain"
)

// WSPath is the proxy endpoint for framed WebSocket streaming.
const WSPath = "/ws/generate"

// Frame types sent by the server over the WebSocket transport.
const (
	FrameChunk = "chunk"
	FrameDone  = "done"
	FrameError = "error"
)

// Frame is one server message on the WebSocket transport.
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrTruncated is wrapped when the connection ends without a done frame.
var ErrTruncated = errors.New("stream ended without completion frame")

// WSClient streams summaries over a WebSocket connection.
type WSClient struct {
	BaseURL string
}

// NewWSClient creates a WebSocket stream client for the server at baseURL
// (http, https, ws or wss scheme).
func NewWSClient(baseURL string) *WSClient {
	return &WSClient{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *WSClient) endpoint() (string, error) {
	u, err := url.Parse(c.BaseURL + WSPath)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}

// Stream sends the answers as the first message and yields chunk frames
// until the server reports completion or failure.
func (c *WSClient) Stream(ctx context.Context, rec domain.AnswerRecord) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		endpoint, err := c.endpoint()
		if err != nil {
			yield("", &TransportError{Op: "send", Err: err})
			return
		}

		conn, resp, err := websocket.Dial(ctx, endpoint, nil)
		if err != nil {
			te := &TransportError{Op: "send", Err: err}
			if resp != nil {
				te.StatusCode = resp.StatusCode
			}
			yield("", te)
			return
		}
		defer conn.CloseNow()

		if err := wsjson.Write(ctx, conn, rec); err != nil {
			yield("", &TransportError{Op: "send", Err: err})
			return
		}

		for {
			var f Frame
			if err := wsjson.Read(ctx, conn, &f); err != nil {
				if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
					err = ErrTruncated
				}
				yield("", &TransportError{Op: "read", Err: err})
				return
			}

			switch f.Type {
			case FrameChunk:
				if f.Content == "" {
					continue
				}
				if !yield(f.Content, nil) {
					return
				}
			case FrameDone:
				return
			case FrameError:
				yield("", &TransportError{Op: "read", Message: f.Error})
				return
			}
		}
	}
}

// New returns the consumer for the named transport ("http" or "ws").
func New(transport, baseURL string) (Consumer, error) {
	switch transport {
	case "", "http":
		return NewClient(baseURL), nil
	case "ws":
		return NewWSClient(baseURL), nil
	default:
		return nil, errors.New("unsupported transport: " + transport)
	}
}
