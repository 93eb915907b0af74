package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskservice/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// Adapter converts fasthttp.RequestCtx into a stdlib context with metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter. A zero timeout leaves deadlines to the
// store client.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout < 0 {
		timeout = 0
	}
	return &Adapter{timeout: timeout}
}

// Attach creates a cancellable context enriched with request metadata and
// echoes the request id on the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	base := context.Background()

	var (
		stdCtx context.Context
		cancel context.CancelFunc
	)
	if a != nil && a.timeout > 0 {
		stdCtx, cancel = context.WithTimeout(base, a.timeout)
	} else {
		stdCtx, cancel = context.WithCancel(base)
	}

	reqID := RequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID returns the inbound X-Request-ID, generating and remembering one
// when the client sent none.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID))); header != "" {
		return header
	}
	id := uuid.NewString()
	ctx.Request.Header.Set(HeaderRequestID, id)
	return id
}
