package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskservice/pkg/httpcontext"
)

// AccessLog logs one entry per request once the handler has produced a response.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			fields := append(requestFields(ctx),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
				zap.Int("content_length", responseSize(ctx)),
			)
			if reqID := ctx.Response.Header.Peek(httpcontext.HeaderRequestID); len(reqID) > 0 {
				fields = append(fields, zap.ByteString("request_id", reqID))
			}
			logger.Info("request completed", fields...)
		}
	}
}

func responseSize(ctx *fasthttp.RequestCtx) int {
	if ctx.Response.IsBodyStream() {
		return ctx.Response.Header.ContentLength()
	}
	return len(ctx.Response.Body())
}
