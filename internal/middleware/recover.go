package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const internalErrorBody = `{"message":"Internal server error"}`

// PanicHandler is installed as the router's PanicHandler. It logs the failure
// with the request that caused it and answers with a generic 500.
func PanicHandler(logger *zap.Logger) func(*fasthttp.RequestCtx, interface{}) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx *fasthttp.RequestCtx, rcv interface{}) {
		fields := append([]zap.Field{
			zap.String("error", fmt.Sprint(rcv)),
			zap.ByteString("stack", debug.Stack()),
		}, requestFields(ctx)...)
		logger.Error("unhandled error", fields...)

		ctx.Response.Reset()
		ctx.Response.Header.SetContentType("application/json")
		ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowOrigin, "*")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(internalErrorBody)
	}
}
