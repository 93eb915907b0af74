package middleware

import (
	"github.com/valyala/fasthttp"
)

const corsMethods = "GET,HEAD,PUT,PATCH,POST,DELETE"

// CORS allows every origin and answers preflight requests directly.
func CORS(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowOrigin, "*")

		if !ctx.IsOptions() {
			next(ctx)
			return
		}

		ctx.Response.Header.Set(fasthttp.HeaderAccessControlAllowMethods, corsMethods)
		if reqHeaders := ctx.Request.Header.Peek(fasthttp.HeaderAccessControlRequestHeaders); len(reqHeaders) > 0 {
			ctx.Response.Header.SetBytesV(fasthttp.HeaderAccessControlAllowHeaders, reqHeaders)
			ctx.Response.Header.Set(fasthttp.HeaderVary, fasthttp.HeaderAccessControlRequestHeaders)
		}
		ctx.Response.Header.SetContentLength(0)
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}
