package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// requestFields describes the request for access and error logs. The body is
// only included for methods other than GET.
func requestFields(ctx *fasthttp.RequestCtx) []zap.Field {
	fields := []zap.Field{
		zap.String("method", string(ctx.Method())),
		zap.String("path", string(ctx.Path())),
		zap.Any("params", routeParams(ctx)),
		zap.String("query", string(ctx.QueryArgs().QueryString())),
	}
	if !ctx.IsGet() && len(ctx.PostBody()) > 0 {
		fields = append(fields, zap.ByteString("body", ctx.PostBody()))
	}
	return fields
}

func routeParams(ctx *fasthttp.RequestCtx) map[string]string {
	params := map[string]string{}
	ctx.VisitUserValues(func(key []byte, value interface{}) {
		if s, ok := value.(string); ok {
			params[string(key)] = s
		}
	})
	return params
}
