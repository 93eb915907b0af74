package router

import (
	"strings"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskservice/api/handler"
	"github.com/fastygo/taskservice/internal/middleware"
)

const apiPrefix = "/api/"

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// Options controls the parts of the router that are not API routes.
type Options struct {
	StaticDir string
	Logger    *zap.Logger
}

func New(handlers Handlers, opts Options) *router.Router {
	r := router.New()
	r.PanicHandler = middleware.PanicHandler(opts.Logger)

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/tasks", handlers.Task.ListTasks)
	r.POST("/api/tasks", handlers.Task.CreateTask)
	r.GET("/api/tasks/{id}", handlers.Task.GetTask)
	r.PUT("/api/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/tasks/{id}/restore", handlers.Task.RestoreTask)
	r.PATCH("/api/tasks/{id}/complete", handlers.Task.CompleteTask)

	r.NotFound = fallback(opts.StaticDir)
	return r
}

// fallback serves static assets for everything outside the API prefix.
func fallback(staticDir string) fasthttp.RequestHandler {
	var static fasthttp.RequestHandler
	if staticDir != "" {
		fs := &fasthttp.FS{
			Root:               staticDir,
			IndexNames:         []string{"index.html"},
			GenerateIndexPages: false,
			AcceptByteRange:    true,
			PathNotFound:       notFound,
		}
		static = fs.NewRequestHandler()
	}

	return func(ctx *fasthttp.RequestCtx) {
		if static == nil || strings.HasPrefix(string(ctx.Path()), apiPrefix) {
			notFound(ctx)
			return
		}
		if !ctx.IsGet() && !ctx.IsHead() {
			notFound(ctx)
			return
		}
		static(ctx)
	}
}

func notFound(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetBodyString(`{"message":"Not found"}`)
}
