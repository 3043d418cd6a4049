package handler

import (
	"time"

	"github.com/deppfellow/income-api/internal/errs"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/response"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/deppfellow/income-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Handler carries the shared server dependencies into concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Payload allocates a fresh request payload. Pass it to Handle as the
// per-request constructor.
func Payload[T any]() *T {
	return new(T)
}

// HandlerFunc is an endpoint that receives an already bound and validated
// payload. Req is a pointer type so echo can bind into it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// responder writes a successful result and describes it to New Relic.
type responder interface {
	write(c echo.Context, result any) error
	operation() string
	annotate(txn *newrelic.Transaction, result any)
	logFields(ctx zerolog.Context) zerolog.Context
}

type envelopeResponder struct{}

func (envelopeResponder) write(c echo.Context, result any) error {
	env, ok := result.(*response.Envelope)
	if !ok || env == nil {
		return errs.NewInternalServerError()
	}
	return c.JSON(env.Status, env)
}

func (envelopeResponder) operation() string { return "handler" }

func (envelopeResponder) annotate(txn *newrelic.Transaction, result any) {
	if env, ok := result.(*response.Envelope); ok && env != nil {
		txn.AddAttribute("envelope.status", env.Status)
		txn.AddAttribute("envelope.success", env.IsSuccess())
	}
}

func (envelopeResponder) logFields(ctx zerolog.Context) zerolog.Context { return ctx }

type fileResponder struct {
	status      int
	filename    string
	contentType string
}

func (r fileResponder) write(c echo.Context, result any) error {
	data, ok := result.([]byte)
	if !ok {
		return errs.NewInternalServerError()
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+r.filename)
	return c.Blob(r.status, r.contentType, data)
}

func (fileResponder) operation() string { return "handler_file" }

func (r fileResponder) annotate(txn *newrelic.Transaction, result any) {
	txn.AddAttribute("file.name", r.filename)
	txn.AddAttribute("file.content_type", r.contentType)
	if data, ok := result.([]byte); ok {
		txn.AddAttribute("file.size_bytes", len(data))
	}
}

func (r fileResponder) logFields(ctx zerolog.Context) zerolog.Context {
	return ctx.Str("filename", r.filename).Str("content_type", r.contentType)
}

// run binds and validates req, runs fn and writes its result through out.
// Errors are returned untouched for the global error handler.
func run[Req validation.Validatable](
	c echo.Context,
	req Req,
	fn func(echo.Context, Req) (any, error),
	out responder,
) error {
	start := time.Now()
	route := c.Path()
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := out.logFields(middleware.GetLogger(c).With().
		Str("operation", out.operation()).
		Str("method", c.Request().Method).
		Str("route", route)).
		Logger()
	logger.Info().Msg("handling request")

	if err := validation.BindAndValidate(c, req); err != nil {
		took := time.Since(start)
		logger.Error().Err(err).Dur("validation_duration", took).Msg("request validation failed")
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", took.Milliseconds())
		}
		return err
	}
	validated := time.Since(start)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validated.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := fn(c, req)
	handlerDuration := time.Since(handlerStart)
	total := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", total.Milliseconds())
	}
	if err != nil {
		logger.Error().Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", total).
			Msg("handler execution failed")
		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		out.annotate(txn, result)
	}
	logger.Info().
		Dur("validation_duration", validated).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", total).
		Msg("request completed")

	return out.write(c, result)
}

// Handle adapts an envelope-returning endpoint to echo. newReq runs once per
// request so concurrent requests never share a payload.
//
//	g.GET("", handler.Handle(h.Handler, h.Index, handler.Payload[model.GetIncomesPayload]))
func Handle[Req validation.Validatable](
	h Handler,
	fn HandlerFunc[Req, *response.Envelope],
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return run(c, newReq(), func(c echo.Context, req Req) (any, error) {
			return fn(c, req)
		}, envelopeResponder{})
	}
}

// HandleFile adapts an endpoint returning raw bytes into an attachment
// download.
func HandleFile[Req validation.Validatable](
	h Handler,
	fn HandlerFunc[Req, []byte],
	status int,
	newReq func() Req,
	filename string,
	contentType string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return run(c, newReq(), func(c echo.Context, req Req) (any, error) {
			return fn(c, req)
		}, fileResponder{status: status, filename: filename, contentType: contentType})
	}
}
