package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Renderer is satisfied by *html/template.Template and *views.Set.
type Renderer interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

type ErrorHandler struct {
	Templates Renderer
	Log       *zap.Logger
}

func (h *ErrorHandler) logger() *zap.Logger {
	if h == nil || h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func (h *ErrorHandler) Render(w http.ResponseWriter, status int, msg string) {
	if h == nil || h.Templates == nil {
		http.Error(w, msg, status)
		return
	}
	buf := new(bytes.Buffer)
	err := h.Templates.ExecuteTemplate(buf, "layout", map[string]interface{}{
		"Page":   "error",
		"Title":  http.StatusText(status),
		"Error":  msg,
		"Status": status,
	})
	if err != nil {
		h.logger().Error("failed to render error page", zap.Error(err))
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Render(w, http.StatusNotFound, "Page not found")
}

func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	h.Render(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *ErrorHandler) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err))
	h.Render(w, http.StatusInternalServerError, "Internal server error")
}

func (h *ErrorHandler) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger().Error("panic while serving request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"))
				h.Render(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
