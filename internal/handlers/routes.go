package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

func Routes(h *PostHandler, staticDir string, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		mux.Handle("/static/", http.StripPrefix("/static/", fs))
	}

	mux.HandleFunc("/{$}", h.ListPosts)
	mux.HandleFunc("/add", h.AddPost)
	mux.HandleFunc("/update/{id}", h.UpdatePost)
	mux.HandleFunc("/delete/{id}", h.DeletePost)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", h.Err.NotFound)

	if log == nil {
		log = zap.NewNop()
	}
	return RequestLogger(log)(h.Err.RecoveryMiddleware(mux))
}
