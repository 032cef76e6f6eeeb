package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"blog/internal/models"
	"blog/internal/store"
)

type PostHandler struct {
	Store     *store.PostStore
	Templates Renderer
	Err       *ErrorHandler
}

func (h *PostHandler) render(w http.ResponseWriter, r *http.Request, data map[string]interface{}) {
	buf := new(bytes.Buffer)
	if err := h.Templates.ExecuteTemplate(buf, "layout", data); err != nil {
		h.Err.ServerError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Список всех постов
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.Err.MethodNotAllowed(w, http.MethodGet)
		return
	}

	posts, err := h.Store.Load(r.Context())
	if err != nil {
		h.Err.ServerError(w, r, err)
		return
	}

	// HEAD не должен съедать одноразовое сообщение
	var flash string
	if r.Method == http.MethodGet {
		flash = GetFlash(w, r, flashCookie)
	}

	h.render(w, r, map[string]interface{}{
		"Page":  "index",
		"Posts": posts,
		"Flash": flash,
	})
}

func (h *PostHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, map[string]interface{}{
			"Page":  "add",
			"Title": "Add post",
		})
		return
	case http.MethodPost:
	default:
		h.Err.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	fields, ok := h.parseFields(w, r)
	if !ok {
		return
	}

	if _, err := h.Store.Create(r.Context(), fields); err != nil {
		h.Err.ServerError(w, r, err)
		return
	}

	SetFlash(w, flashCookie, "Post added")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodPost {
		h.Err.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	id, ok := postID(r)
	if !ok {
		h.Err.NotFound(w, r)
		return
	}

	post, err := h.Store.FindByID(r.Context(), id)
	if errors.Is(err, store.ErrPostNotFound) {
		postNotFound(w)
		return
	}
	if err != nil {
		h.Err.ServerError(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r, map[string]interface{}{
			"Page":  "update",
			"Title": "Update post",
			"Post":  post,
		})
		return
	}

	fields, ok := h.parseFields(w, r)
	if !ok {
		return
	}

	_, err = h.Store.Update(r.Context(), id, fields)
	if errors.Is(err, store.ErrPostNotFound) {
		// удалён между чтением и записью
		postNotFound(w)
		return
	}
	if err != nil {
		h.Err.ServerError(w, r, err)
		return
	}

	SetFlash(w, flashCookie, "Post updated")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Err.MethodNotAllowed(w, http.MethodPost)
		return
	}

	id, ok := postID(r)
	if !ok {
		h.Err.NotFound(w, r)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.Err.ServerError(w, r, err)
		return
	}

	SetFlash(w, flashCookie, "Post deleted")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) parseFields(w http.ResponseWriter, r *http.Request) (models.PostFields, bool) {
	if err := r.ParseForm(); err != nil {
		h.Err.Render(w, http.StatusBadRequest, "Malformed form")
		return models.PostFields{}, false
	}
	return models.PostFields{
		Title:   r.FormValue("title"),
		Author:  r.FormValue("author"),
		Content: r.FormValue("content"),
	}, true
}

// postID принимает только десятичные цифры: "+5" и " 5" дают 404
func postID(r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postNotFound(w http.ResponseWriter) {
	http.Error(w, "Post not found", http.StatusNotFound)
}
