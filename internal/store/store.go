// Package store keeps the list of blog posts in a single JSON document.
//
// Every operation reads the whole document and every mutation rewrites it,
// which is fine for the small data sets this app is meant for.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"blog/internal/db"
	"blog/internal/models"

	"go.uber.org/zap"
)

var ErrPostNotFound = errors.New("post not found")

type PostStore struct {
	backend db.Backend
	log     *zap.Logger

	// сериализует цикл load→mutate→save внутри процесса
	mu sync.Mutex
}

func New(backend db.Backend, log *zap.Logger) *PostStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostStore{backend: backend, log: log}
}

// Load returns the stored posts in document order. A missing or malformed
// document yields an empty list; only backend failures are returned.
func (s *PostStore) Load(ctx context.Context) ([]models.Post, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, db.ErrNotExist) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("load posts: %w", err)
	}

	var posts []models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		s.log.Warn("malformed posts document, treating as empty", zap.Error(err))
		return []models.Post{}, nil
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Save overwrites the document with posts.
func (s *PostStore) Save(ctx context.Context, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	// без HTML-экранирования: документ правят руками
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("marshal posts: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if err := s.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

func (s *PostStore) FindByID(ctx context.Context, id int) (models.Post, error) {
	posts, err := s.Load(ctx)
	if err != nil {
		return models.Post{}, err
	}
	if i := indexOf(posts, id); i >= 0 {
		return posts[i], nil
	}
	return models.Post{}, ErrPostNotFound
}

func NextID(posts []models.Post) int {
	maxID := 0
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

func (s *PostStore) Create(ctx context.Context, f models.PostFields) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.Load(ctx)
	if err != nil {
		return models.Post{}, err
	}

	post := models.Post{
		ID:      NextID(posts),
		Title:   f.Title,
		Author:  f.Author,
		Content: f.Content,
	}
	posts = append(posts, post)

	if err := s.Save(ctx, posts); err != nil {
		return models.Post{}, err
	}
	s.log.Info("post created", zap.Int("id", post.ID), zap.String("title", post.Title))
	return post, nil
}

// Update replaces the text fields of post id in place. The document is not
// written when the post does not exist.
func (s *PostStore) Update(ctx context.Context, id int, f models.PostFields) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.Load(ctx)
	if err != nil {
		return models.Post{}, err
	}

	i := indexOf(posts, id)
	if i < 0 {
		return models.Post{}, ErrPostNotFound
	}
	posts[i].Title = f.Title
	posts[i].Author = f.Author
	posts[i].Content = f.Content

	if err := s.Save(ctx, posts); err != nil {
		return models.Post{}, err
	}
	s.log.Info("post updated", zap.Int("id", id))
	return posts[i], nil
}

// Delete removes post id. Deleting an unknown id is not an error.
func (s *PostStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if err := s.Save(ctx, kept); err != nil {
		return err
	}
	if len(kept) < len(posts) {
		s.log.Info("post deleted", zap.Int("id", id))
	}
	return nil
}

func indexOf(posts []models.Post, id int) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
