package models

import (
	"encoding/json"
	"fmt"
	"math"
)

type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// UnmarshalJSON принимает id вида 1.0 из отредактированного вручную документа
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	var raw struct {
		plain
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Post(raw.plain)
	p.ID = 0
	if raw.ID == "" {
		return nil
	}

	if id, err := raw.ID.Int64(); err == nil {
		if id < math.MinInt || id > math.MaxInt {
			return fmt.Errorf("post id %s out of range", raw.ID)
		}
		p.ID = int(id)
		return nil
	}
	f, err := raw.ID.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("post id %s is not an integer", raw.ID)
	}
	p.ID = int(f)
	return nil
}

// Поля формы создания и редактирования
type PostFields struct {
	Title   string
	Author  string
	Content string
}
