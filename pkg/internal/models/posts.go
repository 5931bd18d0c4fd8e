package models

import "time"

type Post struct {
	BaseModel

	Content  string     `json:"content"`
	Language string     `json:"language"`
	EditedAt *time.Time `json:"edited_at"`

	// AccountID is a weak reference, the author may be gone already.
	AccountID    uint   `json:"account_id" gorm:"index"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`

	Metric PostMetric `json:"metric" gorm:"-"`
}

type PostMetric struct {
	ReactionCount int64 `json:"reaction_count"`
	CommentCount  int64 `json:"comment_count"`
}

func (v Post) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{Name: v.AuthorName, Avatar: v.AuthorAvatar}
}
