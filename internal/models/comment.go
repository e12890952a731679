package models

import "time"

// Comment is a text reply attached to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:2200;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	PostID    uint      `gorm:"not null;index:idx_comments_post_created,priority:1" json:"postId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"index:idx_comments_post_created,priority:2" json:"createdAt"`
}

// CommentView is the API representation of a comment.
type CommentView struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
}

// View maps c to its API representation. The author must be loaded.
func (c *Comment) View() CommentView {
	return CommentView{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UserID:    c.UserID,
		Username:  c.User.Username,
	}
}
