// Package models contains data structures for the application's domain models.
package models

import "time"

// Post is an uploaded photo with an optional caption.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ImageURL  string    `gorm:"size:512;not null" json:"imageUrl"`
	Caption   *string   `gorm:"size:2200" json:"caption"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Username is not persisted; joined from users at query time
	Username string `gorm:"->;-:migration" json:"username"`
	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"->;-:migration" json:"commentCount"`
	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->;-:migration" json:"likeCount"`
}

// PostView is the API representation of a post.
type PostView struct {
	ID           uint      `json:"id"`
	ImageURL     string    `json:"imageUrl"`
	Caption      *string   `json:"caption"`
	CreatedAt    time.Time `json:"createdAt"`
	UserID       uint      `json:"userId"`
	Username     string    `json:"username"`
	CommentCount int       `json:"commentCount"`
	LikeCount    int       `json:"likeCount"`
}

// View maps p to its API representation.
func (p *Post) View() PostView {
	return PostView{
		ID:           p.ID,
		ImageURL:     p.ImageURL,
		Caption:      p.Caption,
		CreatedAt:    p.CreatedAt,
		UserID:       p.UserID,
		Username:     p.Username,
		CommentCount: p.CommentCount,
		LikeCount:    p.LikeCount,
	}
}

// FeedPage is one page of the newest-first feed.
type FeedPage struct {
	Posts    []PostView `json:"posts"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	HasMore  bool       `json:"hasMore"`
}
