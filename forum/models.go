// forum/models.go
package forum

import (
	"time"
)

// SlotKey names the storage slot that holds the serialized topic collection.
const SlotKey = "forum_topics"

const (
	// AllCategories is the listing pseudo-category that disables category filtering.
	AllCategories = "All"
	// DefaultCategory is used when a topic is posted without a category.
	DefaultCategory = "General"
	// DefaultAuthor is used when a poster does not give a display name.
	DefaultAuthor = "Anonymous"
)

// Categories is the fixed set of forum sections.
var Categories = []string{
	"Announcements",
	"Farm Questions",
	"Pests and Problems",
	"Farm Showcase",
	"Farm Guides",
	"Team up",
	"News and Views",
	"Product Support",
	"Ads and Offers",
	"Price",
	"Tech",
	"Resources",
	"Products",
}

// Topic is a forum thread. Timestamps are epoch milliseconds.
type Topic struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Author    string  `json:"author"`
	Message   string  `json:"message"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
	Views     int     `json:"views"`
	Replies   []Reply `json:"replies"`
}

// Reply belongs to exactly one Topic.
type Reply struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"createdAt"`
}

// NewTopic carries the caller-supplied fields of a topic.
type NewTopic struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Message  string `json:"message"`
}

// NewReply carries the caller-supplied fields of a reply.
type NewReply struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

func (t Topic) Created() time.Time { return time.UnixMilli(t.CreatedAt) }
func (t Topic) Updated() time.Time { return time.UnixMilli(t.UpdatedAt) }
func (r Reply) Created() time.Time { return time.UnixMilli(r.CreatedAt) }

// clone returns a copy that shares no reply storage with t.
func (t Topic) clone() Topic {
	c := t
	c.Replies = make([]Reply, len(t.Replies))
	copy(c.Replies, t.Replies)
	return c
}
