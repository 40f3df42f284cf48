package model

import "time"

// Comment is an entry in a task's discussion thread. Comments are append-only.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}
