package model

import "time"

// Message represents one entry in the transcript
type Message struct {
	ID        string // Stable identity; slice indices shift when preview messages are cleared
	Role      string
	Content   string // Raw markdown content
	Rendered  string // Cached rendered markdown
	Preview   bool   // Preview-tagged; cleared when a new file is chosen
	Timestamp time.Time
}
