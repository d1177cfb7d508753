package user

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Headline  string    `json:"headline,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
}
