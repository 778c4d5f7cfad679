package models

type User struct {
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatarUrl"`
}

type PostStats struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Post is the provider-agnostic shape every source is normalized into.
type Post struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	Stats     PostStats `json:"stats"`
}

type Comment struct {
	ID        string `json:"id"`
	Author    User   `json:"author"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type PostResponse struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}
