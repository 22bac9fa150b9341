package models

// SystemStats — счётчики для админской панели.
type SystemStats struct {
	Users           int `json:"users"`
	Posts           int `json:"posts"`
	PublishedPosts  int `json:"published_posts"`
	Comments        int `json:"comments"`
	PendingComments int `json:"pending_comments"`
	Categories      int `json:"categories"`
	Tags            int `json:"tags"`
}
