package mailer

// CommentNotifyJob is the JSON payload put on the RabbitMQ queue when someone
// comments on a post. The worker renders it into an email for the post author.
type CommentNotifyJob struct {
	To             string `json:"to"`
	AuthorName     string `json:"author_name"`
	PostID         int64  `json:"post_id"`
	PostTitle      string `json:"post_title"`
	BoardName      string `json:"board_name"`
	CommenterName  string `json:"commenter_name"`
	CommentExcerpt string `json:"comment_excerpt"`
}
