package models

// Rows read by the reference server's repositories. The client never sees
// these; handlers render them into the wire shapes.

type User struct {
	ID                 int64  `db:"id"`
	Username           string `db:"username"`
	Email              string `db:"email"`
	PasswordHash       string `db:"password_hash"`
	Role               string `db:"role"`
	SecurityQuestion   string `db:"security_question"`
	SecurityAnswerHash string `db:"security_answer_hash"`
	// unix seconds, 0 when the user never logged in
	LastLoginAt int64 `db:"last_login_at"`
}

type ProblemRecord struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	Username    string `db:"username"`
	Title       string `db:"title"`
	Description string `db:"description"`
}

type SolutionRecord struct {
	ID            int64  `db:"id"`
	ProblemID     int64  `db:"problem_id"`
	UserID        int64  `db:"user_id"`
	Username      string `db:"username"`
	Description   string `db:"description"`
	Status        Status `db:"status"`
	UpvoteCount   int    `db:"upvote_count"`
	DownvoteCount int    `db:"downvote_count"`
}

type CommentRecord struct {
	ID         int64  `db:"id"`
	SolutionID int64  `db:"solution_id"`
	UserID     int64  `db:"user_id"`
	Username   string `db:"username"`
	Content    string `db:"content"`
}
