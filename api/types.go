package api

// User is the authenticated user's profile as returned by the backend.
// It is replaced wholesale on login and refresh, never partially mutated.
type User struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	EmailVerified bool   `json:"email_verified"`
}

// TokenResponse is the payload returned by the login and register endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Subject is a course/topic grouping lectures, notes, flashcards and quizzes.
type Subject struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	Color             string  `json:"color"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	LectureCount      int     `json:"lecture_count"`
	NoteCount         int     `json:"note_count"`
	FlashcardSetCount int     `json:"flashcard_set_count"`
	QuizCount         int     `json:"quiz_count"`
}

// Lecture source types
const (
	LectureSourceLive    = "live"
	LectureSourceYouTube = "youtube"
	LectureSourceUpload  = "upload"
	LectureSourceManual  = "manual"
)

type Lecture struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	SourceType      string  `json:"source_type"`
	SourceURL       *string `json:"source_url"`
	Transcription   *string `json:"transcription"`
	Summary         *string `json:"summary"`
	DurationSeconds *int    `json:"duration_seconds"`
	SubjectID       int     `json:"subject_id"`
	SubjectName     *string `json:"subject_name"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	NoteCount       int     `json:"note_count"`
}

type Note struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Summary      *string  `json:"summary"`
	Tags         []string `json:"tags"`
	SubjectID    int      `json:"subject_id"`
	SubjectName  *string  `json:"subject_name"`
	LectureID    *int     `json:"lecture_id"`
	LectureTitle *string  `json:"lecture_title"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// Flashcard carries the backend's spaced-repetition bookkeeping (difficulty,
// review counters, next_review). The scheduling itself is server-side; these
// fields are a consumed data shape only.
type Flashcard struct {
	ID             int      `json:"id"`
	Front          string   `json:"front"`
	Back           string   `json:"back"`
	Difficulty     int      `json:"difficulty"`
	TimesReviewed  int      `json:"times_reviewed"`
	TimesCorrect   int      `json:"times_correct"`
	Accuracy       *float64 `json:"accuracy"`
	LastReviewed   *string  `json:"last_reviewed"`
	NextReview     *string  `json:"next_review"`
	FlashcardSetID int      `json:"flashcard_set_id"`
	CreatedAt      string   `json:"created_at"`
}

type FlashcardSet struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	SubjectID   int         `json:"subject_id"`
	SubjectName *string     `json:"subject_name"`
	CardCount   int         `json:"card_count"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Flashcards  []Flashcard `json:"flashcards,omitempty"`
}

// Quiz question types
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

type QuizQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
	Points        int      `json:"points"`
	QuizID        int      `json:"quiz_id"`
}

type Quiz struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Description   *string        `json:"description"`
	SubjectID     int            `json:"subject_id"`
	SubjectName   *string        `json:"subject_name"`
	QuestionCount int            `json:"question_count"`
	AttemptCount  int            `json:"attempt_count"`
	CreatedAt     string         `json:"created_at"`
	Questions     []QuizQuestion `json:"questions,omitempty"`
}

type QuizAttempt struct {
	ID               int               `json:"id"`
	QuizID           int               `json:"quiz_id"`
	QuizTitle        *string           `json:"quiz_title"`
	Score            float64           `json:"score"`
	TotalPoints      float64           `json:"total_points"`
	Percentage       float64           `json:"percentage"`
	TimeTakenSeconds *int              `json:"time_taken_seconds"`
	Answers          map[string]string `json:"answers"`
	CompletedAt      string            `json:"completed_at"`
}

type QuizResult struct {
	QuestionID    int     `json:"question_id"`
	Question      string  `json:"question"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Explanation   *string `json:"explanation"`
	Points        int     `json:"points"`
}

// Chat roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        int    `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	SubjectID *int   `json:"subject_id"`
	CreatedAt string `json:"created_at"`
}

type ChatSession struct {
	SessionID     string `json:"session_id"`
	StartedAt     string `json:"started_at"`
	LastMessageAt string `json:"last_message_at"`
	MessageCount  int    `json:"message_count"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SuccessMessage is the backend's generic acknowledgement payload.
type SuccessMessage struct {
	Message string `json:"message"`
}
