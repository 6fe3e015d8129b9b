package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type CreateQuizRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	SubjectID   int     `json:"subject_id"`
}

// GenerateQuizRequest asks the backend to generate questions from a note, a
// lecture or raw content.
type GenerateQuizRequest struct {
	SubjectID     int      `json:"subject_id"`
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	NoteID        *int     `json:"note_id,omitempty"`
	LectureID     *int     `json:"lecture_id,omitempty"`
	Content       *string  `json:"content,omitempty"`
	NumQuestions  *int     `json:"num_questions,omitempty"`
	QuestionTypes []string `json:"question_types,omitempty"`
}

type UpdateQuizRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// QuizSubmission holds a completed attempt: answers keyed by question ID.
type QuizSubmission struct {
	Answers          map[string]string `json:"answers"`
	TimeTakenSeconds *int              `json:"time_taken_seconds,omitempty"`
}

// QuizSubmissionResult is the grading response for a submitted attempt.
type QuizSubmissionResult struct {
	Attempt QuizAttempt  `json:"attempt"`
	Results []QuizResult `json:"results"`
}

func (c *Client) ListQuizzes(ctx context.Context, subjectID *int) ([]Quiz, error) {
	query := url.Values{}
	if subjectID != nil {
		query.Set("subject_id", strconv.Itoa(*subjectID))
	}
	var quizzes []Quiz
	if err := c.get(ctx, "/api/quizzes", query, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// GetQuiz fetches a quiz with its questions. Correct answers and explanations
// are only included when includeAnswers is set.
func (c *Client) GetQuiz(ctx context.Context, id int, includeAnswers bool) (*Quiz, error) {
	query := url.Values{}
	query.Set("include_answers", strconv.FormatBool(includeAnswers))

	var quiz Quiz
	if err := c.get(ctx, fmt.Sprintf("/api/quizzes/%d", id), query, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*Quiz, error) {
	var quiz Quiz
	if err := c.post(ctx, "/api/quizzes", req, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, req GenerateQuizRequest) (*Quiz, error) {
	var quiz Quiz
	if err := c.post(ctx, "/api/quizzes/generate", req, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) SubmitQuiz(ctx context.Context, id int, submission QuizSubmission) (*QuizSubmissionResult, error) {
	var result QuizSubmissionResult
	if err := c.post(ctx, fmt.Sprintf("/api/quizzes/%d/submit", id), submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListQuizAttempts(ctx context.Context, id int) ([]QuizAttempt, error) {
	var attempts []QuizAttempt
	if err := c.get(ctx, fmt.Sprintf("/api/quizzes/%d/attempts", id), nil, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, id int, req UpdateQuizRequest) (*Quiz, error) {
	var quiz Quiz
	if err := c.put(ctx, fmt.Sprintf("/api/quizzes/%d", id), req, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/quizzes/%d", id))
}
