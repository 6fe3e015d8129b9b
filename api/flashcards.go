package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type CreateFlashcardSetRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	SubjectID   int     `json:"subject_id"`
}

// GenerateFlashcardSetRequest asks the backend to generate cards from a note,
// a lecture or raw content. Exactly one source is expected; NumCards defaults
// server-side when nil.
type GenerateFlashcardSetRequest struct {
	SubjectID   int     `json:"subject_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	NoteID      *int    `json:"note_id,omitempty"`
	LectureID   *int    `json:"lecture_id,omitempty"`
	Content     *string `json:"content,omitempty"`
	NumCards    *int    `json:"num_cards,omitempty"`
}

type UpdateFlashcardSetRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateFlashcardRequest struct {
	Front          string `json:"front"`
	Back           string `json:"back"`
	FlashcardSetID int    `json:"flashcard_set_id"`
}

type UpdateFlashcardRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// DueFlashcardFilter narrows ListDueFlashcards; nil fields mean no filter.
type DueFlashcardFilter struct {
	SubjectID *int
	Limit     *int
}

func (c *Client) ListFlashcardSets(ctx context.Context, subjectID *int) ([]FlashcardSet, error) {
	query := url.Values{}
	if subjectID != nil {
		query.Set("subject_id", strconv.Itoa(*subjectID))
	}
	var sets []FlashcardSet
	if err := c.get(ctx, "/api/flashcards/sets", query, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (c *Client) GetFlashcardSet(ctx context.Context, id int) (*FlashcardSet, error) {
	var set FlashcardSet
	if err := c.get(ctx, fmt.Sprintf("/api/flashcards/sets/%d", id), nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) CreateFlashcardSet(ctx context.Context, req CreateFlashcardSetRequest) (*FlashcardSet, error) {
	var set FlashcardSet
	if err := c.post(ctx, "/api/flashcards/sets", req, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) GenerateFlashcardSet(ctx context.Context, req GenerateFlashcardSetRequest) (*FlashcardSet, error) {
	var set FlashcardSet
	if err := c.post(ctx, "/api/flashcards/sets/generate", req, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) UpdateFlashcardSet(ctx context.Context, id int, req UpdateFlashcardSetRequest) (*FlashcardSet, error) {
	var set FlashcardSet
	if err := c.put(ctx, fmt.Sprintf("/api/flashcards/sets/%d", id), req, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) DeleteFlashcardSet(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/flashcards/sets/%d", id))
}

func (c *Client) CreateFlashcard(ctx context.Context, req CreateFlashcardRequest) (*Flashcard, error) {
	var card Flashcard
	if err := c.post(ctx, "/api/flashcards", req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateFlashcard(ctx context.Context, id int, req UpdateFlashcardRequest) (*Flashcard, error) {
	var card Flashcard
	if err := c.put(ctx, fmt.Sprintf("/api/flashcards/%d", id), req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// ReviewFlashcard records a review outcome. The returned card carries the
// backend's updated spaced-repetition state.
func (c *Client) ReviewFlashcard(ctx context.Context, id int, correct bool) (*Flashcard, error) {
	body := struct {
		Correct bool `json:"correct"`
	}{Correct: correct}

	var card Flashcard
	if err := c.post(ctx, fmt.Sprintf("/api/flashcards/%d/review", id), body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteFlashcard(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/flashcards/%d", id))
}

// ListDueFlashcards returns cards whose next_review has passed.
func (c *Client) ListDueFlashcards(ctx context.Context, filter DueFlashcardFilter) ([]Flashcard, error) {
	query := url.Values{}
	if filter.SubjectID != nil {
		query.Set("subject_id", strconv.Itoa(*filter.SubjectID))
	}
	if filter.Limit != nil {
		query.Set("limit", strconv.Itoa(*filter.Limit))
	}
	var cards []Flashcard
	if err := c.get(ctx, "/api/flashcards/due", query, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
