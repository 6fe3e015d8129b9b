package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type CreateNoteRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	SubjectID int      `json:"subject_id"`
	Summary   *string  `json:"summary,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	LectureID *int     `json:"lecture_id,omitempty"`
}

type UpdateNoteRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Summary *string  `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// NoteFilter narrows ListNotes; nil fields mean no filter.
type NoteFilter struct {
	SubjectID *int
	LectureID *int
}

func (c *Client) ListNotes(ctx context.Context, filter NoteFilter) ([]Note, error) {
	query := url.Values{}
	if filter.SubjectID != nil {
		query.Set("subject_id", strconv.Itoa(*filter.SubjectID))
	}
	if filter.LectureID != nil {
		query.Set("lecture_id", strconv.Itoa(*filter.LectureID))
	}
	var notes []Note
	if err := c.get(ctx, "/api/notes", query, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id int) (*Note, error) {
	var note Note
	if err := c.get(ctx, fmt.Sprintf("/api/notes/%d", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) CreateNote(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	var note Note
	if err := c.post(ctx, "/api/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNoteFromLecture derives a note from a lecture's transcription. A nil
// title lets the backend pick one.
func (c *Client) CreateNoteFromLecture(ctx context.Context, lectureID int, title *string) (*Note, error) {
	body := struct {
		Title *string `json:"title"`
	}{Title: title}

	var note Note
	if err := c.post(ctx, fmt.Sprintf("/api/notes/from-lecture/%d", lectureID), body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// SummarizeNote asks the backend to (re)generate the note summary.
func (c *Client) SummarizeNote(ctx context.Context, id int) (*Note, error) {
	var note Note
	if err := c.post(ctx, fmt.Sprintf("/api/notes/%d/summarize", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int, req UpdateNoteRequest) (*Note, error) {
	var note Note
	if err := c.put(ctx, fmt.Sprintf("/api/notes/%d", id), req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/notes/%d", id))
}
