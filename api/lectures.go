package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

type CreateLectureRequest struct {
	Title         string  `json:"title"`
	SubjectID     int     `json:"subject_id"`
	SourceType    *string `json:"source_type,omitempty"`
	Transcription *string `json:"transcription,omitempty"`
}

// CreateLectureFromYouTubeRequest ingests a YouTube video; the backend fetches
// and transcribes it.
type CreateLectureFromYouTubeRequest struct {
	URL             string  `json:"url"`
	SubjectID       int     `json:"subject_id"`
	Title           *string `json:"title,omitempty"`
	GenerateSummary *bool   `json:"generate_summary,omitempty"`
}

type CreateLectureFromTranscriptRequest struct {
	Title           string `json:"title"`
	SubjectID       int    `json:"subject_id"`
	Transcription   string `json:"transcription"`
	GenerateSummary *bool  `json:"generate_summary,omitempty"`
}

// UploadLectureAudioRequest uploads an audio recording for transcription.
// File is streamed into a multipart body; GenerateSummary defaults to true
// server-side when nil.
type UploadLectureAudioRequest struct {
	File            io.Reader
	Filename        string
	Title           string
	SubjectID       int
	GenerateSummary *bool
}

type UpdateLectureRequest struct {
	Title         *string `json:"title,omitempty"`
	Transcription *string `json:"transcription,omitempty"`
	Summary       *string `json:"summary,omitempty"`
}

// ListLectures returns all lectures, optionally filtered by subject.
// A nil subjectID means no filter.
func (c *Client) ListLectures(ctx context.Context, subjectID *int) ([]Lecture, error) {
	query := url.Values{}
	if subjectID != nil {
		query.Set("subject_id", strconv.Itoa(*subjectID))
	}
	var lectures []Lecture
	if err := c.get(ctx, "/api/lectures", query, &lectures); err != nil {
		return nil, err
	}
	return lectures, nil
}

func (c *Client) GetLecture(ctx context.Context, id int) (*Lecture, error) {
	var lecture Lecture
	if err := c.get(ctx, fmt.Sprintf("/api/lectures/%d", id), nil, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (c *Client) CreateLecture(ctx context.Context, req CreateLectureRequest) (*Lecture, error) {
	var lecture Lecture
	if err := c.post(ctx, "/api/lectures", req, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (c *Client) CreateLectureFromYouTube(ctx context.Context, req CreateLectureFromYouTubeRequest) (*Lecture, error) {
	var lecture Lecture
	if err := c.post(ctx, "/api/lectures/youtube", req, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (c *Client) CreateLectureFromTranscript(ctx context.Context, req CreateLectureFromTranscriptRequest) (*Lecture, error) {
	var lecture Lecture
	if err := c.post(ctx, "/api/lectures/manual-transcription", req, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// UploadLectureAudio sends the recording as a multipart form. The multipart
// encoding supplies its own boundary content type; no JSON header is set.
func (c *Client) UploadLectureAudio(ctx context.Context, req UploadLectureAudioRequest) (*Lecture, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", req.Filename)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UploadLectureAudio] create form file")
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadLectureAudio] copy audio")
	}
	if err := writer.WriteField("title", req.Title); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadLectureAudio] write title")
	}
	if err := writer.WriteField("subject_id", strconv.Itoa(req.SubjectID)); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadLectureAudio] write subject_id")
	}
	generateSummary := true
	if req.GenerateSummary != nil {
		generateSummary = *req.GenerateSummary
	}
	if err := writer.WriteField("generate_summary", strconv.FormatBool(generateSummary)); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadLectureAudio] write generate_summary")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadLectureAudio] close multipart")
	}

	var lecture Lecture
	r := request{
		method:      http.MethodPost,
		path:        "/api/lectures/upload-audio",
		contentType: writer.FormDataContentType(),
		payload:     buf.Bytes(),
	}
	if err := c.do(ctx, r, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// SummarizeLecture asks the backend to (re)generate the lecture summary.
func (c *Client) SummarizeLecture(ctx context.Context, id int) (*Lecture, error) {
	var lecture Lecture
	if err := c.post(ctx, fmt.Sprintf("/api/lectures/%d/summarize", id), nil, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (c *Client) UpdateLecture(ctx context.Context, id int, req UpdateLectureRequest) (*Lecture, error) {
	var lecture Lecture
	if err := c.put(ctx, fmt.Sprintf("/api/lectures/%d", id), req, &lecture); err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (c *Client) DeleteLecture(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/lectures/%d", id))
}
