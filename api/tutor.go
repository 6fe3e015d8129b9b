package api

import (
	"context"
	"net/url"
)

// ChatRequest sends one tutor message. A nil SessionID starts a new chat
// session; SubjectID scopes the tutor's context to one subject.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id,omitempty"`
	SubjectID *int    `json:"subject_id,omitempty"`
}

// ChatResponse is the tutor's reply, carrying the (possibly new) session ID.
type ChatResponse struct {
	SessionID string      `json:"session_id"`
	Message   ChatMessage `json:"message"`
}

// QuickAskResponse is a one-shot question/answer with no session.
type QuickAskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatSessionDetail is a session's full message history.
type ChatSessionDetail struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/api/tutor/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QuickAsk asks a standalone question outside any chat session.
func (c *Client) QuickAsk(ctx context.Context, question string, subjectID *int) (*QuickAskResponse, error) {
	body := struct {
		Question  string `json:"question"`
		SubjectID *int   `json:"subject_id,omitempty"`
	}{Question: question, SubjectID: subjectID}

	var resp QuickAskResponse
	if err := c.post(ctx, "/api/tutor/ask", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListChatSessions(ctx context.Context) ([]ChatSession, error) {
	var sessions []ChatSession
	if err := c.get(ctx, "/api/tutor/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) GetChatSession(ctx context.Context, sessionID string) (*ChatSessionDetail, error) {
	var detail ChatSessionDetail
	if err := c.get(ctx, "/api/tutor/sessions/"+url.PathEscape(sessionID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) DeleteChatSession(ctx context.Context, sessionID string) error {
	return c.delete(ctx, "/api/tutor/sessions/"+url.PathEscape(sessionID))
}
