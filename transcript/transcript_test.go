package transcript_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-study-client/api"
	"github.com/jrsteele09/go-study-client/transcript"
)

func TestAppendPendingThenCommit(t *testing.T) {
	tr := transcript.New()

	pendingID := tr.AppendPending("What is mitosis?")
	require.True(t, tr.HasPending())

	entries := tr.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, transcript.StatusPending, entries[0].Status)
	require.Equal(t, api.ChatRoleUser, entries[0].Message.Role)
	require.Equal(t, "What is mitosis?", entries[0].Message.Content)

	confirmed := api.ChatMessage{ID: 10, SessionID: "s1", Role: api.ChatRoleUser, Content: "What is mitosis?"}
	reply := api.ChatMessage{ID: 11, SessionID: "s1", Role: api.ChatRoleAssistant, Content: "Cell division..."}
	require.NoError(t, tr.Commit(pendingID, confirmed, reply))

	entries = tr.Entries()
	require.Len(t, entries, 2)
	require.False(t, tr.HasPending())
	require.Equal(t, transcript.StatusCommitted, entries[0].Status)
	require.Equal(t, 10, entries[0].Message.ID)
	require.Equal(t, pendingID, entries[0].ID) // identity survives the commit
	require.Equal(t, api.ChatRoleAssistant, entries[1].Message.Role)
}

func TestRejectRemovesPendingEntry(t *testing.T) {
	tr := transcript.New()
	tr.Load([]api.ChatMessage{
		{ID: 1, Role: api.ChatRoleUser, Content: "hi"},
		{ID: 2, Role: api.ChatRoleAssistant, Content: "hello"},
	})

	pendingID := tr.AppendPending("lost message")
	require.NoError(t, tr.Reject(pendingID))

	entries := tr.Entries()
	require.Len(t, entries, 2)
	require.False(t, tr.HasPending())
	for _, entry := range entries {
		require.Equal(t, transcript.StatusCommitted, entry.Status)
	}
}

func TestResolveTwiceFails(t *testing.T) {
	tr := transcript.New()
	pendingID := tr.AppendPending("once")

	require.NoError(t, tr.Reject(pendingID))
	require.ErrorIs(t, tr.Reject(pendingID), transcript.ErrEntryNotFound)
	require.ErrorIs(t, tr.Commit(pendingID, api.ChatMessage{}, api.ChatMessage{}), transcript.ErrEntryNotFound)
}

func TestLoadReplacesLocalState(t *testing.T) {
	tr := transcript.New()
	tr.AppendPending("stale")

	tr.Load([]api.ChatMessage{{ID: 1, Role: api.ChatRoleUser, Content: "fresh"}})

	entries := tr.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "fresh", entries[0].Message.Content)
	require.False(t, tr.HasPending())
}
