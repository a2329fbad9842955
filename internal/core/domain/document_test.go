package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDocument(t *testing.T) {
	docs := []Document{{ID: "a", Title: "Report"}, {ID: "b", Title: "Notes"}}

	found := FindDocument(docs, "b")
	require.NotNil(t, found)
	assert.Equal(t, "Notes", found.Title)

	found.Title = "changed"
	assert.Equal(t, "Notes", docs[1].Title, "result is a copy")

	assert.Nil(t, FindDocument(docs, "missing"))
	assert.Nil(t, FindDocument(docs, ""))
	assert.Nil(t, FindDocument(nil, "a"))
}

func TestLoadStatus_String(t *testing.T) {
	tests := map[LoadStatus]string{
		StatusIdle:     "idle",
		StatusLoading:  "loading",
		StatusReady:    "ready",
		StatusError:    "error",
		LoadStatus(42): "unknown",
	}
	for status, want := range tests {
		assert.Equal(t, want, status.String())
	}
}

func TestChatState_String(t *testing.T) {
	tests := map[ChatState]string{
		ChatIdle:      "idle",
		ChatLoading:   "loading",
		ChatReady:     "ready",
		ChatSending:   "sending",
		ChatError:     "error",
		ChatState(-1): "unknown",
	}
	for state, want := range tests {
		assert.Equal(t, want, state.String())
	}
}

func TestChatSnapshot_Pending(t *testing.T) {
	assert.Nil(t, ChatSnapshot{}.Pending())
	assert.Nil(t, ChatSnapshot{Entries: []ChatEntry{{ID: "1"}}}.Pending())

	snap := ChatSnapshot{Entries: []ChatEntry{{ID: "1"}, {UserMessage: "hi", Pending: true, Request: 2}}}
	pending := snap.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, "hi", pending.UserMessage)
	assert.Equal(t, uint64(2), pending.Request)
}
