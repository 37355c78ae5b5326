package server

// Streaming tests dial a real websocket against an httptest listener.

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compresr/prompt-trim/internal/pipeline"
)

// TestStreamTrim verifies one reply per frame, with per-frame options
// falling back to the configured defaults rather than the previous frame.
func TestStreamTrim(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.httpServer.Handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	keepSpaces := pipeline.DefaultOptions()
	keepSpaces.RemoveSpaces = false

	require.NoError(t, wsjson.Write(ctx, conn, streamFrame{
		Text:    "The quick brown fox jumps over the lazy dog",
		Options: &keepSpaces,
	}))

	var reply streamReply
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.Equal(t, "quick brown fox jumps lazy dog", reply.Reduced)
	assert.Equal(t, 43, reply.Stats.OriginalChars)

	// second frame omits options: configured defaults apply, not the
	// previous frame's
	require.NoError(t, wsjson.Write(ctx, conn, streamFrame{
		Text: "The quick brown fox jumps over the lazy dog",
	}))
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	assert.Equal(t, "quickbrownfoxjumpslazydog", reply.Reduced)
}
