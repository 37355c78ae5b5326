// Websocket streaming: one reduction per inbound frame.
//
// DESIGN: GET /v1/stream upgrades to a websocket. Each inbound JSON frame
// {text, options?} is answered with {reduced, stats}. The connection is
// the session; options omitted on a frame fall back to the configured
// defaults, not to the previous frame's options.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"github.com/compresr/prompt-trim/internal/pipeline"
	"github.com/compresr/prompt-trim/internal/stats"
)

// streamFrame is one inbound websocket message.
type streamFrame struct {
	Text    string            `json:"text"`
	Options *pipeline.Options `json:"options,omitempty"`
}

// streamReply is one outbound websocket message.
type streamReply struct {
	Reduced string                 `json:"reduced"`
	Stats   stats.CompressionStats `json:"stats"`
}

// streamIdleTimeout closes sessions with no inbound frame.
const streamIdleTimeout = 5 * time.Minute

// handleStream serves a websocket trim session.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	for {
		ctx, cancel := context.WithTimeout(r.Context(), streamIdleTimeout)

		var frame streamFrame
		err := wsjson.Read(ctx, conn, &frame)
		cancel()
		if err != nil {
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.StatusNormalClosure {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			log.Debug().Err(err).Msg("websocket read ended")
			return
		}

		opts := s.cfg.Trim
		if frame.Options != nil {
			opts = *frame.Options
		}

		reduced, _ := s.trimOnce(frame.Text, opts)
		reply := streamReply{
			Reduced: reduced,
			Stats:   stats.Compute(frame.Text, reduced),
		}
		s.metrics.RecordTrim(reply.Stats.OriginalChars, reply.Stats.CompressedChars)

		writeCtx, writeCancel := context.WithTimeout(r.Context(), 10*time.Second)
		err = wsjson.Write(writeCtx, conn, reply)
		writeCancel()
		if err != nil {
			log.Debug().Err(err).Msg("websocket write ended")
			return
		}
	}
}
