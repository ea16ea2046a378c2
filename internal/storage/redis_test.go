package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, addr string) *RedisStorage {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	r, err := NewRedisStorage(addr, testDataDir(t), time.Hour, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisStorage_Transcripts(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newTestRedis(t, mr.Addr())
	ctx := context.Background()

	require.NoError(t, r.Ping(ctx))

	tr := &dialogue.Transcript{
		SessionID: "session-1",
		SourceID:  "harbor",
		Mode:      dialogue.VisualNovel,
		Lines:     []dialogue.TranscriptLine{{Speaker: "Rin", Text: "Hello."}},
		Choices:   []dialogue.TranscriptChoice{{AfterLine: 0, Choice: story.Choice{Index: 1, Text: "Wave"}}},
		Ended:     true,
	}
	require.NoError(t, r.SaveTranscript(ctx, tr))
	assert.True(t, mr.Exists("transcript:session-1"))
	assert.Equal(t, time.Hour, mr.TTL("transcript:session-1"))

	loaded, err := r.LoadTranscript(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, dialogue.VisualNovel, loaded.Mode)
	assert.Equal(t, tr.Lines, loaded.Lines)
	assert.Equal(t, tr.Choices, loaded.Choices)
	assert.True(t, loaded.Ended)

	require.NoError(t, r.DeleteTranscript(ctx, "session-1"))
	loaded, err = r.LoadTranscript(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_TranscriptExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newTestRedis(t, mr.Addr())
	ctx := context.Background()

	require.NoError(t, r.SaveTranscript(ctx, &dialogue.Transcript{SessionID: "s"}))
	mr.FastForward(2 * time.Hour)

	loaded, err := r.LoadTranscript(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newTestRedis(t, "redis://"+mr.Addr()+"/0")
	assert.NoError(t, r.Ping(context.Background()))

	_, err := NewRedisStorage("redis://:bad:url", t.TempDir(), time.Hour, nil)
	assert.Error(t, err)
}

func TestRedisStorage_ServesFiles(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newTestRedis(t, mr.Addr())

	src, err := r.GetSource(context.Background(), "harbor")
	require.NoError(t, err)
	assert.NotEmpty(t, src.Compiled)
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	r := newTestRedis(t, mr.Addr())
	assert.NoError(t, r.WaitForConnection(context.Background(), 3, time.Millisecond))

	down := newTestRedis(t, "127.0.0.1:1")
	assert.Error(t, down.WaitForConnection(context.Background(), 2, time.Millisecond))
}
