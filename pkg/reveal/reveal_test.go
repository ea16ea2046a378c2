package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name    string
		message string
		text    string
		cmds    []Command
	}{
		{
			name:    "plain",
			message: "Hello.",
			text:    "Hello.",
		},
		{
			name:    "pause mid line",
			message: "Wait<pause=0.5>... what?",
			text:    "Wait... what?",
			cmds:    []Command{{Kind: CommandPause, Index: 4, Value: 0.5}},
		},
		{
			name:    "speed then pause",
			message: "<speed=2>Fast<pause=1>",
			text:    "Fast",
			cmds: []Command{
				{Kind: CommandSpeed, Index: 0, Value: 2},
				{Kind: CommandPause, Index: 4, Value: 1},
			},
		},
		{
			name:    "unknown marker kept",
			message: "a <b> c",
			text:    "a <b> c",
		},
		{
			name:    "negative pause kept",
			message: "x<pause=-1>",
			text:    "x<pause=-1>",
		},
		{
			name:    "unterminated marker kept",
			message: "x <pause=1",
			text:    "x <pause=1",
		},
		{
			name:    "indexes count runes",
			message: "héllo<pause=1>",
			text:    "héllo",
			cmds:    []Command{{Kind: CommandPause, Index: 5, Value: 1}},
		},
		{
			name:    "decomposed input normalized",
			message: "he\u0301<pause=1>",
			text:    "h\u00e9",
			cmds:    []Command{{Kind: CommandPause, Index: 2, Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, cmds := ParseCommands(tt.message)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.cmds, cmds)
		})
	}
}

func TestTypewriter_RevealsOverTime(t *testing.T) {
	tw := NewTypewriter(10)
	completed := 0
	tw.Begin(nil, "abc", func() { completed++ })

	require.True(t, tw.IsRevealing())
	assert.Equal(t, "", tw.Visible())

	tw.Tick(100 * time.Millisecond)
	assert.Equal(t, "a", tw.Visible())

	tw.Tick(150 * time.Millisecond)
	assert.Equal(t, "ab", tw.Visible())

	tw.Tick(50 * time.Millisecond)
	assert.Equal(t, "abc", tw.Visible())
	assert.False(t, tw.IsRevealing(), "completes once the last rune is shown")
	assert.Equal(t, 1, completed)

	tw.Tick(time.Second)
	assert.Equal(t, 1, completed, "completion fires exactly once")
}

func TestTypewriter_SkipToEnd(t *testing.T) {
	tw := NewTypewriter(10)
	completed := 0
	text, cmds := ParseCommands("slow<pause=5> line")
	tw.Begin(cmds, text, func() { completed++ })

	tw.Tick(100 * time.Millisecond)
	tw.SkipToEnd()
	assert.Equal(t, "slow line", tw.Visible())
	assert.False(t, tw.IsRevealing())
	assert.Equal(t, 1, completed)

	tw.SkipToEnd()
	assert.Equal(t, 1, completed, "skip after completion is a no-op")
}

func TestTypewriter_EmptyTextCompletesOnFirstTick(t *testing.T) {
	tw := NewTypewriter(10)
	completed := false
	tw.Begin(nil, "", func() { completed = true })

	assert.True(t, tw.IsRevealing())
	tw.Tick(0)
	assert.True(t, completed)
	assert.False(t, tw.IsRevealing())
}

func TestTypewriter_Pause(t *testing.T) {
	tw := NewTypewriter(10)
	text, cmds := ParseCommands("a<pause=1>b")
	tw.Begin(cmds, text, nil)

	tw.Tick(100 * time.Millisecond)
	assert.Equal(t, "a", tw.Visible())

	tw.Tick(900 * time.Millisecond)
	assert.Equal(t, "a", tw.Visible(), "still paused")

	tw.Tick(200 * time.Millisecond)
	assert.Equal(t, "ab", tw.Visible())
	assert.False(t, tw.IsRevealing())
}

func TestTypewriter_Speed(t *testing.T) {
	tw := NewTypewriter(10)
	text, cmds := ParseCommands("<speed=2>abcd")
	tw.Begin(cmds, text, nil)

	tw.Tick(100 * time.Millisecond)
	assert.Equal(t, "ab", tw.Visible())
}

func TestTypewriter_CancelDoesNotComplete(t *testing.T) {
	tw := NewTypewriter(10)
	completed := false
	tw.Begin(nil, "abc", func() { completed = true })

	tw.Cancel()
	tw.Tick(time.Second)
	tw.SkipToEnd()
	assert.False(t, completed)
	assert.False(t, tw.IsRevealing())
}

func TestTypewriter_BeginReplacesReveal(t *testing.T) {
	tw := NewTypewriter(10)
	first, second := 0, 0
	tw.Begin(nil, "first", func() { first++ })
	tw.Tick(100 * time.Millisecond)

	tw.Begin(nil, "2nd", func() { second++ })
	assert.Equal(t, "", tw.Visible())
	tw.SkipToEnd()

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, "2nd", tw.Visible())
}
