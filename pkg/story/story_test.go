package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harborScript = `{
  "start": "dock",
  "knots": {
    "dock": {
      "lines": [
        {"text": "The tide is coming in.", "tags": ["speaker:Rin", "emotion:fear"]},
        {"text": "Are you staying?"}
      ],
      "choices": [
        {"text": "Stay", "divert": "stay"},
        {"text": "Leave", "divert": "END"}
      ]
    },
    "stay": {
      "lines": [{"text": "Then hold the rope.", "tags": ["speaker:Rin"]}],
      "divert": "hop"
    },
    "hop": {"lines": [], "divert": "after"},
    "after": {"lines": [{"text": "Done."}]}
  }
}`

func loadHarbor(t *testing.T) *Story {
	t.Helper()
	script, err := Parse([]byte(harborScript))
	require.NoError(t, err)
	s, err := New(script)
	require.NoError(t, err)
	return s
}

func TestStory_LinesAndChoices(t *testing.T) {
	s := loadHarbor(t)

	require.True(t, s.HasMore())
	text, tags, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "The tide is coming in.", text)
	assert.Equal(t, []string{"speaker:Rin", "emotion:fear"}, tags)
	assert.Empty(t, s.CurrentChoices(), "choices come after the last line")

	text, tags, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "Are you staying?", text)
	assert.Empty(t, tags)

	assert.False(t, s.HasMore())
	assert.Equal(t, []Choice{{Index: 0, Text: "Stay"}, {Index: 1, Text: "Leave"}}, s.CurrentChoices())

	_, _, err = s.Advance()
	assert.ErrorIs(t, err, ErrNoMoreContent)
}

func TestStory_SelectChoiceFollowsDiverts(t *testing.T) {
	s := loadHarbor(t)
	s.Advance()
	s.Advance()

	require.NoError(t, s.SelectChoice(0))
	assert.Empty(t, s.CurrentChoices())
	text, _, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "Then hold the rope.", text)

	// The empty "hop" knot is skipped on the way to "after".
	require.True(t, s.HasMore())
	assert.Equal(t, "after", s.Knot())
	text, _, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "Done.", text)
	assert.False(t, s.HasMore())
	assert.Empty(t, s.CurrentChoices())
}

func TestStory_SelectChoiceToEnd(t *testing.T) {
	s := loadHarbor(t)
	s.Advance()
	s.Advance()

	require.NoError(t, s.SelectChoice(1))
	assert.False(t, s.HasMore())
	assert.Empty(t, s.CurrentChoices())
}

func TestStory_SelectChoiceOutOfRange(t *testing.T) {
	s := loadHarbor(t)

	assert.ErrorIs(t, s.SelectChoice(0), ErrChoiceOutOfRange, "no choices before the last line")

	s.Advance()
	s.Advance()
	assert.ErrorIs(t, s.SelectChoice(2), ErrChoiceOutOfRange)
	assert.ErrorIs(t, s.SelectChoice(-1), ErrChoiceOutOfRange)
	assert.Len(t, s.CurrentChoices(), 2, "failed selection keeps choices")
}

func TestScript_Validate(t *testing.T) {
	tests := []struct {
		name    string
		script  Script
		wantErr bool
	}{
		{
			name:   "valid",
			script: Script{Start: "a", Knots: map[string]Knot{"a": {Lines: []Line{{Text: "hi"}}}}},
		},
		{
			name:    "missing start",
			script:  Script{Knots: map[string]Knot{"a": {}}},
			wantErr: true,
		},
		{
			name:    "unknown start",
			script:  Script{Start: "b", Knots: map[string]Knot{"a": {}}},
			wantErr: true,
		},
		{
			name:    "unknown divert",
			script:  Script{Start: "a", Knots: map[string]Knot{"a": {Divert: "nowhere"}}},
			wantErr: true,
		},
		{
			name: "unknown choice divert",
			script: Script{Start: "a", Knots: map[string]Knot{
				"a": {Choices: []Option{{Text: "go", Divert: "nowhere"}}},
			}},
			wantErr: true,
		},
		{
			name: "blank choice text",
			script: Script{Start: "a", Knots: map[string]Knot{
				"a": {Choices: []Option{{Text: " ", Divert: End}}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_DivertLoop(t *testing.T) {
	script := &Script{Start: "a", Knots: map[string]Knot{
		"a": {Divert: "b"},
		"b": {Divert: "a"},
	}}
	_, err := New(script)
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load([]byte("{"))
	assert.Error(t, err)
}

func TestScript_Tags(t *testing.T) {
	script, err := Parse([]byte(harborScript))
	require.NoError(t, err)
	assert.Equal(t, []string{"speaker:Rin", "emotion:fear", "speaker:Rin"}, script.Tags())
}
