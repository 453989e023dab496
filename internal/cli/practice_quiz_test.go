package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/catalog"
)

func newTestInteractiveCLI(input string) (*InteractiveCLI, *bytes.Buffer) {
	output := &bytes.Buffer{}
	return &InteractiveCLI{
		stdinReader:  bufio.NewReader(strings.NewReader(input)),
		stdoutWriter: output,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}, output
}

func TestNewPracticeQuizCLI(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	tests := []struct {
		name      string
		topicID   string
		wantCount int
		wantErr   bool
	}{
		{name: "all questions", topicID: "", wantCount: 3},
		{name: "single topic", topicID: "ethics", wantCount: 1},
		{name: "topic without questions", topicID: "port", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz, err := NewPracticeQuizCLI(cat, tt.topicID)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, quiz.QuestionCount())
		})
	}
}

func TestPracticeQuizCLI_Session(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       string
		wantErr     error
		wantCorrect int
		wantLeft    int
		wantOutput  []string
	}{
		{
			name:        "correct answer consumes the question",
			input:       "2\n",
			wantCorrect: 1,
			wantLeft:    0,
			wantOutput:  []string{"Your answer"},
		},
		{
			name:        "wrong answer still consumes the question",
			input:       "1\n",
			wantCorrect: 0,
			wantLeft:    0,
		},
		{
			name:       "out of range input repeats the question",
			input:      "9\n",
			wantLeft:   1,
			wantOutput: []string{"Please answer with a number between 1 and 3."},
		},
		{
			name:       "quit ends the session with a summary",
			input:      "quit\n",
			wantErr:    errEnd,
			wantLeft:   1,
			wantOutput: []string{"No questions answered."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz, err := NewPracticeQuizCLI(cat, "ethics")
			require.NoError(t, err)

			base, output := newTestInteractiveCLI(tt.input)
			quiz.InteractiveCLI = base

			sessionErr := quiz.Session(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, sessionErr, tt.wantErr)
			} else {
				require.NoError(t, sessionErr)
			}

			assert.Equal(t, tt.wantCorrect, quiz.correct)
			assert.Equal(t, tt.wantLeft, quiz.QuestionCount())
			for _, want := range tt.wantOutput {
				assert.Contains(t, output.String(), want)
			}
		})
	}
}

func TestPracticeQuizCLI_SessionEndsWhenExhausted(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	quiz, err := NewPracticeQuizCLI(cat, "ethics")
	require.NoError(t, err)

	base, output := newTestInteractiveCLI("2\n")
	quiz.InteractiveCLI = base

	require.NoError(t, quiz.Session(context.Background()))
	assert.ErrorIs(t, quiz.Session(context.Background()), errEnd)
	assert.Contains(t, output.String(), "Score: 1/1 (100%)")
}

func TestFlashcardDrillCLI_Session(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	drill, err := NewFlashcardDrillCLI(cat, "")
	require.NoError(t, err)
	require.Equal(t, 4, drill.CardCount())

	base, _ := newTestInteractiveCLI("\ny\n\nn\n")
	drill.InteractiveCLI = base

	require.NoError(t, drill.Session(context.Background()))
	assert.Equal(t, 1, drill.known)
	assert.Equal(t, 3, drill.CardCount())

	require.NoError(t, drill.Session(context.Background()))
	assert.Equal(t, 1, drill.known)
	assert.Equal(t, 2, drill.reviewed)
}

func TestFlashcardDrillCLI_Quit(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	drill, err := NewFlashcardDrillCLI(cat, "quant")
	require.NoError(t, err)

	base, output := newTestInteractiveCLI("quit\n")
	drill.InteractiveCLI = base

	assert.ErrorIs(t, drill.Session(context.Background()), errEnd)
	assert.Contains(t, output.String(), "No cards reviewed.")
}
