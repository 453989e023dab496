package cli

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/certprep/internal/catalog"
)

// PracticeQuizCLI runs the multiple-choice question bank in the terminal
type PracticeQuizCLI struct {
	*InteractiveCLI
	catalog   *catalog.Catalog
	questions []catalog.Question

	correct  int
	answered int
}

// NewPracticeQuizCLI creates a quiz session over the question bank. An
// empty topicID includes every question.
func NewPracticeQuizCLI(cat *catalog.Catalog, topicID string) (*PracticeQuizCLI, error) {
	var questions []catalog.Question
	for _, question := range cat.Questions {
		if topicID == "" || question.TopicID == topicID {
			questions = append(questions, question)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no practice questions for topic %q", topicID)
	}

	return &PracticeQuizCLI{
		InteractiveCLI: newInteractiveCLI(),
		catalog:        cat,
		questions:      questions,
	}, nil
}

// ShuffleQuestions shuffles the question order
func (r *PracticeQuizCLI) ShuffleQuestions() {
	rand.Shuffle(len(r.questions), func(i, j int) {
		r.questions[i], r.questions[j] = r.questions[j], r.questions[i]
	})
}

// QuestionCount returns the number of remaining questions
func (r *PracticeQuizCLI) QuestionCount() int {
	return len(r.questions)
}

func (r *PracticeQuizCLI) Session(ctx context.Context) error {
	if len(r.questions) == 0 {
		r.printSummary()
		return errEnd
	}
	question := r.questions[0]

	topicName := question.TopicID
	if topic, ok := r.catalog.Topic(question.TopicID); ok {
		topicName = topic.Name
	}
	fmt.Fprintf(r.stdoutWriter, "[%s]\n", r.italic.Sprintf("%s", topicName))
	_, _ = r.bold.Fprintf(r.stdoutWriter, "%s\n", question.Text)
	for i, option := range question.Options {
		fmt.Fprintf(r.stdoutWriter, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintf(r.stdoutWriter, "Your answer (1-%d, or 'quit'): ", len(question.Options))

	input, err := r.readLine()
	if err != nil {
		return err
	}
	if strings.EqualFold(input, "quit") {
		r.printSummary()
		return errEnd
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(question.Options) {
		fmt.Fprintf(r.stdoutWriter, "Please answer with a number between 1 and %d.\n\n", len(question.Options))
		return nil
	}

	r.answered++
	if choice-1 == question.CorrectIndex {
		r.correct++
		fmt.Fprint(r.stdoutWriter, "✅ ")
		color.Green("Correct!")
	} else {
		fmt.Fprint(r.stdoutWriter, "❌ ")
		color.Red("Wrong. The answer is %d) %s", question.CorrectIndex+1, question.Options[question.CorrectIndex])
	}
	fmt.Fprintf(r.stdoutWriter, "   %s\n\n", question.Explanation)

	r.questions = r.questions[1:]
	return nil
}

func (r *PracticeQuizCLI) printSummary() {
	if r.answered == 0 {
		fmt.Fprintln(r.stdoutWriter, "No questions answered.")
		return
	}
	fmt.Fprintf(r.stdoutWriter, "Score: %d/%d (%.0f%%)\n",
		r.correct, r.answered, float64(r.correct)/float64(r.answered)*100)
}
