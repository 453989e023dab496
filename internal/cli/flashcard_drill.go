package cli

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/certprep/internal/catalog"
)

// FlashcardDrillCLI runs the front/back flashcard deck in the terminal
type FlashcardDrillCLI struct {
	*InteractiveCLI
	cards []catalog.Flashcard

	known    int
	reviewed int
}

// NewFlashcardDrillCLI creates a drill session over the flashcard deck.
// An empty topicID includes every card.
func NewFlashcardDrillCLI(cat *catalog.Catalog, topicID string) (*FlashcardDrillCLI, error) {
	var cards []catalog.Flashcard
	for _, card := range cat.Flashcards {
		if topicID == "" || card.TopicID == topicID {
			cards = append(cards, card)
		}
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no flashcards for topic %q", topicID)
	}

	return &FlashcardDrillCLI{
		InteractiveCLI: newInteractiveCLI(),
		cards:          cards,
	}, nil
}

// ShuffleCards shuffles the deck
func (r *FlashcardDrillCLI) ShuffleCards() {
	rand.Shuffle(len(r.cards), func(i, j int) {
		r.cards[i], r.cards[j] = r.cards[j], r.cards[i]
	})
}

// CardCount returns the number of remaining cards
func (r *FlashcardDrillCLI) CardCount() int {
	return len(r.cards)
}

func (r *FlashcardDrillCLI) Session(ctx context.Context) error {
	if len(r.cards) == 0 {
		r.printSummary()
		return errEnd
	}
	card := r.cards[0]

	_, _ = r.bold.Fprintf(r.stdoutWriter, "%s\n", card.Front)
	fmt.Fprint(r.stdoutWriter, "Press enter to flip (or type 'quit'): ")

	input, err := r.readLine()
	if err != nil {
		return err
	}
	if strings.EqualFold(input, "quit") {
		r.printSummary()
		return errEnd
	}

	fmt.Fprintf(r.stdoutWriter, "%s\n", r.italic.Sprintf("%s", card.Back))
	fmt.Fprint(r.stdoutWriter, "Did you know it? (y/n): ")

	answer, err := r.readLine()
	if err != nil {
		return err
	}

	r.reviewed++
	if strings.EqualFold(answer, "y") {
		r.known++
		color.Green("Marked as known.")
	} else {
		color.Yellow("Keep this one in rotation.")
	}
	fmt.Fprintln(r.stdoutWriter)

	r.cards = r.cards[1:]
	return nil
}

func (r *FlashcardDrillCLI) printSummary() {
	if r.reviewed == 0 {
		fmt.Fprintln(r.stdoutWriter, "No cards reviewed.")
		return
	}
	fmt.Fprintf(r.stdoutWriter, "Known: %d/%d\n", r.known, r.reviewed)
}
