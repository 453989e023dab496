// Package cli implements the interactive terminal sessions of the study
// tracker: the practice quiz, the flashcard drill, the timed study
// session, and the renderers for plans and dashboards.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
)

var errEnd = errors.New("session finished")

// InteractiveCLI contains shared logic for interactive sessions
type InteractiveCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

func newInteractiveCLI() *InteractiveCLI {
	return &InteractiveCLI{
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

//go:generate mockgen -source=interactive_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(context context.Context) error
}

func (cli *InteractiveCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readLine reads one trimmed line of user input.
func (cli *InteractiveCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
