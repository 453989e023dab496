package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_cli "github.com/at-ishikawa/certprep/internal/mocks/cli"
)

func TestInteractiveCLI_Run(t *testing.T) {
	t.Run("loops until the session finishes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := mock_cli.NewMockSession(ctrl)
		gomock.InOrder(
			session.EXPECT().Session(gomock.Any()).Return(nil).Times(2),
			session.EXPECT().Session(gomock.Any()).Return(errEnd),
		)

		cli := &InteractiveCLI{stdoutWriter: &bytes.Buffer{}}
		assert.NoError(t, cli.Run(context.Background(), session))
	})

	t.Run("surfaces a session error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := mock_cli.NewMockSession(ctrl)
		wantErr := errors.New("question bank unavailable")
		session.EXPECT().Session(gomock.Any()).Return(wantErr)

		cli := &InteractiveCLI{stdoutWriter: &bytes.Buffer{}}
		err := cli.Run(context.Background(), session)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("stops when the context is already canceled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := mock_cli.NewMockSession(ctrl)
		session.EXPECT().Session(gomock.Any()).Return(nil).AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cli := &InteractiveCLI{stdoutWriter: &bytes.Buffer{}}
		assert.NoError(t, cli.Run(ctx, session))
	})
}
