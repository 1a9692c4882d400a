package smtp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func TestCodeNotifier_SendsRenderedMessage(t *testing.T) {
	m := &mockMailer{}
	m.On("SendEmail", "a@x.com", "Verify your email", mock.MatchedBy(func(body string) bool {
		return assert.Contains(t, body, "654321") && assert.Contains(t, body, "Hi Ann")
	})).Return(nil)

	require.NoError(t, NewCodeNotifier(m).SendCode(context.Background(), "Ann", "a@x.com", "654321"))
	m.AssertExpectations(t)
}

func TestCodeNotifier_InvalidCodeNotSent(t *testing.T) {
	m := &mockMailer{}
	err := NewCodeNotifier(m).SendCode(context.Background(), "Ann", "a@x.com", "12")
	require.Error(t, err)
	m.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestCodeNotifier_WrapsMailerError(t *testing.T) {
	m := &mockMailer{}
	dialErr := errors.New("connection refused")
	m.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(dialErr)

	err := NewCodeNotifier(m).SendCode(context.Background(), "", "a@x.com", "123456")
	assert.True(t, errors.Is(err, dialErr))
}

func TestCodeNotifier_CanceledContext(t *testing.T) {
	m := &mockMailer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCodeNotifier(m).SendCode(ctx, "Ann", "a@x.com", "123456")
	assert.True(t, errors.Is(err, context.Canceled))
	m.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}
