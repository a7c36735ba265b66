package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSES_DisabledWithoutFrom(t *testing.T) {
	s, err := NewSES(context.Background(), Config{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	// A disabled sender is a no-op.
	assert.NoError(t, s.Send(context.Background(), Message{To: "parent@example.com", Subject: "s", Body: "b"}))
}

func TestSend(t *testing.T) {
	fake := &fakeSES{}
	s := newSES(fake, Config{Region: "eu-west-1", From: "reports@example.com", FromName: "GradePath"})
	require.True(t, s.Enabled())

	err := s.Send(context.Background(), Message{To: "parent@example.com", Subject: "Student Achievement Prediction Report", Body: "Final Grade (G3): 13.42/20"})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, `"GradePath" <reports@example.com>`, aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"parent@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Student Achievement Prediction Report", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "Final Grade (G3): 13.42/20", aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Nil(t, in.Content.Simple.Body.Html)
}

func TestSend_BareFromAddress(t *testing.T) {
	fake := &fakeSES{}
	s := newSES(fake, Config{From: "reports@example.com"})
	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com"}))
	assert.Equal(t, "reports@example.com", aws.ToString(fake.inputs[0].FromEmailAddress))
}

func TestSend_InvalidRecipient(t *testing.T) {
	fake := &fakeSES{}
	s := newSES(fake, Config{From: "reports@example.com"})

	for _, to := range []string{"", "not an address"} {
		err := s.Send(context.Background(), Message{To: to})
		assert.ErrorIs(t, err, ErrInvalidRecipient, "to=%q", to)
	}
	assert.Empty(t, fake.inputs)
}

func TestSend_ClientError(t *testing.T) {
	boom := errors.New("throttled")
	s := newSES(&fakeSES{err: boom}, Config{From: "reports@example.com"})

	err := s.Send(context.Background(), Message{To: "a@example.com"})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "send email to a@example.com")
}
