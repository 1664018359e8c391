package delivery

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innosearch/contact-sync/internal/config"
	"github.com/innosearch/contact-sync/internal/mailtrap"
	"github.com/innosearch/contact-sync/internal/store"
)

// stubSender records every transmission and fails the configured calls.
type stubSender struct {
	mails   []*mailtrap.Mail
	failOn  map[int]error    // call index → transport error
	rejects map[int]struct{} // call index → success=false response
}

func (s *stubSender) Send(ctx context.Context, mail *mailtrap.Mail) (*mailtrap.SendResponse, error) {
	idx := len(s.mails)
	s.mails = append(s.mails, mail)
	if err, ok := s.failOn[idx]; ok {
		return nil, err
	}
	if _, ok := s.rejects[idx]; ok {
		return &mailtrap.SendResponse{Success: false, Errors: []string{"rejected"}}, nil
	}
	return &mailtrap.SendResponse{Success: true, MessageIDs: []string{"msg"}}, nil
}

func testConfig() config.MailtrapConfig {
	return config.MailtrapConfig{
		SenderEmail:  "sender@innosearch.ai",
		SenderName:   "Innosearch",
		TemplateUUID: "template-123",
	}
}

func entry(email, first string) *store.Entry {
	e := &store.Entry{Email: email, OptInStatus: true}
	if first != "" {
		e.FirstName = sql.NullString{String: first, Valid: true}
	}
	return e
}

func TestSendIndividual_OneCallPerEntry(t *testing.T) {
	sender := &stubSender{}
	s := NewStreamer(sender, testConfig())

	entries := []*store.Entry{
		entry("a@example.com", "Ada"),
		entry("b@example.com", "Bob"),
	}

	statuses := s.SendIndividual(context.Background(), entries)
	require.Len(t, statuses, 2)
	require.Len(t, sender.mails, 2)

	assert.Equal(t, "a@example.com", sender.mails[0].To[0].Email)
	assert.Equal(t, "Ada", sender.mails[0].Variables["name"])
	assert.Equal(t, "sender@innosearch.ai", sender.mails[0].From.Email)
	assert.Equal(t, "template-123", sender.mails[0].TemplateUUID)

	for _, st := range statuses {
		assert.True(t, st.Sent)
		assert.NoError(t, st.Err)
	}
}

// A failure mid-list never suppresses the remaining sends.
func TestSendIndividual_FailureDoesNotAbort(t *testing.T) {
	sender := &stubSender{failOn: map[int]error{1: errors.New("timeout")}}
	s := NewStreamer(sender, testConfig())

	entries := []*store.Entry{
		entry("a@example.com", "Ada"),
		entry("b@example.com", "Bob"),
		entry("c@example.com", "Cam"),
	}

	statuses := s.SendIndividual(context.Background(), entries)
	require.Len(t, sender.mails, 3, "all sends attempted")
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].Sent)
	assert.False(t, statuses[1].Sent)
	assert.Error(t, statuses[1].Err)
	assert.Equal(t, "b@example.com", statuses[1].Email)
	assert.True(t, statuses[2].Sent)
}

func TestSendIndividual_RejectedResponse(t *testing.T) {
	sender := &stubSender{rejects: map[int]struct{}{0: {}}}
	s := NewStreamer(sender, testConfig())

	statuses := s.SendIndividual(context.Background(), []*store.Entry{
		entry("a@example.com", "Ada"),
	})
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Sent)
	assert.Error(t, statuses[0].Err)
}

func TestSendBatch_SingleCall(t *testing.T) {
	sender := &stubSender{}
	s := NewStreamer(sender, testConfig())

	entries := []*store.Entry{
		entry("a@example.com", "Ada"),
		entry("b@example.com", "Bob"),
		entry("c@example.com", ""),
	}

	err := s.SendBatch(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, sender.mails, 1)

	mail := sender.mails[0]
	require.Len(t, mail.To, 3)
	assert.Equal(t, "c@example.com", mail.To[2].Email)
	assert.Nil(t, mail.Variables, "no per-recipient substitution in batch mode")
}

func TestSendBatch_EmptyListNoCall(t *testing.T) {
	sender := &stubSender{}
	s := NewStreamer(sender, testConfig())

	err := s.SendBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, sender.mails)
}

func TestSendBatch_ErrorReturned(t *testing.T) {
	sender := &stubSender{failOn: map[int]error{0: errors.New("boom")}}
	s := NewStreamer(sender, testConfig())

	err := s.SendBatch(context.Background(), []*store.Entry{entry("a@example.com", "Ada")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
