package audit

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when NATSSink.Subject is empty.
const DefaultSubject = "pwfilter.audit"

// Publisher is the slice of *nats.Conn NATSSink needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes each record as JSON, with the rendered message added.
// Publish on a core NATS connection only buffers, so it does not block the
// verdict.
type NATSSink struct {
	Conn    Publisher
	Subject string

	// MaskAccounts applies util.MaskAccount to account inserts.
	MaskAccounts bool
}

type wireRecord struct {
	Record
	Message string `json:"message"`
}

func (s NATSSink) Record(rec Record) error {
	if s.Conn == nil {
		return fmt.Errorf("audit: nats sink has no connection")
	}
	if s.MaskAccounts {
		rec = maskAccount(rec)
	}
	b, err := json.Marshal(wireRecord{Record: rec, Message: rec.Message()})
	if err != nil {
		return fmt.Errorf("audit: marshal record: %w", err)
	}
	subj := s.Subject
	if subj == "" {
		subj = DefaultSubject
	}
	if err := s.Conn.Publish(subj, b); err != nil {
		return fmt.Errorf("audit: nats publish: %w", err)
	}
	return nil
}

// natsConnectFunc allows mocking nats.Connect in tests.
var natsConnectFunc = nats.Connect

// ConnectNATS dials url (nats.DefaultURL when empty).
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := natsConnectFunc(url, nats.Name("pwfilter-audit"))
	if err != nil {
		return nil, fmt.Errorf("audit: nats connect %s: %w", url, err)
	}
	return nc, nil
}
