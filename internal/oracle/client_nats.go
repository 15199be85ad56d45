package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	id "civicred/pkg/domain"
)

// NATS subjects for the oracle contract. Requests use request/reply so the
// oracle can hand back the request id it assigned; results arrive later on
// the result subjects.
const (
	SubjectVerifyRequest = "oracle.verify.request"
	SubjectIssueRequest  = "oracle.issue.request"
	SubjectVerifyResult  = "oracle.verify.result"
	SubjectIssueResult   = "oracle.issue.result"
)

type dispatchPayload struct {
	Kind           string          `json:"kind"`
	RegistrationID string          `json:"registration_id"`
	Ciphertexts    []id.Ciphertext `json:"ciphertexts"`
}

type dispatchReply struct {
	RequestID string `json:"request_id"`
}

// NATSClient dispatches oracle requests over NATS request/reply.
type NATSClient struct {
	conn    *nats.Conn
	timeout time.Duration
}

func NewNATSClient(conn *nats.Conn, timeout time.Duration) *NATSClient {
	return &NATSClient{conn: conn, timeout: timeout}
}

func (c *NATSClient) Dispatch(ctx context.Context, req Request) (id.RequestID, error) {
	subject := SubjectVerifyRequest
	if req.Kind == KindIssuance {
		subject = SubjectIssueRequest
	}

	data, err := json.Marshal(dispatchPayload{
		Kind:           string(req.Kind),
		RegistrationID: req.RegistrationID.String(),
		Ciphertexts:    req.Ciphertexts,
	})
	if err != nil {
		return "", fmt.Errorf("marshal oracle request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return "", fmt.Errorf("dispatch oracle request: %w", err)
	}

	var reply dispatchReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return "", fmt.Errorf("decode oracle reply: %w", err)
	}
	if reply.RequestID == "" {
		return "", fmt.Errorf("oracle reply carries no request id")
	}
	return id.RequestID(reply.RequestID), nil
}
