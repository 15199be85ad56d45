package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	id "civicred/pkg/domain"
)

// CallbackMessage is the wire form of an oracle result on the NATS result
// subjects and the HTTP callback endpoints.
type CallbackMessage struct {
	RequestID   string `json:"request_id"`
	ClearResult []byte `json:"clear_result"`
	Proof       []byte `json:"proof"`
}

// ResultHandler is the single verified entry point for one callback kind.
// Both coordinators implement it.
type ResultHandler interface {
	HandleResult(ctx context.Context, requestID id.RequestID, clearResult, proof []byte) error
}

// Consumer subscribes to the oracle result subjects and routes each message
// to the coordinator for its kind. Handler errors are outcomes of the
// protocol (UnknownRequest, InvalidProof, NotEligible, ...) and are logged,
// never retried automatically.
type Consumer struct {
	conn         *nats.Conn
	verification ResultHandler
	issuance     ResultHandler
	logger       *slog.Logger

	subs []*nats.Subscription
}

func NewConsumer(conn *nats.Conn, verification, issuance ResultHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		conn:         conn,
		verification: verification,
		issuance:     issuance,
		logger:       logger,
	}
}

// Start subscribes to both result subjects. Callbacks run on the NATS
// delivery goroutine; the coordinators' stores provide the serialization.
func (c *Consumer) Start(ctx context.Context) error {
	verifySub, err := c.conn.Subscribe(SubjectVerifyResult, func(msg *nats.Msg) {
		c.consume(ctx, msg, c.verification)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectVerifyResult, err)
	}
	c.subs = append(c.subs, verifySub)

	issueSub, err := c.conn.Subscribe(SubjectIssueResult, func(msg *nats.Msg) {
		c.consume(ctx, msg, c.issuance)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectIssueResult, err)
	}
	c.subs = append(c.subs, issueSub)

	return nil
}

// Stop drains the subscriptions.
func (c *Consumer) Stop() {
	for _, sub := range c.subs {
		_ = sub.Drain()
	}
}

func (c *Consumer) consume(ctx context.Context, msg *nats.Msg, handler ResultHandler) {
	var callback CallbackMessage
	if err := json.Unmarshal(msg.Data, &callback); err != nil {
		c.logger.WarnContext(ctx, "malformed oracle callback",
			"subject", msg.Subject,
			"error", err,
		)
		return
	}
	if err := handler.HandleResult(ctx, id.RequestID(callback.RequestID), callback.ClearResult, callback.Proof); err != nil {
		c.logger.WarnContext(ctx, "oracle callback rejected",
			"subject", msg.Subject,
			"oracle_request_id", callback.RequestID,
			"error", err,
		)
	}
}
