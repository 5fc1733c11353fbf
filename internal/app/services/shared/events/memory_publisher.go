package events

import (
	"context"
	"mediconnect-service/internal/app/contracts"
	"sync"
)

type Message struct {
	RoutingKey string
	Payload    interface{}
}

// MemoryPublisher keeps published messages in process. It backs local runs
// without a broker and tests.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
}

var _ contracts.EventPublisher = (*MemoryPublisher)(nil)

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, Message{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// RoutingKeys lists the routing keys in publish order.
func (p *MemoryPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.messages))
	for _, message := range p.messages {
		keys = append(keys, message.RoutingKey)
	}
	return keys
}
