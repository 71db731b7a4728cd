package models

import "time"

type ChatMessageBuilder struct {
	msg *ChatMessage
}

func NewChatMessageBuilder() *ChatMessageBuilder {
	return &ChatMessageBuilder{
		msg: &ChatMessage{
			Metadata: Metadata{},
		},
	}
}

func (b *ChatMessageBuilder) WithID(id string) *ChatMessageBuilder {
	b.msg.ID = id
	return b
}

func (b *ChatMessageBuilder) WithSource(source string) *ChatMessageBuilder {
	b.msg.Source = source
	return b
}

func (b *ChatMessageBuilder) WithSender(sender string) *ChatMessageBuilder {
	b.msg.Sender = sender
	return b
}

func (b *ChatMessageBuilder) WithText(text string) *ChatMessageBuilder {
	b.msg.Text = text
	return b
}

func (b *ChatMessageBuilder) WithReceivedAt(receivedAt time.Time) *ChatMessageBuilder {
	b.msg.ReceivedAt = receivedAt
	return b
}

func (b *ChatMessageBuilder) WithMetadata(metadata Metadata) *ChatMessageBuilder {
	b.msg.Metadata = metadata
	return b
}

func (b *ChatMessageBuilder) WithTraceID(traceID string) *ChatMessageBuilder {
	b.msg.Metadata.TraceID = traceID
	return b
}

func (b *ChatMessageBuilder) WithAttribute(key string, value interface{}) *ChatMessageBuilder {
	if b.msg.Metadata.Attributes == nil {
		b.msg.Metadata.Attributes = make(map[string]interface{})
	}
	b.msg.Metadata.Attributes[key] = value
	return b
}

func (b *ChatMessageBuilder) Build() *ChatMessage {
	if b.msg.ReceivedAt.IsZero() {
		b.msg.ReceivedAt = time.Now()
	}
	return b.msg
}
