package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateChatMessage(msg *ChatMessage) error {
	if msg == nil {
		return &ValidationError{
			Field:   "message",
			Message: "chat message cannot be nil",
		}
	}

	if msg.ID == "" {
		return &ValidationError{
			Field:   "id",
			Message: "message ID is required",
		}
	}

	if msg.Source == "" {
		return &ValidationError{
			Field:   "source",
			Message: "message source is required",
		}
	}

	if msg.ReceivedAt.IsZero() {
		return &ValidationError{
			Field:   "received_at",
			Message: "message received_at is required",
		}
	}

	if msg.Text == "" {
		return &ValidationError{
			Field:   "text",
			Message: "message text cannot be empty",
		}
	}

	return nil
}

func (msg *ChatMessage) GetAttribute(name string) (interface{}, bool) {
	if msg.Metadata.Attributes == nil {
		return nil, false
	}

	value, ok := msg.Metadata.Attributes[name]
	return value, ok
}

func (msg *ChatMessage) SetAttribute(name string, value interface{}) {
	if msg.Metadata.Attributes == nil {
		msg.Metadata.Attributes = make(map[string]interface{})
	}

	msg.Metadata.Attributes[name] = value
}
