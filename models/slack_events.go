package models

import (
	"encoding/json"
)

// SlackCallbackType is the outer discriminator of an inbound Slack webhook payload.
// Keeping this a closed set means new callback kinds show up as a visible gap
// in the dispatch switch instead of silently falling through a string compare.
type SlackCallbackType string

const (
	SlackCallbackURLVerification SlackCallbackType = "url_verification"
	SlackCallbackEventCallback   SlackCallbackType = "event_callback"
	SlackCallbackUnknown         SlackCallbackType = "unknown"
)

func ParseSlackCallbackType(value string) SlackCallbackType {
	switch SlackCallbackType(value) {
	case SlackCallbackURLVerification:
		return SlackCallbackURLVerification
	case SlackCallbackEventCallback:
		return SlackCallbackEventCallback
	default:
		return SlackCallbackUnknown
	}
}

// SlackEventType is the inner event discriminator of an event_callback payload
type SlackEventType string

const (
	SlackEventMessage        SlackEventType = "message"
	SlackEventAppMention     SlackEventType = "app_mention"
	SlackEventChannelCreated SlackEventType = "channel_created"
	SlackEventChannelDeleted SlackEventType = "channel_deleted"
	SlackEventUnknown        SlackEventType = "unknown"
)

func ParseSlackEventType(value string) SlackEventType {
	switch SlackEventType(value) {
	case SlackEventMessage:
		return SlackEventMessage
	case SlackEventAppMention:
		return SlackEventAppMention
	case SlackEventChannelCreated:
		return SlackEventChannelCreated
	case SlackEventChannelDeleted:
		return SlackEventChannelDeleted
	default:
		return SlackEventUnknown
	}
}

// SlackEventEnvelope is the verified, parsed inbound webhook payload.
// It is processed and discarded per request, never persisted.
type SlackEventEnvelope struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	TeamID    string          `json:"team_id"`
	Event     json.RawMessage `json:"event"`
}

func (e *SlackEventEnvelope) CallbackType() SlackCallbackType {
	return ParseSlackCallbackType(e.Type)
}

// SlackInnerEvent is the nested event of an event_callback envelope
type SlackInnerEvent struct {
	Type     string `json:"type"`
	Channel  string `json:"channel"`
	User     string `json:"user"`
	Text     string `json:"text"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
}

func (e *SlackInnerEvent) EventType() SlackEventType {
	return ParseSlackEventType(e.Type)
}
