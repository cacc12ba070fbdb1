package api

import (
	"currentlybackend/models"
)

// DomainUserToAPIUser converts a domain user to its API representation
func DomainUserToAPIUser(user *models.User) *User {
	return &User{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// DomainIntegrationToAPISlackIntegration converts a credential record to its
// API representation, stripping token material
func DomainIntegrationToAPISlackIntegration(integration *models.Integration) *SlackIntegration {
	return &SlackIntegration{
		ID:                   integration.ID,
		OrganizationID:       integration.OrganizationID,
		SlackTeamID:          integration.SlackTeamID,
		SlackTeamName:        integration.SlackTeamName,
		SlackTeamDomain:      integration.SlackTeamDomain,
		SlackUserID:          integration.SlackUserID,
		Scope:                integration.Scope,
		DefaultChannelID:     integration.DefaultChannelID,
		NotificationsEnabled: integration.NotificationsEnabled,
		IsActive:             integration.IsActive,
		ConnectedAt:          integration.CreatedAt,
		ExpiresAt:            integration.ExpiresAt,
	}
}

// DomainLinkedMessageToAPILinkedMessage converts a linked message to its API representation
func DomainLinkedMessageToAPILinkedMessage(message *models.LinkedMessage) *LinkedMessage {
	return &LinkedMessage{
		ID:                     message.ID,
		StreamID:               message.StreamID,
		OrganizationID:         message.OrganizationID,
		SlackMessageID:         message.SlackMessageID,
		SlackChannelID:         message.SlackChannelID,
		SlackChannelName:       message.SlackChannelName,
		SlackAuthorID:          message.SlackAuthorID,
		SlackAuthorName:        message.SlackAuthorName,
		SlackAuthorDisplayName: message.SlackAuthorDisplayName,
		MessageText:            message.MessageText,
		MessageTS:              message.MessageTS,
		ThreadTS:               message.ThreadTS,
		Permalink:              message.Permalink,
		Attachments:            message.Attachments,
		Reactions:              message.Reactions,
		Metadata:               message.Metadata,
		LinkedByUserID:         message.LinkedByUserID,
		CreatedAt:              message.CreatedAt,
	}
}

// DomainLinkedMessagesToAPILinkedMessages converts a slice of linked messages
func DomainLinkedMessagesToAPILinkedMessages(messages []*models.LinkedMessage) []*LinkedMessage {
	apiMessages := make([]*LinkedMessage, 0, len(messages))
	for _, message := range messages {
		apiMessages = append(apiMessages, DomainLinkedMessageToAPILinkedMessage(message))
	}
	return apiMessages
}
