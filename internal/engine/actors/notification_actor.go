package actors

import (
	"encoding/json"
	"gator-overflow/internal/models"
	"gator-overflow/internal/websocket"
	"log"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Event types handed to the notification dispatcher. All are sent with
// context.Send and never awaited.
type (
	AccountCreatedEvent struct {
		AccountID         uuid.UUID
		Username          string
		Email             string
		VerificationToken string
	}

	LoginEvent struct {
		AccountID uuid.UUID
		Username  string
	}

	AccountUpdatedEvent struct {
		AccountID uuid.UUID
		Changes   []models.FieldChange
	}

	AnswerPostedEvent struct {
		QuestionID       uuid.UUID
		QuestionAuthorID *uuid.UUID
		AnswerID         uuid.UUID
		AnswerAuthorID   uuid.UUID
	}
)

// NotificationActor renders events to the log and pushes a JSON payload
// to the websocket hub for the affected account. The hub may be nil
// (tests, simulator); events are then log-only.
type NotificationActor struct {
	hub *websocket.Hub
}

func NewNotificationActor(hub *websocket.Hub) actor.Actor {
	return &NotificationActor{hub: hub}
}

func (a *NotificationActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("NotificationActor started")

	case *AccountCreatedEvent:
		log.Printf("Notification: account created for %s <%s>, verification token %s", msg.Username, msg.Email, msg.VerificationToken)
		a.push(msg.AccountID, "account_created", map[string]string{
			"username":          msg.Username,
			"verificationToken": msg.VerificationToken,
		})

	case *LoginEvent:
		log.Printf("Notification: login by %s", msg.Username)
		a.push(msg.AccountID, "login", map[string]string{
			"username": msg.Username,
		})

	case *AccountUpdatedEvent:
		for _, change := range msg.Changes {
			log.Printf("Notification: account %s changed %s: %q -> %q", msg.AccountID, change.Field, change.Old, change.New)
		}
		a.push(msg.AccountID, "account_updated", msg.Changes)

	case *AnswerPostedEvent:
		log.Printf("Notification: answer %s posted on question %s by %s", msg.AnswerID, msg.QuestionID, msg.AnswerAuthorID)
		if msg.QuestionAuthorID != nil && *msg.QuestionAuthorID != msg.AnswerAuthorID {
			a.push(*msg.QuestionAuthorID, "answer_posted", map[string]string{
				"questionId": msg.QuestionID.String(),
				"answerId":   msg.AnswerID.String(),
			})
		}
	}
}

func (a *NotificationActor) push(accountID uuid.UUID, kind string, data interface{}) {
	if a.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type": kind,
		"data": data,
	})
	if err != nil {
		log.Printf("NotificationActor: Failed to marshal %s payload: %v", kind, err)
		return
	}
	a.hub.SendDirectMessage(accountID, payload)
}
