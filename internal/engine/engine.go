package engine

import (
	"gator-overflow/internal/database"
	"gator-overflow/internal/engine/actors"
	"gator-overflow/internal/utils"
	"gator-overflow/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine spawns the domain actors and hands out their PIDs. The db
// adapter and hub may be nil; actors then run memory-only without a
// notification feed.
type Engine struct {
	accountActor      *actor.PID
	questionActor     *actor.PID
	answerActor       *actor.PID
	engagementActor   *actor.PID
	notificationActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, metrics *utils.MetricsCollector, db database.DBAdapter, hub *websocket.Hub) *Engine {
	context := system.Root

	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewNotificationActor(hub)
	})
	notificationPID := context.Spawn(notificationProps)

	accountProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewAccountActor(metrics, db, notificationPID)
	})
	accountPID := context.Spawn(accountProps)

	questionProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewQuestionActor(metrics, db)
	})
	questionPID := context.Spawn(questionProps)

	answerProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewAnswerActor(metrics, db, notificationPID)
	})
	answerPID := context.Spawn(answerProps)

	engagementProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewEngagementActor(metrics, db)
	})
	engagementPID := context.Spawn(engagementProps)

	return &Engine{
		accountActor:      accountPID,
		questionActor:     questionPID,
		answerActor:       answerPID,
		engagementActor:   engagementPID,
		notificationActor: notificationPID,
	}
}

// GetAccountActor returns the PID of the account actor
func (e *Engine) GetAccountActor() *actor.PID {
	return e.accountActor
}

// GetQuestionActor returns the PID of the question actor
func (e *Engine) GetQuestionActor() *actor.PID {
	return e.questionActor
}

// GetAnswerActor returns the PID of the answer actor
func (e *Engine) GetAnswerActor() *actor.PID {
	return e.answerActor
}

// GetEngagementActor returns the PID of the engagement actor
func (e *Engine) GetEngagementActor() *actor.PID {
	return e.engagementActor
}

// GetNotificationActor returns the PID of the notification actor
func (e *Engine) GetNotificationActor() *actor.PID {
	return e.notificationActor
}
