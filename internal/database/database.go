package database

import (
	"context"

	"gator-overflow/internal/models"

	"github.com/google/uuid"
)

// DBAdapter defines the persistence contract used by the actors. The
// actors hold the working state in memory and write through to this
// adapter when one is configured; a nil adapter (tests) disables
// persistence entirely.
type DBAdapter interface {
	// Connection
	Close(ctx context.Context) error

	// Account methods
	SaveAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAllAccounts(ctx context.Context) ([]*models.Account, error)
	SaveVerificationToken(ctx context.Context, accountID uuid.UUID, token string) error
	ConsumeVerificationToken(ctx context.Context, token string) (uuid.UUID, error)

	// Tag methods
	SaveTag(ctx context.Context, tag *models.Tag) error
	GetAllTags(ctx context.Context) ([]*models.Tag, error)

	// Question methods
	SaveQuestion(ctx context.Context, question *models.Question) error
	UpdateQuestion(ctx context.Context, question *models.Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	GetAllQuestions(ctx context.Context) ([]*models.Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	// Answer methods
	SaveAnswer(ctx context.Context, answer *models.Answer) error
	UpdateAnswer(ctx context.Context, answer *models.Answer) error
	GetAnswer(ctx context.Context, id uuid.UUID) (*models.Answer, error)
	GetAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.Answer, error)
	GetAllAnswers(ctx context.Context) ([]*models.Answer, error)
	DeleteAnswer(ctx context.Context, id uuid.UUID) error

	// Engagement methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetAllComments(ctx context.Context) ([]*models.Comment, error)
	SaveLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, authorID uuid.UUID, target models.Target) error
	GetAllLikes(ctx context.Context) ([]*models.Like, error)
	DeleteEngagementForTargets(ctx context.Context, targets []models.Target) error
}
