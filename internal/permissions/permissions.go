// Package permissions implements the ownership rules applied to every
// content mutation. One generic check is parameterized by an owner
// predicate per resource kind instead of one rule type per resource.
package permissions

import (
	"gator-overflow/internal/utils"

	"github.com/google/uuid"
)

// OwnerFunc reports whether the acting account owns the resource being
// mutated.
type OwnerFunc func(actorID uuid.UUID) bool

// Check applies the access policy for one request. Anonymous actors
// (uuid.Nil) are rejected outright; reads then pass for any
// authenticated actor, writes additionally require ownership.
func Check(actorID uuid.UUID, write bool, owns OwnerFunc) *utils.AppError {
	if actorID == uuid.Nil {
		return utils.NewUnauthorizedError("authentication required")
	}
	if !write {
		return nil
	}
	if owns != nil && owns(actorID) {
		return nil
	}
	return utils.NewForbiddenError("you do not own this resource")
}

// AccountSelf allows writes only by the account itself. Used where the
// owned object is the account.
func AccountSelf(accountID uuid.UUID) OwnerFunc {
	return func(actorID uuid.UUID) bool {
		return actorID == accountID
	}
}

// ContentAuthor allows writes only by the resource's author. A nil
// author (deleted account) owns nothing.
func ContentAuthor(authorID *uuid.UUID) OwnerFunc {
	return func(actorID uuid.UUID) bool {
		return authorID != nil && actorID == *authorID
	}
}

// AnswerModerator allows writes by the answer's author or by the author
// of the question it belongs to, so a question owner can moderate
// answers on their own question.
func AnswerModerator(answerAuthor, questionAuthor *uuid.UUID) OwnerFunc {
	return func(actorID uuid.UUID) bool {
		if answerAuthor != nil && actorID == *answerAuthor {
			return true
		}
		return questionAuthor != nil && actorID == *questionAuthor
	}
}

// QuestionAuthorOnly restricts an action to the question's author.
// Marking or unmarking a solution is a question-owner privilege, never
// an answer-owner one.
func QuestionAuthorOnly(questionAuthor *uuid.UUID) OwnerFunc {
	return func(actorID uuid.UUID) bool {
		return questionAuthor != nil && actorID == *questionAuthor
	}
}
