package permissions

import (
	"testing"

	"gator-overflow/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAnonymousAlwaysRejected(t *testing.T) {
	err := Check(uuid.Nil, false, nil)
	assert.NotNil(t, err)
	assert.Equal(t, utils.ErrUnauthorized, err.Code)

	err = Check(uuid.Nil, true, AccountSelf(uuid.New()))
	assert.NotNil(t, err)
	assert.Equal(t, utils.ErrUnauthorized, err.Code)
}

func TestReadsPassForAnyAuthenticatedActor(t *testing.T) {
	stranger := uuid.New()
	owner := uuid.New()

	assert.Nil(t, Check(stranger, false, AccountSelf(owner)))
	assert.Nil(t, Check(stranger, false, ContentAuthor(&owner)))
}

func TestAccountSelf(t *testing.T) {
	account := uuid.New()
	other := uuid.New()

	assert.Nil(t, Check(account, true, AccountSelf(account)))

	err := Check(other, true, AccountSelf(account))
	assert.NotNil(t, err)
	assert.Equal(t, utils.ErrForbidden, err.Code)
}

func TestContentAuthor(t *testing.T) {
	author := uuid.New()
	other := uuid.New()

	assert.Nil(t, Check(author, true, ContentAuthor(&author)))
	assert.Equal(t, utils.ErrForbidden, Check(other, true, ContentAuthor(&author)).Code)

	// A resource whose author account is gone cannot be mutated.
	assert.Equal(t, utils.ErrForbidden, Check(other, true, ContentAuthor(nil)).Code)
}

func TestAnswerModerator(t *testing.T) {
	answerAuthor := uuid.New()
	questionAuthor := uuid.New()
	stranger := uuid.New()

	owns := AnswerModerator(&answerAuthor, &questionAuthor)
	assert.Nil(t, Check(answerAuthor, true, owns))
	assert.Nil(t, Check(questionAuthor, true, owns))
	assert.Equal(t, utils.ErrForbidden, Check(stranger, true, owns).Code)
}

func TestQuestionAuthorOnly(t *testing.T) {
	answerAuthor := uuid.New()
	questionAuthor := uuid.New()

	owns := QuestionAuthorOnly(&questionAuthor)
	assert.Nil(t, Check(questionAuthor, true, owns))
	// The answer's own author may not mark their answer as the solution.
	assert.Equal(t, utils.ErrForbidden, Check(answerAuthor, true, owns).Code)
}
