package actors

import (
	"testing"
	"time"

	"gator-overflow/internal/models"
	"gator-overflow/internal/types"
	"gator-overflow/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

// askActor is shared by the actor tests in this package.
func askActor(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	return result
}

func TestAccountActor(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewAccountActor(utils.NewMetricsCollector(), nil, nil)
	})
	pid := system.Root.Spawn(props)

	// Register an account
	result := askActor(t, system, pid, &RegisterAccountMsg{
		Username: "gator",
		Email:    "gator@swamp.edu",
		Password: "chomp-chomp",
	})
	account, ok := result.(*models.Account)
	assert.True(t, ok, "unexpected response: %v", result)
	assert.Equal(t, "gator", account.Username)
	assert.False(t, account.IsVerified)
	assert.NotEqual(t, "chomp-chomp", account.HashedPassword, "password must not be stored in the clear")

	// Duplicate email and duplicate username both conflict
	result = askActor(t, system, pid, &RegisterAccountMsg{
		Username: "gator2",
		Email:    "gator@swamp.edu",
		Password: "chomp-chomp",
	})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrAccountExists, appErr.Code)

	result = askActor(t, system, pid, &RegisterAccountMsg{
		Username: "gator",
		Email:    "other@swamp.edu",
		Password: "chomp-chomp",
	})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrAccountExists, appErr.Code)

	// Login with the right and wrong password
	result = askActor(t, system, pid, &LoginMsg{Email: "gator@swamp.edu", Password: "chomp-chomp"})
	login := result.(*types.LoginResponse)
	assert.True(t, login.Success)
	assert.Equal(t, account.ID.String(), login.AccountID)

	result = askActor(t, system, pid, &LoginMsg{Email: "gator@swamp.edu", Password: "wrong"})
	login = result.(*types.LoginResponse)
	assert.False(t, login.Success)

	// Unknown email fails the same way as a bad password
	result = askActor(t, system, pid, &LoginMsg{Email: "nobody@swamp.edu", Password: "chomp-chomp"})
	login = result.(*types.LoginResponse)
	assert.False(t, login.Success)

	// An unknown verification token is a not-found
	result = askActor(t, system, pid, &VerifyAccountMsg{Token: "bogus"})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// Profile fetch and update
	result = askActor(t, system, pid, &GetAccountProfileMsg{AccountID: account.ID})
	fetched := result.(*models.Account)
	assert.Equal(t, account.ID, fetched.ID)

	result = askActor(t, system, pid, &UpdateProfileMsg{
		AccountID:   account.ID,
		Tagline:     "Resident swamp dweller",
		Description: "Mostly answers concurrency questions",
	})
	updated := result.(*models.Account)
	assert.Equal(t, "Resident swamp dweller", updated.Tagline)
	assert.Equal(t, "Mostly answers concurrency questions", updated.Description)
}
