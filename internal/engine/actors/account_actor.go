package actors

import (
	"crypto/rand"
	"encoding/base64"
	"gator-overflow/internal/database"
	"gator-overflow/internal/models"
	"gator-overflow/internal/types"
	"gator-overflow/internal/utils"
	"log"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for Account operations
type (
	RegisterAccountMsg struct {
		Username string
		Email    string
		Password string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	VerifyAccountMsg struct {
		Token string
	}

	GetAccountProfileMsg struct {
		AccountID uuid.UUID
	}

	UpdateProfileMsg struct {
		AccountID   uuid.UUID
		Tagline     string
		Description string
		PhotoURL    string
	}
)

// AccountActor handles all account-related operations
type AccountActor struct {
	accountsByID map[uuid.UUID]*models.Account
	emailToID    map[string]uuid.UUID
	usernameToID map[string]uuid.UUID
	verifyTokens map[string]uuid.UUID
	metrics      *utils.MetricsCollector
	db           database.DBAdapter
	notifierPID  *actor.PID
}

func NewAccountActor(metrics *utils.MetricsCollector, db database.DBAdapter, notifierPID *actor.PID) actor.Actor {
	return &AccountActor{
		accountsByID: make(map[uuid.UUID]*models.Account),
		emailToID:    make(map[string]uuid.UUID),
		usernameToID: make(map[string]uuid.UUID),
		verifyTokens: make(map[string]uuid.UUID),
		metrics:      metrics,
		db:           db,
		notifierPID:  notifierPID,
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Receive handles incoming messages
func (a *AccountActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("AccountActor started")
		a.loadFromStore()

	case *actor.Stopping:
		log.Printf("AccountActor stopping")

	case *actor.Stopped:
		log.Printf("AccountActor stopped")

	case *actor.Restarting:
		log.Printf("AccountActor restarting")

	case *RegisterAccountMsg:
		a.handleRegister(context, msg)

	case *LoginMsg:
		a.handleLogin(context, msg)

	case *VerifyAccountMsg:
		a.handleVerify(context, msg)

	case *GetAccountProfileMsg:
		a.handleGetProfile(context, msg)

	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.accountsByID))
	}
}

func (a *AccountActor) handleRegister(context actor.Context, msg *RegisterAccountMsg) {
	log.Printf("AccountActor: Registering account for email: %s", msg.Email)
	startTime := time.Now()

	if _, exists := a.emailToID[msg.Email]; exists {
		context.Respond(utils.NewAppError(utils.ErrAccountExists, "email already registered", nil))
		return
	}
	if _, exists := a.usernameToID[msg.Username]; exists {
		context.Respond(utils.NewAppError(utils.ErrAccountExists, "username already taken", nil))
		return
	}

	hashedPassword, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "failed to hash password", err))
		return
	}

	now := time.Now()
	account := &models.Account{
		ID:             uuid.New(),
		Username:       msg.Username,
		Email:          msg.Email,
		HashedPassword: hashedPassword,
		IsVerified:     false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if a.db != nil {
		ctx := stdctx.Background()
		if err := a.db.SaveAccount(ctx, account); err != nil {
			log.Printf("AccountActor: Failed to save account: %v", err)
			if appErr, ok := err.(*utils.AppError); ok {
				context.Respond(appErr)
			} else {
				context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save account", err))
			}
			return
		}
	}

	a.accountsByID[account.ID] = account
	a.emailToID[account.Email] = account.ID
	a.usernameToID[account.Username] = account.ID

	token, err := generateVerificationToken()
	if err != nil {
		log.Printf("AccountActor: Failed to generate verification token: %v", err)
	} else {
		a.verifyTokens[token] = account.ID
		if a.db != nil {
			if err := a.db.SaveVerificationToken(stdctx.Background(), account.ID, token); err != nil {
				log.Printf("AccountActor: Warning: failed to persist verification token: %v", err)
			}
		}
		if a.notifierPID != nil {
			context.Send(a.notifierPID, &AccountCreatedEvent{
				AccountID:         account.ID,
				Username:          account.Username,
				Email:             account.Email,
				VerificationToken: token,
			})
		}
	}

	a.metrics.AddOperationLatency("register_account", time.Since(startTime))
	log.Printf("AccountActor: Successfully registered account: %s", account.ID)
	context.Respond(account)
}

func (a *AccountActor) handleLogin(context actor.Context, msg *LoginMsg) {
	log.Printf("AccountActor: Processing login request for email: %s", msg.Email)
	startTime := time.Now()

	account := a.lookupByEmail(msg.Email)
	if account == nil {
		context.Respond(&types.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(msg.Password)); err != nil {
		log.Printf("AccountActor: Login failed - password mismatch for %s", msg.Email)
		context.Respond(&types.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	if a.notifierPID != nil {
		context.Send(a.notifierPID, &LoginEvent{
			AccountID: account.ID,
			Username:  account.Username,
		})
	}

	a.metrics.AddOperationLatency("login", time.Since(startTime))
	log.Printf("AccountActor: Login successful for account: %s", account.Username)
	context.Respond(&types.LoginResponse{
		Success:   true,
		AccountID: account.ID.String(),
	})
}

func (a *AccountActor) handleVerify(context actor.Context, msg *VerifyAccountMsg) {
	accountID, exists := a.verifyTokens[msg.Token]
	if !exists {
		if a.db != nil {
			id, err := a.db.ConsumeVerificationToken(stdctx.Background(), msg.Token)
			if err != nil {
				context.Respond(utils.NewAppError(utils.ErrNotFound, "verification token not found", nil))
				return
			}
			accountID = id
		} else {
			context.Respond(utils.NewAppError(utils.ErrNotFound, "verification token not found", nil))
			return
		}
	}
	delete(a.verifyTokens, msg.Token)

	account := a.lookupByID(accountID)
	if account == nil {
		context.Respond(utils.NewAccountNotFoundError(accountID.String()))
		return
	}

	account.IsVerified = true
	account.UpdatedAt = time.Now()

	if a.db != nil {
		if err := a.db.UpdateAccount(stdctx.Background(), account); err != nil {
			log.Printf("AccountActor: Warning: failed to persist verification: %v", err)
		}
	}

	log.Printf("AccountActor: Account %s verified", account.ID)
	context.Respond(account)
}

func (a *AccountActor) handleGetProfile(context actor.Context, msg *GetAccountProfileMsg) {
	account := a.lookupByID(msg.AccountID)
	if account == nil {
		context.Respond(utils.NewAccountNotFoundError(msg.AccountID.String()))
		return
	}
	context.Respond(account)
}

func (a *AccountActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	startTime := time.Now()

	account := a.lookupByID(msg.AccountID)
	if account == nil {
		context.Respond(utils.NewAccountNotFoundError(msg.AccountID.String()))
		return
	}

	// Track old->new pairs for the notification dispatcher
	var changes []models.FieldChange
	if account.Tagline != msg.Tagline {
		changes = append(changes, models.FieldChange{Field: "tagline", Old: account.Tagline, New: msg.Tagline})
		account.Tagline = msg.Tagline
	}
	if account.Description != msg.Description {
		changes = append(changes, models.FieldChange{Field: "description", Old: account.Description, New: msg.Description})
		account.Description = msg.Description
	}
	if account.PhotoURL != msg.PhotoURL {
		changes = append(changes, models.FieldChange{Field: "photo_url", Old: account.PhotoURL, New: msg.PhotoURL})
		account.PhotoURL = msg.PhotoURL
	}
	account.UpdatedAt = time.Now()

	if a.db != nil {
		if err := a.db.UpdateAccount(stdctx.Background(), account); err != nil {
			log.Printf("AccountActor: Failed to persist profile update: %v", err)
			if appErr, ok := err.(*utils.AppError); ok {
				context.Respond(appErr)
			} else {
				context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to update account", err))
			}
			return
		}
	}

	if len(changes) > 0 && a.notifierPID != nil {
		context.Send(a.notifierPID, &AccountUpdatedEvent{
			AccountID: account.ID,
			Changes:   changes,
		})
	}

	a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
	context.Respond(account)
}

// loadFromStore warms the lookup maps after a restart. The uniqueness
// checks at registration scan these maps, so they must be complete.
func (a *AccountActor) loadFromStore() {
	if a.db == nil {
		return
	}
	accounts, err := a.db.GetAllAccounts(stdctx.Background())
	if err != nil {
		log.Printf("AccountActor: Failed to load accounts: %v", err)
		return
	}
	for _, account := range accounts {
		a.cache(account)
	}
	if len(accounts) > 0 {
		log.Printf("AccountActor: Loaded %d accounts from store", len(accounts))
	}
}

func (a *AccountActor) lookupByID(id uuid.UUID) *models.Account {
	if account, exists := a.accountsByID[id]; exists {
		return account
	}
	if a.db != nil {
		account, err := a.db.GetAccount(stdctx.Background(), id)
		if err == nil {
			a.cache(account)
			return account
		}
	}
	return nil
}

func (a *AccountActor) lookupByEmail(email string) *models.Account {
	if id, exists := a.emailToID[email]; exists {
		return a.accountsByID[id]
	}
	if a.db != nil {
		account, err := a.db.GetAccountByEmail(stdctx.Background(), email)
		if err == nil {
			a.cache(account)
			return account
		}
	}
	return nil
}

func (a *AccountActor) cache(account *models.Account) {
	a.accountsByID[account.ID] = account
	a.emailToID[account.Email] = account.ID
	a.usernameToID[account.Username] = account.ID
}
