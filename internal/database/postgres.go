// internal/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDB implements DBAdapter on top of PostgreSQL.
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL!")

	return &PostgresDB{
		DB: db,
	}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close(ctx context.Context) error {
	log.Println("Closing PostgreSQL connection...")
	return p.DB.Close()
}

// InitializeTables creates all necessary tables if they don't exist.
// Collection listings order by seq, not created_at, so rows created in
// the same instant still list in insertion order. Answers cascade from
// their question; comments and likes cannot use a foreign key for their
// polymorphic target, so their cascade is handled by
// DeleteEngagementForTargets. The likes uniqueness constraint closes
// the duplicate-like race at the store rather than in the scan.
func (p *PostgresDB) InitializeTables(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			username VARCHAR(100) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			tagline VARCHAR(250) DEFAULT '',
			description TEXT DEFAULT '',
			photo_url VARCHAR(255) DEFAULT '',
			is_verified BOOLEAN DEFAULT FALSE NOT NULL,
			is_admin BOOLEAN DEFAULT FALSE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create accounts table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS verification_tokens (
			token VARCHAR(64) PRIMARY KEY,
			account_id UUID REFERENCES accounts(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create verification_tokens table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tags (
			id UUID PRIMARY KEY,
			name VARCHAR(50) UNIQUE NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create tags table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			summary VARCHAR(250) NOT NULL,
			content TEXT NOT NULL,
			author_id UUID REFERENCES accounts(id) ON DELETE SET NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create questions table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS question_tags (
			question_id UUID REFERENCES questions(id) ON DELETE CASCADE,
			tag_id UUID REFERENCES tags(id),
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (question_id, tag_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create question_tags table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS answers (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			content VARCHAR(1000) NOT NULL,
			question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			author_id UUID REFERENCES accounts(id) ON DELETE SET NULL,
			is_solution BOOLEAN DEFAULT FALSE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create answers table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			content VARCHAR(400) NOT NULL,
			author_id UUID REFERENCES accounts(id) ON DELETE SET NULL,
			target_type VARCHAR(20) NOT NULL,
			target_id UUID NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create comments table: %v", err)
	}

	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS likes (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			author_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			target_type VARCHAR(20) NOT NULL,
			target_id UUID NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE(author_id, target_type, target_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create likes table: %v", err)
	}

	return nil
}

// ============================================================
// Accounts
// ============================================================

// SaveAccount inserts a new account.
func (p *PostgresDB) SaveAccount(ctx context.Context, account *models.Account) error {
	now := time.Now()
	account.UpdatedAt = now
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}

	query := `
		INSERT INTO accounts (id, username, email, password_hash, tagline, description, photo_url, is_verified, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := p.DB.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.HashedPassword,
		account.Tagline,
		account.Description,
		account.PhotoURL,
		account.IsVerified,
		account.IsAdmin,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return utils.NewAppError(utils.ErrAccountExists, fmt.Sprintf("account already exists: %v", pqErr.Constraint), err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save account", err)
	}
	return nil
}

// UpdateAccount rewrites the mutable profile fields.
func (p *PostgresDB) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, tagline = $2, description = $3, photo_url = $4, is_verified = $5, updated_at = NOW()
		WHERE id = $6
	`
	result, err := p.DB.ExecContext(ctx, query,
		account.Email,
		account.Tagline,
		account.Description,
		account.PhotoURL,
		account.IsVerified,
		account.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return utils.NewAppError(utils.ErrAccountExists, "email already in use", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to update account", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after update", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrAccountNotFound, "account not found for update", nil)
	}
	return nil
}

const accountColumns = `id, username, email, password_hash, tagline, description, photo_url, is_verified, is_admin, created_at, updated_at`

// GetAccount fetches an account by id.
func (p *PostgresDB) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	var account models.Account
	err := p.DB.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrAccountNotFound, "account not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query account by id", err)
	}
	return &account, nil
}

// GetAccountByEmail fetches an account by email address.
func (p *PostgresDB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	var account models.Account
	err := p.DB.GetContext(ctx, &account, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrAccountNotFound, "account not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query account by email", err)
	}
	return &account, nil
}

// GetAllAccounts lists accounts in creation order.
func (p *PostgresDB) GetAllAccounts(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY seq`
	var accounts []*models.Account
	if err := p.DB.SelectContext(ctx, &accounts, query); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list accounts", err)
	}
	return accounts, nil
}

// SaveVerificationToken stores an emailed verification token.
func (p *PostgresDB) SaveVerificationToken(ctx context.Context, accountID uuid.UUID, token string) error {
	query := `INSERT INTO verification_tokens (token, account_id) VALUES ($1, $2)`
	if _, err := p.DB.ExecContext(ctx, query, token, accountID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save verification token", err)
	}
	return nil
}

// ConsumeVerificationToken deletes the token and returns the account it
// belonged to. An unknown token maps to NotFound.
func (p *PostgresDB) ConsumeVerificationToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `DELETE FROM verification_tokens WHERE token = $1 RETURNING account_id`
	var accountID uuid.UUID
	err := p.DB.GetContext(ctx, &accountID, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, utils.NewAppError(utils.ErrNotFound, "verification token not found", err)
		}
		return uuid.Nil, utils.NewAppError(utils.ErrDatabase, "failed to consume verification token", err)
	}
	return accountID, nil
}

// ============================================================
// Tags
// ============================================================

// SaveTag inserts a tag, keeping the existing row on duplicate names.
func (p *PostgresDB) SaveTag(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	if _, err := p.DB.ExecContext(ctx, query, tag.ID, tag.Name); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save tag", err)
	}
	return nil
}

// GetAllTags lists every tag.
func (p *PostgresDB) GetAllTags(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := p.DB.SelectContext(ctx, &tags, `SELECT id, name FROM tags ORDER BY name`); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list tags", err)
	}
	return tags, nil
}

// ============================================================
// Questions
// ============================================================

// SaveQuestion inserts a question and its tag associations in one
// transaction.
func (p *PostgresDB) SaveQuestion(ctx context.Context, question *models.Question) error {
	now := time.Now()
	question.UpdatedAt = now
	if question.CreatedAt.IsZero() {
		question.CreatedAt = now
	}

	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO questions (id, summary, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, query,
		question.ID,
		question.Summary,
		question.Content,
		question.AuthorID,
		question.CreatedAt,
		question.UpdatedAt,
	); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save question", err)
	}

	if err := p.replaceQuestionTags(ctx, tx, question); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit question", err)
	}
	return nil
}

// UpdateQuestion rewrites the question fields and its tag set.
func (p *PostgresDB) UpdateQuestion(ctx context.Context, question *models.Question) error {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `UPDATE questions SET summary = $1, content = $2, updated_at = NOW() WHERE id = $3`
	result, err := tx.ExecContext(ctx, query, question.Summary, question.Content, question.ID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update question", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after update", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrQuestionNotFound, "question not found for update", nil)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM question_tags WHERE question_id = $1`, question.ID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to clear question tags", err)
	}
	if err := p.replaceQuestionTags(ctx, tx, question); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to commit question update", err)
	}
	return nil
}

func (p *PostgresDB) replaceQuestionTags(ctx context.Context, tx *sqlx.Tx, question *models.Question) error {
	for position, tag := range question.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			tag.ID, tag.Name,
		); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to save tag", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO question_tags (question_id, tag_id, position)
			SELECT $1, id, $2 FROM tags WHERE name = $3
		`, question.ID, position, tag.Name); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to attach tag", err)
		}
	}
	return nil
}

// GetQuestion fetches one question with its tags.
func (p *PostgresDB) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	query := `SELECT id, summary, content, author_id, created_at, updated_at FROM questions WHERE id = $1`
	var question models.Question
	err := p.DB.GetContext(ctx, &question, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrQuestionNotFound, "question not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query question", err)
	}

	if err := p.loadQuestionTags(ctx, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (p *PostgresDB) loadQuestionTags(ctx context.Context, question *models.Question) error {
	query := `
		SELECT t.id, t.name FROM tags t
		JOIN question_tags qt ON qt.tag_id = t.id
		WHERE qt.question_id = $1
		ORDER BY qt.position
	`
	var tags []models.Tag
	if err := p.DB.SelectContext(ctx, &tags, query, question.ID); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to load question tags", err)
	}
	question.Tags = tags
	return nil
}

// GetAllQuestions lists questions in creation order, tags included.
func (p *PostgresDB) GetAllQuestions(ctx context.Context) ([]*models.Question, error) {
	query := `SELECT id, summary, content, author_id, created_at, updated_at FROM questions ORDER BY seq`
	var questions []*models.Question
	if err := p.DB.SelectContext(ctx, &questions, query); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list questions", err)
	}
	for _, question := range questions {
		if err := p.loadQuestionTags(ctx, question); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// DeleteQuestion removes a question. Its answers cascade via foreign
// key; the polymorphic comments and likes rows are removed by
// DeleteEngagementForTargets, which the caller invokes with the
// question and answer targets it collected first.
func (p *PostgresDB) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete question", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after delete", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrQuestionNotFound, "question not found for delete", nil)
	}
	return nil
}

// ============================================================
// Answers
// ============================================================

// SaveAnswer inserts an answer.
func (p *PostgresDB) SaveAnswer(ctx context.Context, answer *models.Answer) error {
	now := time.Now()
	answer.UpdatedAt = now
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = now
	}

	query := `
		INSERT INTO answers (id, content, question_id, author_id, is_solution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.DB.ExecContext(ctx, query,
		answer.ID,
		answer.Content,
		answer.QuestionID,
		answer.AuthorID,
		answer.IsSolution,
		answer.CreatedAt,
		answer.UpdatedAt,
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save answer", err)
	}
	return nil
}

// UpdateAnswer rewrites the answer content and solution flag.
func (p *PostgresDB) UpdateAnswer(ctx context.Context, answer *models.Answer) error {
	query := `UPDATE answers SET content = $1, is_solution = $2, updated_at = NOW() WHERE id = $3`
	result, err := p.DB.ExecContext(ctx, query, answer.Content, answer.IsSolution, answer.ID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update answer", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after update", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrAnswerNotFound, "answer not found for update", nil)
	}
	return nil
}

const answerColumns = `id, content, question_id, author_id, is_solution, created_at, updated_at`

// GetAnswer fetches one answer by id.
func (p *PostgresDB) GetAnswer(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers WHERE id = $1`
	var answer models.Answer
	err := p.DB.GetContext(ctx, &answer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrAnswerNotFound, "answer not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query answer", err)
	}
	return &answer, nil
}

// GetAnswersByQuestion lists a question's answers in creation order.
func (p *PostgresDB) GetAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers WHERE question_id = $1 ORDER BY seq`
	var answers []*models.Answer
	if err := p.DB.SelectContext(ctx, &answers, query, questionID); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list answers", err)
	}
	return answers, nil
}

// GetAllAnswers lists every answer in creation order.
func (p *PostgresDB) GetAllAnswers(ctx context.Context) ([]*models.Answer, error) {
	query := `SELECT ` + answerColumns + ` FROM answers ORDER BY seq`
	var answers []*models.Answer
	if err := p.DB.SelectContext(ctx, &answers, query); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list all answers", err)
	}
	return answers, nil
}

// DeleteAnswer removes one answer; its engagement rows are removed by
// DeleteEngagementForTargets.
func (p *PostgresDB) DeleteAnswer(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete answer", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after delete", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrAnswerNotFound, "answer not found for delete", nil)
	}
	return nil
}

// ============================================================
// Engagement (comments and likes)
// ============================================================

type commentRow struct {
	ID         uuid.UUID         `db:"id"`
	Content    string            `db:"content"`
	AuthorID   uuid.UUID         `db:"author_id"`
	TargetType models.TargetType `db:"target_type"`
	TargetID   uuid.UUID         `db:"target_id"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`
}

type likeRow struct {
	ID         uuid.UUID         `db:"id"`
	AuthorID   uuid.UUID         `db:"author_id"`
	TargetType models.TargetType `db:"target_type"`
	TargetID   uuid.UUID         `db:"target_id"`
	CreatedAt  time.Time         `db:"created_at"`
}

// SaveComment inserts a comment.
func (p *PostgresDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	comment.UpdatedAt = now
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}

	query := `
		INSERT INTO comments (id, content, author_id, target_type, target_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.DB.ExecContext(ctx, query,
		comment.ID,
		comment.Content,
		comment.AuthorID,
		comment.Target.Type,
		comment.Target.ID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment", err)
	}
	return nil
}

// GetAllComments lists every comment in creation order.
func (p *PostgresDB) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	query := `SELECT id, content, author_id, target_type, target_id, created_at, updated_at FROM comments ORDER BY seq`
	var rows []commentRow
	if err := p.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list comments", err)
	}

	comments := make([]*models.Comment, len(rows))
	for i, row := range rows {
		comments[i] = &models.Comment{
			ID:        row.ID,
			Content:   row.Content,
			AuthorID:  row.AuthorID,
			Target:    models.Target{Type: row.TargetType, ID: row.TargetID},
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return comments, nil
}

// SaveLike inserts a like. The (author, target) uniqueness constraint
// turns a duplicate into the Conflict error the API reports, so two
// racing likes cannot both land.
func (p *PostgresDB) SaveLike(ctx context.Context, like *models.Like) error {
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO likes (id, author_id, target_type, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := p.DB.ExecContext(ctx, query,
		like.ID,
		like.AuthorID,
		like.Target.Type,
		like.Target.ID,
		like.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return utils.NewAppError(utils.ErrAlreadyLiked, "already liked", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save like", err)
	}
	return nil
}

// DeleteLike removes the caller's like on a target; no matching like
// maps to NotFound.
func (p *PostgresDB) DeleteLike(ctx context.Context, authorID uuid.UUID, target models.Target) error {
	query := `DELETE FROM likes WHERE author_id = $1 AND target_type = $2 AND target_id = $3`
	result, err := p.DB.ExecContext(ctx, query, authorID, target.Type, target.ID)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete like", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after delete", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "like not found", nil)
	}
	return nil
}

// GetAllLikes lists every like in creation order.
func (p *PostgresDB) GetAllLikes(ctx context.Context) ([]*models.Like, error) {
	query := `SELECT id, author_id, target_type, target_id, created_at FROM likes ORDER BY seq`
	var rows []likeRow
	if err := p.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list likes", err)
	}

	likes := make([]*models.Like, len(rows))
	for i, row := range rows {
		likes[i] = &models.Like{
			ID:        row.ID,
			AuthorID:  row.AuthorID,
			Target:    models.Target{Type: row.TargetType, ID: row.TargetID},
			CreatedAt: row.CreatedAt,
		}
	}
	return likes, nil
}

// DeleteEngagementForTargets removes all comments and likes pointing at
// the given targets, completing a content cascade.
func (p *PostgresDB) DeleteEngagementForTargets(ctx context.Context, targets []models.Target) error {
	for _, target := range targets {
		if _, err := p.DB.ExecContext(ctx,
			`DELETE FROM comments WHERE target_type = $1 AND target_id = $2`,
			target.Type, target.ID,
		); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to delete comments for target", err)
		}
		if _, err := p.DB.ExecContext(ctx,
			`DELETE FROM likes WHERE target_type = $1 AND target_id = $2`,
			target.Type, target.ID,
		); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to delete likes for target", err)
		}
	}
	return nil
}
