package actors

import (
	"gator-overflow/internal/database"
	"gator-overflow/internal/models"
	"gator-overflow/internal/utils"
	"log"
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for comment and like operations
type (
	CreateCommentMsg struct {
		Content  string
		AuthorID uuid.UUID
		Target   models.Target
	}

	CreateLikeMsg struct {
		AuthorID uuid.UUID
		Target   models.Target
	}

	// RemoveLikeMsg deletes the author's own like on the target; no
	// matching like resolves as not found.
	RemoveLikeMsg struct {
		AuthorID uuid.UUID
		Target   models.Target
	}

	GetTargetEngagementMsg struct {
		Target models.Target
	}

	// LikeCountsMsg returns like counts per target id for one target
	// kind.
	LikeCountsMsg struct {
		Type models.TargetType
	}

	// CommentCountsMsg is the comment-side counterpart.
	CommentCountsMsg struct {
		Type models.TargetType
	}

	// PurgeTargetsMsg drops every comment and like pointing at the
	// given targets, completing a content cascade.
	PurgeTargetsMsg struct {
		Targets []models.Target
	}
)

// TargetEngagement bundles a target's comments and likes in insertion
// order.
type TargetEngagement struct {
	Comments []*models.Comment
	Likes    []*models.Like
}

// EngagementActor owns comments and likes for questions and answers.
// likeByAuthor backs the one-like-per-(author, target) rule; the
// Postgres unique constraint closes the same race at the store.
type EngagementActor struct {
	commentsByID   map[uuid.UUID]*models.Comment
	likesByID      map[uuid.UUID]*models.Like
	targetComments map[models.Target][]uuid.UUID
	targetLikes    map[models.Target][]uuid.UUID
	likeByAuthor   map[models.Target]map[uuid.UUID]uuid.UUID
	metrics        *utils.MetricsCollector
	db             database.DBAdapter
}

func NewEngagementActor(metrics *utils.MetricsCollector, db database.DBAdapter) actor.Actor {
	return &EngagementActor{
		commentsByID:   make(map[uuid.UUID]*models.Comment),
		likesByID:      make(map[uuid.UUID]*models.Like),
		targetComments: make(map[models.Target][]uuid.UUID),
		targetLikes:    make(map[models.Target][]uuid.UUID),
		likeByAuthor:   make(map[models.Target]map[uuid.UUID]uuid.UUID),
		metrics:        metrics,
		db:             db,
	}
}

// Receive handles incoming messages
func (a *EngagementActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("EngagementActor started")
		a.loadFromStore()

	case *actor.Stopping:
		log.Printf("EngagementActor stopping")

	case *actor.Stopped:
		log.Printf("EngagementActor stopped")

	case *actor.Restarting:
		log.Printf("EngagementActor restarting")

	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)

	case *CreateLikeMsg:
		a.handleCreateLike(context, msg)

	case *RemoveLikeMsg:
		a.handleRemoveLike(context, msg)

	case *GetTargetEngagementMsg:
		a.handleGetTargetEngagement(context, msg)

	case *LikeCountsMsg:
		counts := make(map[uuid.UUID]int)
		for target, ids := range a.targetLikes {
			if target.Type == msg.Type {
				counts[target.ID] = len(ids)
			}
		}
		context.Respond(counts)

	case *CommentCountsMsg:
		counts := make(map[uuid.UUID]int)
		for target, ids := range a.targetComments {
			if target.Type == msg.Type {
				counts[target.ID] = len(ids)
			}
		}
		context.Respond(counts)

	case *PurgeTargetsMsg:
		a.handlePurgeTargets(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.commentsByID) + len(a.likesByID))
	}
}

func (a *EngagementActor) loadFromStore() {
	if a.db == nil {
		return
	}

	comments, err := a.db.GetAllComments(stdctx.Background())
	if err != nil {
		log.Printf("EngagementActor: Failed to load comments: %v", err)
	} else {
		for _, comment := range comments {
			a.commentsByID[comment.ID] = comment
			a.targetComments[comment.Target] = append(a.targetComments[comment.Target], comment.ID)
		}
	}

	likes, err := a.db.GetAllLikes(stdctx.Background())
	if err != nil {
		log.Printf("EngagementActor: Failed to load likes: %v", err)
		return
	}
	for _, like := range likes {
		a.likesByID[like.ID] = like
		a.targetLikes[like.Target] = append(a.targetLikes[like.Target], like.ID)
		if _, exists := a.likeByAuthor[like.Target]; !exists {
			a.likeByAuthor[like.Target] = make(map[uuid.UUID]uuid.UUID)
		}
		a.likeByAuthor[like.Target][like.AuthorID] = like.ID
	}
	if len(comments) > 0 || len(likes) > 0 {
		log.Printf("EngagementActor: Loaded %d comments and %d likes from store", len(comments), len(likes))
	}
}

func (a *EngagementActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()

	now := time.Now()
	newComment := &models.Comment{
		ID:        uuid.New(),
		Content:   msg.Content,
		AuthorID:  msg.AuthorID,
		Target:    msg.Target,
		CreatedAt: now,
		UpdatedAt: now,
	}

	log.Printf("EngagementActor: Creating comment on %s", msg.Target.Label())

	if a.db != nil {
		if err := a.db.SaveComment(stdctx.Background(), newComment); err != nil {
			log.Printf("EngagementActor: Failed to save comment: %v", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save comment", err))
			return
		}
	}

	a.commentsByID[newComment.ID] = newComment
	a.targetComments[msg.Target] = append(a.targetComments[msg.Target], newComment.ID)

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(newComment)
}

func (a *EngagementActor) handleCreateLike(context actor.Context, msg *CreateLikeMsg) {
	startTime := time.Now()

	if authors, exists := a.likeByAuthor[msg.Target]; exists {
		if _, liked := authors[msg.AuthorID]; liked {
			context.Respond(utils.NewAppError(utils.ErrAlreadyLiked, "already liked", nil))
			return
		}
	}

	newLike := &models.Like{
		ID:        uuid.New(),
		AuthorID:  msg.AuthorID,
		Target:    msg.Target,
		CreatedAt: time.Now(),
	}

	if a.db != nil {
		if err := a.db.SaveLike(stdctx.Background(), newLike); err != nil {
			log.Printf("EngagementActor: Failed to save like: %v", err)
			if appErr, ok := err.(*utils.AppError); ok {
				context.Respond(appErr)
			} else {
				context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to save like", err))
			}
			return
		}
	}

	a.likesByID[newLike.ID] = newLike
	a.targetLikes[msg.Target] = append(a.targetLikes[msg.Target], newLike.ID)
	if _, exists := a.likeByAuthor[msg.Target]; !exists {
		a.likeByAuthor[msg.Target] = make(map[uuid.UUID]uuid.UUID)
	}
	a.likeByAuthor[msg.Target][msg.AuthorID] = newLike.ID

	log.Printf("EngagementActor: %s liked %s", msg.AuthorID, msg.Target.Label())
	a.metrics.AddOperationLatency("create_like", time.Since(startTime))
	context.Respond(newLike)
}

func (a *EngagementActor) handleRemoveLike(context actor.Context, msg *RemoveLikeMsg) {
	startTime := time.Now()

	authors, exists := a.likeByAuthor[msg.Target]
	if !exists {
		context.Respond(utils.NewAppError(utils.ErrNotFound, "like not found", nil))
		return
	}
	likeID, liked := authors[msg.AuthorID]
	if !liked {
		context.Respond(utils.NewAppError(utils.ErrNotFound, "like not found", nil))
		return
	}

	delete(authors, msg.AuthorID)
	delete(a.likesByID, likeID)
	ids := a.targetLikes[msg.Target]
	for i, id := range ids {
		if id == likeID {
			a.targetLikes[msg.Target] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	if a.db != nil {
		if err := a.db.DeleteLike(stdctx.Background(), msg.AuthorID, msg.Target); err != nil {
			log.Printf("EngagementActor: Warning: failed to delete like from store: %v", err)
		}
	}

	a.metrics.AddOperationLatency("remove_like", time.Since(startTime))
	context.Respond(true)
}

func (a *EngagementActor) handleGetTargetEngagement(context actor.Context, msg *GetTargetEngagementMsg) {
	engagement := &TargetEngagement{
		Comments: make([]*models.Comment, 0),
		Likes:    make([]*models.Like, 0),
	}
	for _, id := range a.targetComments[msg.Target] {
		if comment := a.commentsByID[id]; comment != nil {
			engagement.Comments = append(engagement.Comments, comment)
		}
	}
	for _, id := range a.targetLikes[msg.Target] {
		if like := a.likesByID[id]; like != nil {
			engagement.Likes = append(engagement.Likes, like)
		}
	}
	context.Respond(engagement)
}

func (a *EngagementActor) handlePurgeTargets(context actor.Context, msg *PurgeTargetsMsg) {
	purged := 0
	for _, target := range msg.Targets {
		for _, id := range a.targetComments[target] {
			delete(a.commentsByID, id)
			purged++
		}
		delete(a.targetComments, target)

		for _, id := range a.targetLikes[target] {
			delete(a.likesByID, id)
			purged++
		}
		delete(a.targetLikes, target)
		delete(a.likeByAuthor, target)
	}

	if a.db != nil {
		if err := a.db.DeleteEngagementForTargets(stdctx.Background(), msg.Targets); err != nil {
			log.Printf("EngagementActor: Warning: failed to purge engagement from store: %v", err)
		}
	}

	log.Printf("EngagementActor: Purged %d engagement records across %d targets", purged, len(msg.Targets))
	context.Respond(true)
}
