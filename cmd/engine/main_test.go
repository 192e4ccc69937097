package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gator-overflow/internal/engine"
	"gator-overflow/internal/handlers"
	"gator-overflow/internal/middleware"
	"gator-overflow/internal/types"
	"gator-overflow/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *handlers.Server {
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	gatorEngine := engine.NewEngine(system, metrics, nil, nil)
	return handlers.NewServer(system, system.Root, gatorEngine, metrics, nil, nil, nil)
}

// doRequest drives a handler through the JWT middleware the same way
// main wires it, so protected routes see real auth behavior.
func doRequest(t *testing.T, handler http.HandlerFunc, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	middleware.ApplyJWTMiddleware(handler, req.URL.Path)(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(out))
}

func registerAndLogin(t *testing.T, server *handlers.Server, username, email string) (string, string) {
	t.Helper()

	rr := doRequest(t, server.HandleAccountRegister(), http.MethodPost, "/account/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "swampwater42",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "register %s: %s", username, rr.Body.String())

	var account struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &account)

	rr = doRequest(t, server.HandleAccountLogin(), http.MethodPost, "/account/login", "", map[string]string{
		"email":    email,
		"password": "swampwater42",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var login types.LoginResponse
	decodeBody(t, rr, &login)
	require.True(t, login.Success)
	require.NotEmpty(t, login.Token)

	return account.ID, login.Token
}

func TestIntegrationFlow(t *testing.T) {
	server := newTestServer()

	// Step 1: register two accounts and log them in
	t.Log("Registering accounts")
	aliceID, aliceToken := registerAndLogin(t, server, "alice", "alice@example.com")
	_, bobToken := registerAndLogin(t, server, "bob", "bob@example.com")
	assert.NotEmpty(t, aliceID)

	// Duplicate email is rejected
	rr := doRequest(t, server.HandleAccountRegister(), http.MethodPost, "/account/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "swampwater42",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Wrong password fails without leaking which part was wrong
	rr = doRequest(t, server.HandleAccountLogin(), http.MethodPost, "/account/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Step 2: alice asks a question
	t.Log("Creating question")
	rr = doRequest(t, server.HandleQuestions(), http.MethodPost, "/questions", aliceToken, map[string]interface{}{
		"summary": "How do actors handle backpressure?",
		"content": "I keep filling mailboxes faster than they drain.",
		"tags":    []string{"go", "actors"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var question struct {
		ID   string `json:"id"`
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	decodeBody(t, rr, &question)
	require.NotEmpty(t, question.ID)
	require.Len(t, question.Tags, 2)
	assert.Equal(t, "go", question.Tags[0].Name)

	questionPath := "/questions/" + question.ID

	// Unauthenticated access to content routes is rejected outright
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodGet, questionPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Step 3: bob answers it
	t.Log("Posting answer")
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, questionPath+"/answers", bobToken, map[string]string{
		"content": "Bound the mailbox and shed load at the edge.",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var answer struct {
		ID       string `json:"id"`
		Solution bool   `json:"solution"`
	}
	decodeBody(t, rr, &answer)
	require.NotEmpty(t, answer.ID)
	assert.False(t, answer.Solution)

	answerPath := questionPath + "/answers/" + answer.ID

	// Step 4: bob likes the question; a second like conflicts
	t.Log("Liking question")
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, questionPath+"/like_it", bobToken, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, questionPath+"/like_it", bobToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, questionPath+"/comment_it", aliceToken, map[string]string{
		"content": "Load shedding worked, thanks.",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Step 5: only the question's author can mark a solution
	t.Log("Marking solution")
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, answerPath+"/mark_as_solution", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, answerPath+"/mark_as_solution", aliceToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeBody(t, rr, &answer)
	assert.True(t, answer.Solution)

	// Step 6: the detail view inlines counts, engagement, and answers
	t.Log("Fetching question detail")
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodGet, questionPath, bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var detail struct {
		Summary  string `json:"summary"`
		Content  string `json:"content"`
		AuthorID string `json:"authorId"`
		Tags     []struct {
			Name string `json:"name"`
		} `json:"tags"`
		AnswersCount  int `json:"answersCount"`
		CommentsCount int `json:"commentsCount"`
		LikesCount    int `json:"likesCount"`
		Answers       []struct {
			ID       string `json:"id"`
			Solution bool   `json:"solution"`
		} `json:"answers"`
		Similar []struct {
			ID string `json:"id"`
		} `json:"similar"`
	}
	decodeBody(t, rr, &detail)
	assert.Equal(t, "How do actors handle backpressure?", detail.Summary)
	assert.Equal(t, "I keep filling mailboxes faster than they drain.", detail.Content)
	assert.Equal(t, aliceID, detail.AuthorID)
	require.Len(t, detail.Tags, 2)
	assert.Equal(t, "go", detail.Tags[0].Name)
	assert.Equal(t, "actors", detail.Tags[1].Name)
	assert.Equal(t, 1, detail.AnswersCount)
	assert.Equal(t, 1, detail.CommentsCount)
	assert.Equal(t, 1, detail.LikesCount, "duplicate like must not change the count")
	require.Len(t, detail.Answers, 1)
	assert.True(t, detail.Answers[0].Solution)
	assert.Empty(t, detail.Similar)

	// Step 7: a question sharing a tag shows up under similar
	t.Log("Checking similarity")
	rr = doRequest(t, server.HandleQuestions(), http.MethodPost, "/questions", bobToken, map[string]interface{}{
		"summary": "Mailbox sizing for protoactor",
		"content": "What is a sane default mailbox bound?",
		"tags":    []string{"actors"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var second struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &second)

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodGet, questionPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &detail)
	require.Len(t, detail.Similar, 1)
	assert.Equal(t, second.ID, detail.Similar[0].ID)

	// Step 8: bob's profile reflects his answer metrics; a second
	// answer without the solution mark halves the percentage
	t.Log("Checking profile metrics")
	rr = doRequest(t, server.HandleAccountProfile(), http.MethodGet, "/account/profile", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile struct {
		QuestionsCount  int `json:"questionsCount"`
		AnswersCount    int `json:"answersCount"`
		SolutionsCount  int `json:"solutionsCount"`
		SolutionPercent int `json:"solutionPercent"`
	}
	decodeBody(t, rr, &profile)
	assert.Equal(t, 1, profile.AnswersCount)
	assert.Equal(t, 1, profile.SolutionsCount)
	assert.Equal(t, 100, profile.SolutionPercent)
	assert.Equal(t, 1, profile.QuestionsCount)

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, questionPath+"/answers", bobToken, map[string]string{
		"content": "You can also spill to disk, but measure first.",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, server.HandleAccountProfile(), http.MethodGet, "/account/profile", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &profile)
	assert.Equal(t, 2, profile.AnswersCount)
	assert.Equal(t, 1, profile.SolutionsCount)
	assert.Equal(t, 50, profile.SolutionPercent)

	// Step 9: dislike removes bob's like, a second dislike is a 404
	t.Log("Removing like")
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodDelete, questionPath+"/dislike_it", bobToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodDelete, questionPath+"/dislike_it", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Step 10: only the author can delete; the delete cascades
	t.Log("Deleting question")
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodDelete, questionPath, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodDelete, questionPath, aliceToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodGet, questionPath, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doRequest(t, server.HandleQuestionRoutes(), http.MethodGet, answerPath, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The answer's metrics are gone from bob's profile too
	rr = doRequest(t, server.HandleAccountProfile(), http.MethodGet, "/account/profile", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &profile)
	assert.Equal(t, 0, profile.AnswersCount)
	assert.Equal(t, 0, profile.SolutionPercent)
}

func TestQuestionListFilters(t *testing.T) {
	server := newTestServer()
	_, token := registerAndLogin(t, server, "carol", "carol@example.com")

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		rr := doRequest(t, server.HandleQuestions(), http.MethodPost, "/questions", token, map[string]interface{}{
			"summary": fmt.Sprintf("Question number %d", i),
			"content": "Some content",
			"tags":    []string{"gator"},
		})
		require.Equal(t, http.StatusCreated, rr.Code)
		var created struct {
			ID string `json:"id"`
		}
		decodeBody(t, rr, &created)
		ids = append(ids, created.ID)
	}

	// Answer the middle question so the unanswered filter drops it
	rr := doRequest(t, server.HandleQuestionRoutes(), http.MethodPost, "/questions/"+ids[1]+"/answers", token, map[string]string{
		"content": "Answering my own question",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var list []struct {
		ID           string `json:"id"`
		AnswersCount int    `json:"answersCount"`
	}

	rr = doRequest(t, server.HandleQuestions(), http.MethodGet, "/questions", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &list)
	require.Len(t, list, 3)
	assert.Equal(t, ids[0], list[0].ID, "default listing keeps creation order")

	rr = doRequest(t, server.HandleQuestions(), http.MethodGet, "/questions?type=latest", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &list)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)

	rr = doRequest(t, server.HandleQuestions(), http.MethodGet, "/questions?type=unanswered", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &list)
	require.Len(t, list, 2)
	for _, item := range list {
		assert.NotEqual(t, ids[1], item.ID)
		assert.Equal(t, 0, item.AnswersCount)
	}

	rr = doRequest(t, server.HandleQuestions(), http.MethodGet, "/questions?q=number+1", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, ids[1], list[0].ID)
}
