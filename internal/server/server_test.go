package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/askcoin-app/backend/internal/database"
	"github.com/askcoin-app/backend/internal/ledger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testService satisfies database.Service around an in-memory test DB.
type testService struct {
	db *gorm.DB
}

func (s *testService) Health() map[string]string { return map[string]string{"status": "up"} }
func (s *testService) Close() error              { return nil }
func (s *testService) GetDB() *gorm.DB           { return s.db }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "server_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return New(&testService{db: db}).Handler
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func registerUser(t *testing.T, router http.Handler, username string) string {
	t.Helper()
	w, resp := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func profileCoins(t *testing.T, router http.Handler, userID int) int {
	t.Helper()
	w, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return int(resp["coins"].(float64))
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := resp["user"].(map[string]interface{})
	assert.EqualValues(t, 100, user["coins"])
	assert.EqualValues(t, 1, user["level"])

	// Duplicate registration rejected.
	w, _ = doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := resp["token"].(string)

	w, resp = doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", resp["username"])
	assert.EqualValues(t, 100, resp["coins"])

	// Wrong password.
	w, _ = doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/questions", "", gin.H{
		"title":   "no token",
		"content": "should fail",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/questions", "not-a-jwt", gin.H{
		"title":   "bad token",
		"content": "should fail",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuestionVotingFlow(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerUser(t, router, "alice")
	bobToken := registerUser(t, router, "bob")

	w, resp := doJSON(t, router, http.MethodPost, "/api/questions", aliceToken, gin.H{
		"title":   "How to test gin handlers?",
		"content": "httptest?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	questionID := int(resp["id"].(float64))
	aliceID := int(resp["author_id"].(float64))

	// Asking costs 20 coins.
	assert.Equal(t, 80, profileCoins(t, router, aliceID))

	// Bob upvotes: score 1, alice rewarded 5.
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/questions/%d/vote", questionID), bobToken, gin.H{"value": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 85, profileCoins(t, router, aliceID))

	w, resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/questions/%d", questionID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["score"])

	// Self-vote is rejected and changes nothing.
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/questions/%d/vote", questionID), aliceToken, gin.H{"value": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 85, profileCoins(t, router, aliceID))

	// Out-of-range vote value is a 400.
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/questions/%d/vote", questionID), bobToken, gin.H{"value": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bob flips to a downvote: score -1, alice back to 80.
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/questions/%d/vote", questionID), bobToken, gin.H{"value": -1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 80, profileCoins(t, router, aliceID))

	w, resp = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/questions/%d", questionID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, -1, resp["score"])
}

func TestAnswerFlow(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerUser(t, router, "alice")
	bobToken := registerUser(t, router, "bob")

	w, resp := doJSON(t, router, http.MethodPost, "/api/questions", aliceToken, gin.H{
		"title":   "Q",
		"content": "c",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	questionID := int(resp["id"].(float64))

	w, resp = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/questions/%d/answers", questionID), bobToken, gin.H{
		"content": "an answer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	answerID := int(resp["id"].(float64))
	bobID := int(resp["author_id"].(float64))

	// Answering costs 10 coins.
	assert.Equal(t, 90, profileCoins(t, router, bobID))

	// Alice downvotes bob's answer: bob penalized 3.
	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/questions/%d/answers/%d/vote", questionID, answerID), aliceToken, gin.H{"value": -1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 87, profileCoins(t, router, bobID))

	// Only the author can edit or delete.
	w, _ = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/questions/%d/answers/%d", questionID, answerID), aliceToken, gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/questions/%d/answers/%d", questionID, answerID), bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Answering a missing question is a 404.
	w, _ = doJSON(t, router, http.MethodPost, "/api/questions/99999/answers", bobToken, gin.H{"content": "orphan"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInsufficientFundsOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "spender")

	// 100 coins buy exactly five questions.
	for i := 0; i < 5; i++ {
		w, _ := doJSON(t, router, http.MethodPost, "/api/questions", token, gin.H{
			"title":   fmt.Sprintf("question %d", i),
			"content": "spending spree",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, _ := doJSON(t, router, http.MethodPost, "/api/questions", token, gin.H{
		"title":   "one too many",
		"content": "broke",
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestAffordability(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice")

	w, resp := doJSON(t, router, http.MethodGet, "/api/me/affordability?cost=20", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["affordable"])

	w, resp = doJSON(t, router, http.MethodGet, "/api/me/affordability?cost=101", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["affordable"])

	w, _ = doJSON(t, router, http.MethodGet, "/api/me/affordability?cost=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionListAndDelete(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice")

	w, _ := doJSON(t, router, http.MethodGet, "/api/questions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w, resp := doJSON(t, router, http.MethodPost, "/api/questions", token, gin.H{
		"title":   "to be deleted",
		"content": "temporary",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	questionID := int(resp["id"].(float64))

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/questions/%d", questionID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/questions/%d", questionID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deletion gives no refund.
	w, respMe := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 100-ledger.QuestionCost, respMe["coins"])
}
