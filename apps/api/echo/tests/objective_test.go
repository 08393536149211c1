package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/edulabs/checklist/core/objective"
)

func TestObjectiveEndpointsRequireSession(t *testing.T) {
	srv := setup(t)

	tt := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/cohorts"},
		{http.MethodGet, "/1/LOs"},
		{http.MethodPost, "/postLO"},
		{http.MethodDelete, "/deleteLOs"},
		{http.MethodPost, "/postCohort"},
	}
	for _, tc := range tt {
		rec := do(srv, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"user not authenticated"}`, rec.Body.String())
	}

	// a made-up token is as good as none
	rec := do(srv, http.MethodGet, "/cohorts", nil, &http.Cookie{Name: "sessionId", Value: "no-such-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChecklistFlow(t *testing.T) {
	srv := setup(t)

	signup(t, srv, "student@b.com", "pw", 5)
	cookies := login(t, srv, "student@b.com", "pw")

	// a fresh cohort: the student has nothing yet
	rec := do(srv, http.MethodGet, "/1/LOs", nil, cookies...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Student does not exist"}`, rec.Body.String())

	// instructor adds an objective; it fans out to the enrolled student
	body := marshallObj(t, map[string]interface{}{
		"cohort_id": 5, "topic": "CSS", "learning_objective": "Can centre a div",
	})
	rec = do(srv, http.MethodPost, "/postLO", body, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(srv, http.MethodGet, "/1/LOs", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []objective.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Can centre a div", results[0].LearningObjective)
	assert.False(t, results[0].Score.Valid)

	// the student ticks it off
	body = marshallObj(t, map[string]interface{}{
		"userID": 1, "LO": "Can centre a div", "score": 90, "isActive": true,
	})
	rec = do(srv, http.MethodPost, "/1/LOs", body, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var scored struct {
		LOs []objective.Result `json:"LOs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scored))
	require.Len(t, scored.LOs, 1)
	assert.Equal(t, null.IntFrom(90), scored.LOs[0].Score)
	assert.Equal(t, null.BoolFrom(true), scored.LOs[0].IsActive)

	// cohort-level views
	rec = do(srv, http.MethodGet, "/cohorts", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"cohort_id":5}]`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/1/topics", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"topic":"CSS"}]`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/cohort/5/cohortTopics", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"topic":"CSS"}]`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/students/5/results", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"email":"student@b.com","user_id":1}]`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/student/1/data", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	results = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 1)

	// removing the objective retracts the student's row with it
	body = marshallObj(t, map[string]interface{}{"learning_objective": "Can centre a div", "cohort_id": 5})
	rec = do(srv, http.MethodDelete, "/deleteLOs", body, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/1/LOs", nil, cookies...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// deleting twice is harmless
	rec = do(srv, http.MethodDelete, "/deleteLOs", body, cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSeedCohort(t *testing.T) {
	srv := setup(t)

	signup(t, srv, "admin@b.com", "pw", 1)
	cookies := login(t, srv, "admin@b.com", "pw")

	rec := do(srv, http.MethodPost, "/postCohort", marshallObj(t, map[string]int{"cohort_id": 9}), cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = do(srv, http.MethodGet, "/cohorts/9/LOs", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var los []objective.LearningObjective
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &los))
	require.Len(t, los, 6)

	// ordered by topic
	var topics []string
	for _, lo := range los {
		topics = append(topics, lo.Topic)
	}
	assert.Equal(t, []string{"HTML/CSS", "HTML/CSS", "Javascript", "Javascript", "React", "React"}, topics)

	// seeding fans nothing out; no student is enrolled yet
	rec = do(srv, http.MethodGet, "/students/9/results", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
