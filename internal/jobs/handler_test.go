package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventKey = "evt_key_123"

func invokeRouter(t *testing.T, registry *Registry) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewInvokeHandler(registry, testEventKey)
	router := gin.New()
	router.POST("/api/jobs/invoke", handler.Invoke)
	router.GET("/api/jobs/tasks", handler.List)
	return router
}

func postInvoke(router *gin.Engine, body interface{}, token string) *httptest.ResponseRecorder {
	jsonBytes, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/jobs/invoke", bytes.NewReader(jsonBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestInvoke(t *testing.T) {
	t.Run("rejects missing credentials", func(t *testing.T) {
		router := invokeRouter(t, NewRegistry())

		recorder := postInvoke(router, InvokeRequest{Task: "t"}, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects wrong event key", func(t *testing.T) {
		router := invokeRouter(t, NewRegistry())

		recorder := postInvoke(router, InvokeRequest{Task: "t"}, "wrong-key")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects payload without a task", func(t *testing.T) {
		router := invokeRouter(t, NewRegistry())

		recorder := postInvoke(router, map[string]interface{}{}, testEventKey)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		router := invokeRouter(t, NewRegistry())

		recorder := postInvoke(router, InvokeRequest{Task: "no-such-task"}, testEventKey)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("handler failure returns 500 for the service to retry", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(Task{
			Name:  "failing",
			Event: "x",
			Handler: func(ctx context.Context, event Event) error {
				return fmt.Errorf("downstream unavailable")
			},
		}))
		router := invokeRouter(t, registry)

		recorder := postInvoke(router, InvokeRequest{Task: "failing"}, testEventKey)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "downstream unavailable")
	})

	t.Run("successful run acknowledges completion", func(t *testing.T) {
		var gotEvent Event
		registry := NewRegistry()
		require.NoError(t, registry.Register(Task{
			Name:  "user.welcome-email",
			Event: "auth/user.created",
			Handler: func(ctx context.Context, event Event) error {
				gotEvent = event
				return nil
			},
		}))
		router := invokeRouter(t, registry)

		recorder := postInvoke(router, InvokeRequest{
			Task: "user.welcome-email",
			Event: Event{
				Name: "auth/user.created",
				Data: map[string]interface{}{"email": "jane@acme.test"},
			},
		}, testEventKey)

		require.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "completed", body["status"])
		assert.Equal(t, "user.welcome-email", body["task"])

		assert.Equal(t, "auth/user.created", gotEvent.Name)
		assert.Equal(t, "jane@acme.test", gotEvent.Data["email"])
	})
}

func TestList(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Task{Name: "a", Event: "user.created", Handler: noopHandler}))
	require.NoError(t, registry.Register(Task{Name: "b", Cron: "0 6 * * *", Handler: noopHandler}))
	router := invokeRouter(t, registry)

	req, _ := http.NewRequest(http.MethodGet, "/api/jobs/tasks", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Tasks []struct {
			Name  string `json:"name"`
			Event string `json:"event"`
			Cron  string `json:"cron"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Tasks, 2)

	byName := map[string]string{}
	for _, task := range body.Tasks {
		byName[task.Name] = task.Event + task.Cron
	}
	assert.Equal(t, "user.created", byName["a"])
	assert.Equal(t, "0 6 * * *", byName["b"])
}
