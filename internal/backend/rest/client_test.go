package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4lconet/TodoList/internal/backend/rest"
	"github.com/f4lconet/TodoList/internal/logging"
	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/testutil"
)

func newClient(t *testing.T, baseURL string) *rest.Client {
	t.Helper()
	c, err := rest.NewWithHTTPClient(baseURL, time.Second, http.DefaultClient, logging.Discard())
	require.NoError(t, err)
	return c
}

func TestClient_ListTasks(t *testing.T) {
	srv := testutil.NewFakeServer(t,
		service.Task{ID: "1", Title: "Buy milk", Status: service.StatusCurrent},
		service.Task{ID: "2", Title: "Call mom", Description: "Sunday", Status: service.StatusCompleted},
	)
	c := newClient(t, srv.URL)

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Call mom", tasks[1].Title)
	assert.Equal(t, "Sunday", tasks[1].Description)
	assert.Equal(t, service.StatusCompleted, tasks[1].Status)
	assert.Equal(t, []string{"GET /tasks"}, srv.Requests())
}

func TestClient_ListTasks_Empty(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newClient(t, srv.URL)

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestClient_ListTasks_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tasks":[{"id":"7","title":"Read","description":"","status":"current"}]}`))
	}))
	defer srv.Close()

	tasks, err := newClient(t, srv.URL).ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "7", tasks[0].ID)
}

func TestClient_ListTasks_InvalidStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"7","title":"Read","status":"archived"}]`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ListTasks(context.Background())
	var se *service.ServerError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Message, "invalid status")
}

func TestClient_ListTasks_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ListTasks(context.Background())
	var se *service.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusOK, se.StatusCode)
	assert.Contains(t, se.Message, "malformed response")
	assert.False(t, service.IsNotFound(err))
}

func TestClient_CreateTask(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newClient(t, srv.URL)

	created, err := c.CreateTask(context.Background(), service.Task{
		ID: "tmp-1", Title: "Write report", Description: "Q3", Status: service.StatusCurrent,
	})
	require.NoError(t, err)
	assert.Equal(t, "tmp-1", created.ID)
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, []string{"POST /tasks"}, srv.Requests())
}

func TestClient_CreateTask_ServerAssignsID(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.ReassignIDs = true
	c := newClient(t, srv.URL)

	created, err := c.CreateTask(context.Background(), service.Task{ID: "tmp-1", Title: "Write report", Status: service.StatusCurrent})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
}

func TestClient_UpdateTask_Partial(t *testing.T) {
	srv := testutil.NewFakeServer(t, service.Task{ID: "1", Title: "Buy milk", Description: "2L", Status: service.StatusCurrent})
	c := newClient(t, srv.URL)

	title := "Buy oat milk"
	updated, err := c.UpdateTask(context.Background(), "1", service.Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, service.Task{ID: "1", Title: "Buy oat milk", Description: "2L", Status: service.StatusCurrent}, updated)
	assert.Equal(t, []string{"PATCH /tasks/1"}, srv.Requests())
}

func TestClient_UpdateStatus(t *testing.T) {
	srv := testutil.NewFakeServer(t, service.Task{ID: "1", Title: "Buy milk", Status: service.StatusCurrent})
	c := newClient(t, srv.URL)

	updated, err := c.UpdateStatus(context.Background(), "1", service.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, service.StatusCompleted, updated.Status)
}

func TestClient_UpdateTask_NotFound(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newClient(t, srv.URL)

	title := "x"
	_, err := c.UpdateTask(context.Background(), "missing", service.Patch{Title: &title})
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))

	var se *service.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "task not found", se.Message)
}

func TestClient_DeleteTask_Twice(t *testing.T) {
	srv := testutil.NewFakeServer(t, service.Task{ID: "1", Title: "Buy milk", Status: service.StatusCurrent})
	c := newClient(t, srv.URL)

	require.NoError(t, c.DeleteTask(context.Background(), "1"))
	err := c.DeleteTask(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
	assert.Empty(t, srv.Tasks())
}

func TestClient_EscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, newClient(t, srv.URL).DeleteTask(context.Background(), "a/b c"))
	assert.Equal(t, "/tasks/a%2Fb%20c", gotPath)
}

func TestClient_ServerErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database is down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ListTasks(context.Background())
	var se *service.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "database is down", se.Message)
	assert.False(t, service.IsNotFound(err))
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).ListTasks(context.Background())
	var te *service.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "list tasks", te.Op)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := rest.NewWithHTTPClient(srv.URL, 50*time.Millisecond, http.DefaultClient, logging.Discard())
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	var te *service.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_CancelDuringBody(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":"1","title":`))
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-started
		cancel()
	}()

	_, err := newClient(t, srv.URL).ListTasks(ctx)
	var te *service.TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, context.Canceled))
	var se *service.ServerError
	assert.False(t, errors.As(err, &se))
}

func TestNewWithHTTPClient_InvalidBaseURL(t *testing.T) {
	_, err := rest.NewWithHTTPClient("localhost:3000", time.Second, http.DefaultClient, logging.Discard())
	assert.Error(t, err)
}
