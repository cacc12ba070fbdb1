package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingRecorder(t *testing.T) {
	t.Run("keeps only the most recent entries", func(t *testing.T) {
		recorder := NewRingRecorder(3)
		for i := 0; i < 5; i++ {
			recorder.Record(ErrorEntry{Message: fmt.Sprintf("error %d", i)})
		}

		recent := recorder.Recent()
		require.Len(t, recent, 3)
		assert.Equal(t, "error 2", recent[0].Message)
		assert.Equal(t, "error 4", recent[2].Message)
	})
}

func TestErrorAlertMiddleware(t *testing.T) {
	t.Run("records alerted errors", func(t *testing.T) {
		recorder := NewRingRecorder(10)
		m := NewErrorAlertMiddleware(SlackAlertConfig{AppName: "test"}, recorder)

		m.AlertOnError(errors.New("boom"), "unit test")

		recent := recorder.Recent()
		require.Len(t, recent, 1)
		assert.Contains(t, recent[0].Message, "boom")
		assert.Equal(t, "unit test", recent[0].Context)
	})

	t.Run("WrapBackgroundTask records task failures", func(t *testing.T) {
		recorder := NewRingRecorder(10)
		m := NewErrorAlertMiddleware(SlackAlertConfig{AppName: "test"}, recorder)

		task := m.WrapBackgroundTask("nightly sync", func() error {
			return errors.New("sync failed")
		})

		err := task()
		require.Error(t, err)

		recent := recorder.Recent()
		require.Len(t, recent, 1)
		assert.Contains(t, recent[0].Message, "sync failed")
		assert.Equal(t, "Background task: nightly sync", recent[0].Context)
	})

	t.Run("WrapBackgroundTask recovers from task panics", func(t *testing.T) {
		recorder := NewRingRecorder(10)
		m := NewErrorAlertMiddleware(SlackAlertConfig{AppName: "test"}, recorder)

		task := m.WrapBackgroundTask("nightly sync", func() error {
			panic("task exploded")
		})

		assert.NotPanics(t, func() {
			_ = task()
		})

		recent := recorder.Recent()
		require.Len(t, recent, 1)
		assert.Contains(t, recent[0].Message, "task exploded")
	})

	t.Run("HTTPMiddleware recovers from handler panics", func(t *testing.T) {
		recorder := NewRingRecorder(10)
		m := NewErrorAlertMiddleware(SlackAlertConfig{AppName: "test"}, recorder)

		handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("handler exploded")
		}))

		req := httptest.NewRequest("GET", "/panic", nil)
		assert.NotPanics(t, func() {
			handler.ServeHTTP(httptest.NewRecorder(), req)
		})

		recent := recorder.Recent()
		require.Len(t, recent, 1)
		assert.Contains(t, recent[0].Message, "handler exploded")
	})
}
