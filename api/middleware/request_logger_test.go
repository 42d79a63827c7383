// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/thor-oracle/log"
)

type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger { return m }
func (m *mockLogger) Trace(_ string, _ ...any) {}
func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }
func (m *mockLogger) Warn(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }
func (m *mockLogger) GetLoggedData() []any { return m.loggedData }

func TestRequestLoggerHandler(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(15 * time.Millisecond)
		w.Write([]byte("OK"))
	}
	failing := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	rejecting := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}

	tests := []struct {
		name                 string
		handler              http.HandlerFunc
		enabled              bool
		slowQueriesThreshold time.Duration
		log5xxErrors         bool
		expectedStatusCode   int
		shouldLog            bool
	}{
		{"enabled", ok, true, 0, false, http.StatusOK, true},
		{"disabled", ok, false, 0, false, http.StatusOK, false},
		{"slow query over threshold", slow, false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast query under threshold", ok, false, time.Second, false, http.StatusOK, false},
		{"5xx logged", failing, false, 0, true, http.StatusInternalServerError, true},
		{"5xx not logged", failing, false, 0, false, http.StatusInternalServerError, false},
		{"4xx not logged", rejecting, false, 0, true, http.StatusConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(mockLog, &enabled, tt.slowQueriesThreshold, tt.log5xxErrors)(tt.handler)

			reqBody := `{"epoch":1}`
			req := httptest.NewRequest(http.MethodPost, "http://example.com/clock/advance", strings.NewReader(reqBody))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			id := rr.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)

			loggedData := mockLog.GetLoggedData()
			if tt.shouldLog {
				assert.Contains(t, loggedData, "http://example.com/clock/advance")
				assert.Contains(t, loggedData, http.MethodPost)
				assert.Contains(t, loggedData, reqBody)
				assert.Contains(t, loggedData, id)
				assert.Contains(t, loggedData, tt.expectedStatusCode)
			} else {
				assert.Empty(t, loggedData)
			}
		})
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var enabled atomic.Bool
	handler := RequestLoggerMiddleware(&mockLogger{}, &enabled, 0, false)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/clock", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "client-id", rr.Header().Get(RequestIDHeader))
}
