package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func Test_ParseName(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		expectedName string
		expectedCode int
	}{
		{name: "plain", target: "/items/Pen", expectedName: "Pen", expectedCode: http.StatusOK},
		{name: "escaped space", target: "/items/Blue%20Pen", expectedName: "Blue Pen", expectedCode: http.StatusOK},
		{name: "escaped percent is decoded once", target: "/items/a%25b", expectedName: "a%b", expectedCode: http.StatusOK},
		{name: "escaped percent sequence stays literal", target: "/items/a%2520b", expectedName: "a%20b", expectedCode: http.StatusOK},
		{name: "escaped slash", target: "/items/a%2Fb", expectedName: "a/b", expectedCode: http.StatusOK},
		{name: "blank", target: "/items/%20", expectedCode: http.StatusBadRequest},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var got string
			mux := chi.NewRouter()
			mux.Get("/items/{name}", func(w http.ResponseWriter, r *http.Request) {
				name, ok := ParseName(w, r, logger)
				if !ok {
					return
				}
				got = name
				w.WriteHeader(http.StatusOK)
			})
			rr := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.target, nil))
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, tc.expectedName, got)
		})
	}
}
