package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/session"
)

type signup struct {
	Email string     `json:"email" validate:"required"`
	Age   FlexString `json:"age"`
	Bio   string     `json:"bio" validate:"max=5"`
}

var signupMessages = Messages{
	"":    "Missing required fields",
	"Bio": "Bio too long",
}

func newJSONRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeValidBody(t *testing.T) {
	got, err := DecodeValidBody[signup](newJSONRequest(`{"email":"a@school.edu","age":21}`), signupMessages)
	require.NoError(t, err)
	assert.Equal(t, "a@school.edu", got.Email)
	assert.Equal(t, FlexString("21"), got.Age)

	_, err = DecodeValidBody[signup](newJSONRequest(``), signupMessages)
	assert.EqualError(t, err, "Missing required fields")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = DecodeValidBody[signup](newJSONRequest(`{"email":"x","bio":"toolong"}`), signupMessages)
	assert.EqualError(t, err, "Bio too long")

	_, err = DecodeValidBody[signup](newJSONRequest(`{"email":`), signupMessages)
	assert.EqualError(t, err, "Invalid JSON body")
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"20","b":3,"c":null}`), &v))
	assert.Equal(t, "20", v.A.String())
	assert.Equal(t, "3", v.B.String())
	assert.Equal(t, "", v.C.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestField(t *testing.T) {
	var v struct {
		Notes Field[string] `json:"notes"`
		Title Field[string] `json:"title"`
		Size  Field[string] `json:"size"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"notes":null,"title":"Leg day"}`), &v))

	assert.True(t, v.Notes.Set)
	assert.Nil(t, v.Notes.Ptr())
	assert.True(t, v.Title.Set)
	assert.Equal(t, "Leg day", *v.Title.Ptr())
	assert.False(t, v.Size.Set)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "abc")
	assert.Equal(t, "abc", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", TokenFromRequest(r))

	r.Header.Del("Authorization")
	assert.Equal(t, "", TokenFromRequest(r))
}

func TestRequireUser(t *testing.T) {
	store := session.NewMemoryStore(0)
	token, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)

	h := RequireUser(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Message(w, http.StatusOK, UserID(r.Context()))
	}))

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"raw token", token, http.StatusOK, `{"message":"user-1"}`},
		{"bearer token", "Bearer " + token, http.StatusOK, `{"message":"user-1"}`},
		{"missing", "", http.StatusUnauthorized, `{"error":"Unauthorized"}`},
		{"unknown", "nope", http.StatusUnauthorized, `{"error":"Unauthorized"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestError_MapsCategories(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.NotFound("Post not found"), http.StatusNotFound, "Post not found"},
		{apperr.Forbidden("Unauthorized"), http.StatusForbidden, "Unauthorized"},
		{apperr.Conflict("Request already responded to"), http.StatusConflict, "Request already responded to"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "disk on fire"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		Error(w, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		assert.Equal(t, tc.status, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body["error"])
	}
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	limited := RateLimit(1)(ok)
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)

	unlimited := RateLimit(0)(ok)
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		unlimited.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
