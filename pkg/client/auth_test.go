package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("expiry not found")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}

	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Error("garbage token should not yield an expiry")
	}
}

func TestTokenFileIsExpired(t *testing.T) {
	tf := &TokenFile{ExpiresAt: time.Now().Add(30 * time.Minute)}
	if tf.IsExpired(0) {
		t.Error("token with 30m left is not expired")
	}
	if !tf.IsExpired(time.Hour) {
		t.Error("token with 30m left is expired under a 1h margin")
	}
}

func TestLoginFallsBackToJWTExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/token" {
			http.NotFound(w, r)
			return
		}
		// No expires_at field in the response; the client derives it from
		// the token's exp claim.
		json.NewEncoder(w).Encode(map[string]any{
			"token": signedToken(t, exp),
			"user":  map[string]string{"id": "u1", "username": "kim"},
		})
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL, Timeout: 5 * time.Second})
	resp, err := c.Login(context.Background(), "kim", "hunter2", "laptop")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", resp.ExpiresAt, exp)
	}
	if resp.User.ID != "u1" {
		t.Errorf("user id = %s", resp.User.ID)
	}
}

func TestSaveLoadDeleteToken(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", t.TempDir())
	} else {
		t.Setenv("HOME", t.TempDir())
	}

	tf := &TokenFile{
		Token:     "abc",
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
		Server:    "http://localhost:8080",
		Username:  "kim",
		UserID:    "u1",
	}
	if err := SaveToken(tf); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadToken()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Token != tf.Token || loaded.Username != tf.Username || loaded.UserID != tf.UserID {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := DeleteToken(); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(); err == nil {
		t.Error("LoadToken should fail after delete")
	}
}
