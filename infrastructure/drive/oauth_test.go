package drive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	want := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", Expiry: time.Now().Add(time.Hour).Round(time.Second)}

	if err := saveToken(path, want); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	got, err := loadToken(path)
	if err != nil {
		t.Fatalf("loadToken: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("token mismatch: %+v vs %+v", got, want)
	}
}

func TestRefreshToken(t *testing.T) {
	config := &oauth2.Config{ClientID: "id", Endpoint: oauth2.Endpoint{TokenURL: "http://127.0.0.1:0/token"}}

	t.Run("missing token file", func(t *testing.T) {
		_, err := refreshToken(context.Background(), config, filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, ErrNoToken) {
			t.Errorf("expected ErrNoToken, got %v", err)
		}
	})

	t.Run("valid token is reused", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		stored := &oauth2.Token{AccessToken: "still-valid", Expiry: time.Now().Add(time.Hour)}
		if err := saveToken(path, stored); err != nil {
			t.Fatalf("saveToken: %v", err)
		}
		got, err := refreshToken(context.Background(), config, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.AccessToken != "still-valid" {
			t.Errorf("expected stored token, got %q", got.AccessToken)
		}
	})
}
