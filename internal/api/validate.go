package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/maiconbalke/MVP-Review-Tools/internal/policy"
)

// validateRepoURL checks the submitted repository reference.
func validateRepoURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("repoUrl is required")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return errors.New("repoUrl must be a valid URL")
	}
	return nil
}

// requestedProfile resolves the policy profile from the query string or the
// X-Policy-Profile header (query wins) and normalizes unknown names to the
// default profile.
func requestedProfile(r *http.Request) string {
	name := r.URL.Query().Get("policy")
	if name == "" {
		name = r.Header.Get("X-Policy-Profile")
	}
	return policy.Normalize(name)
}
