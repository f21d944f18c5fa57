package ppa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/ralt/aptsources/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultAPIURL is the Launchpad REST API root
const DefaultAPIURL = "https://api.launchpad.net/devel"

// Split parses "owner/name", with an optional "ppa:" prefix
func Split(ppa string) (string, string, error) {
	parts := strings.Split(strings.TrimPrefix(ppa, "ppa:"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &models.PPAError{PPA: ppa, Reason: "invalid PPA format"}
	}
	return parts[0], parts[1], nil
}

// Launchpad looks up PPA signing keys on Launchpad
type Launchpad struct {
	APIURL string
	Client *http.Client

	keys *expirable.LRU[string, string]
}

// NewLaunchpad creates a Launchpad client for apiURL
func NewLaunchpad(apiURL string) *Launchpad {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Launchpad{
		APIURL: strings.TrimSuffix(apiURL, "/"),
		Client: &http.Client{Timeout: 30 * time.Second},
		keys:   expirable.NewLRU[string, string](64, nil, time.Hour),
	}
}

// Split implements sources.PPAResolver
func (l *Launchpad) Split(ppa string) (string, string, error) {
	return Split(ppa)
}

type archive struct {
	SigningKeyFingerprint string `json:"signing_key_fingerprint"`
}

// SigningKey returns the signing key fingerprint of a PPA
func (l *Launchpad) SigningKey(ctx context.Context, ppa string) (string, error) {
	owner, name, err := Split(ppa)
	if err != nil {
		return "", err
	}

	cacheKey := owner + "/" + name
	if key, ok := l.keys.Get(cacheKey); ok {
		return key, nil
	}

	url := fmt.Sprintf("%s/~%s/+archive/ubuntu/%s", l.APIURL, owner, name)
	logrus.Debugf("Loading launchpad url: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return "", &models.RemoteError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", &models.PPAError{PPA: ppa, Reason: "not found on launchpad"}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &models.RemoteError{URL: url, StatusCode: resp.StatusCode}
	}

	var a archive
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return "", &models.RemoteError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding launchpad archive: %w", err)}
	}
	if a.SigningKeyFingerprint == "" {
		return "", &models.PPAError{PPA: ppa, Reason: "no signing key on launchpad"}
	}

	l.keys.Add(cacheKey, a.SigningKeyFingerprint)
	return a.SigningKeyFingerprint, nil
}
