package uca

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ralt/aptsources/internal/models"
	"github.com/sirupsen/logrus"
)

// Checker validates cloud archive releases against the archive itself
type Checker struct {
	ArchiveURL string
	Client     *http.Client
}

// NewChecker creates a checker for the archive at archiveURL
func NewChecker(archiveURL string) *Checker {
	if archiveURL == "" {
		archiveURL = models.CloudArchiveURL
	}
	return &Checker{
		ArchiveURL: strings.TrimSuffix(archiveURL, "/"),
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckCompatible fails with a CloudError when the archive has no
// <codename>-<pocket>/<cloud> distribution.
func (c *Checker) CheckCompatible(ctx context.Context, codename, cloud, pocket string) error {
	url := fmt.Sprintf("%s/dists/%s-%s/%s/", c.ArchiveURL, codename, pocket, cloud)
	logrus.Debugf("Checking cloud archive release: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return &models.RemoteError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &models.CloudError{Cloud: cloud, Pocket: pocket, Codename: codename}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &models.RemoteError{URL: url, StatusCode: resp.StatusCode}
	}
	return nil
}
