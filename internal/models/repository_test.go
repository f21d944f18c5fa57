package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAptSourceName(t *testing.T) {
	repo := &AptRepository{URL: "http://test.url/ubuntu"}
	assert.Equal(t, "http_test_url_ubuntu", repo.SourceName())

	repo.URL = "http://café.example/ubuntu"
	assert.Equal(t, "http_café_example_ubuntu", repo.SourceName())

	repo.Name = "default"
	assert.Equal(t, "default", repo.SourceName())
}

func TestAptValidate(t *testing.T) {
	tests := []struct {
		name string
		repo AptRepository
		ok   bool
	}{
		{"bare", AptRepository{URL: "https://example.com", KeyID: "AAAA"}, true},
		{"suites and components", AptRepository{URL: "https://example.com", KeyID: "AAAA", Suites: []string{"jammy"}, Components: []string{"main"}}, true},
		{"path", AptRepository{URL: "https://example.com", KeyID: "AAAA", Path: "dir/subdir"}, true},
		{"missing url", AptRepository{KeyID: "AAAA"}, false},
		{"missing key", AptRepository{URL: "https://example.com"}, false},
		{"path with suites", AptRepository{URL: "https://example.com", KeyID: "AAAA", Path: "dir", Suites: []string{"jammy"}}, false},
		{"components without suites", AptRepository{URL: "https://example.com", KeyID: "AAAA", Components: []string{"main"}}, false},
		{"exact suite with components", AptRepository{URL: "https://example.com", KeyID: "AAAA", Suites: []string{"dir/"}, Components: []string{"main"}}, false},
		{"bad format", AptRepository{URL: "https://example.com", KeyID: "AAAA", Formats: []string{"rpm"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.repo.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCloudPocket(t *testing.T) {
	repo := &CloudRepository{Cloud: "wallaby"}
	assert.Equal(t, PocketUpdates, repo.PocketOrDefault())
	require.NoError(t, repo.Validate())

	repo.Pocket = "security"
	assert.Error(t, repo.Validate())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Failed to install PPA 'ppa-missing-slash': invalid PPA format",
		(&PPAError{PPA: "ppa-missing-slash", Reason: "invalid PPA format"}).Error())
	assert.Equal(t, "Failed to install UCA 'FAKE-CLOUD/updates': not a valid release for 'FAKE-CODENAME'",
		(&CloudError{Cloud: "FAKE-CLOUD", Pocket: "updates", Codename: "FAKE-CODENAME"}).Error())
	assert.Equal(t, ErrPPA, Classify(&PPAError{}))
	assert.Equal(t, ErrFileOp, Classify(assert.AnError))
	assert.Equal(t, ErrRemote, Classify(&RemoteError{URL: "http://x", StatusCode: 500}))
	assert.Equal(t, "request to http://x failed: status=500", (&RemoteError{URL: "http://x", StatusCode: 500}).Error())
}

type countingVisitor struct {
	apt, ppa, cloud int
}

func (v *countingVisitor) VisitApt(*AptRepository) error     { v.apt++; return nil }
func (v *countingVisitor) VisitPPA(*PPARepository) error     { v.ppa++; return nil }
func (v *countingVisitor) VisitCloud(*CloudRepository) error { v.cloud++; return nil }

func TestVisit(t *testing.T) {
	v := &countingVisitor{}
	for _, repo := range []Repository{&AptRepository{}, &PPARepository{}, &CloudRepository{}, &PPARepository{}} {
		require.NoError(t, Visit(repo, v))
	}
	assert.Equal(t, 1, v.apt)
	assert.Equal(t, 2, v.ppa)
	assert.Equal(t, 1, v.cloud)

	assert.Panics(t, func() { _ = Visit(nil, v) })
}
