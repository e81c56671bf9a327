package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empleoradar/backend/internal/domain"
)

func job(id, title, company string, source domain.Source) domain.JobRecord {
	return domain.JobRecord{
		ID:      id,
		Title:   title,
		Company: company,
		URL:     "https://example.com/" + id,
		Source:  source,
	}
}

func TestSignatureNormalizes(t *testing.T) {
	a := job("1", "  Backend Developer ", "ACME", domain.SourceInfoJobs)
	b := job("2", "backend developer", " acme", domain.SourceInfoJobs)

	assert.Equal(t, Signature(a), Signature(b))
}

func TestSignatureKeepsSourcesApart(t *testing.T) {
	a := job("1", "Backend Developer", "ACME", domain.SourceInfoJobs)
	b := job("2", "Backend Developer", "ACME", domain.SourceLinkedIn)

	assert.NotEqual(t, Signature(a), Signature(b))
}

func TestMergeDropsDuplicatesKeepingExternal(t *testing.T) {
	external := []domain.JobRecord{
		job("ext-1", "Backend Developer", "ACME", domain.SourceAdzuna),
		job("ext-2", "Data Engineer", "Initech", domain.SourceLinkedIn),
	}
	official := []domain.JobRecord{
		job("off-1", "backend developer", "acme", domain.SourceAdzuna),
		job("off-2", "SRE", "Globex", domain.SourceAdzuna),
	}

	merged, meta := Merge(external, official)

	require.Len(t, merged, 3)
	assert.Equal(t, "ext-1", merged[0].ID, "external copy wins over the official duplicate")
	assert.Equal(t, "ext-2", merged[1].ID)
	assert.Equal(t, "off-2", merged[2].ID)

	assert.Equal(t, 2, meta.External)
	assert.Equal(t, 2, meta.Official)
	assert.Equal(t, 2, meta.Sources[domain.SourceAdzuna])
	assert.Equal(t, 1, meta.Sources[domain.SourceLinkedIn])
}

func TestMergeSamePostingOnTwoPortalsIsKept(t *testing.T) {
	external := []domain.JobRecord{
		job("1", "Backend Developer", "ACME", domain.SourceInfoJobs),
		job("2", "Backend Developer", "ACME", domain.SourceLinkedIn),
	}

	merged, _ := Merge(external, nil)
	assert.Len(t, merged, 2)
}

func TestMergeEmptyInputs(t *testing.T) {
	merged, meta := Merge(nil, nil)
	assert.Empty(t, merged)
	assert.Equal(t, 0, meta.External)
	assert.Equal(t, 0, meta.Official)
}
