//go:build unit || !integration

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusIsTerminated(t *testing.T) {
	terminal := []JobStatus{
		JobStatusCancelled, JobStatusFailed, JobStatusFinished, JobStatusOutOfCredits, JobStatusPanicked,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminated(), s.String())
	}

	running := []JobStatus{
		JobStatusPending, JobStatusMetaScheduled, JobStatusScheduled, JobStatusRunning,
	}
	for _, s := range running {
		assert.False(t, s.IsTerminated(), s.String())
	}
}

func TestParseJobStatus(t *testing.T) {
	for status, name := range jobStatusNames {
		parsed, err := ParseJobStatus(name)
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	parsed, err := ParseJobStatus("out_of_credits")
	require.NoError(t, err)
	assert.Equal(t, JobStatusOutOfCredits, parsed)

	_, err = ParseJobStatus("DONE")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN(42)", JobStatus(42).String())
}
