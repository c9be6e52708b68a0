package models

import (
	"fmt"
	"strings"
)

// JobStatus is the lifecycle state of a job as recorded by the ledger.
type JobStatus uint8

const (
	JobStatusPending JobStatus = iota
	JobStatusMetaScheduled
	JobStatusScheduled
	JobStatusRunning
	JobStatusCancelled
	JobStatusFinished
	JobStatusFailed
	JobStatusOutOfCredits
	JobStatusPanicked
)

var jobStatusNames = map[JobStatus]string{
	JobStatusPending:       "PENDING",
	JobStatusMetaScheduled: "META_SCHEDULED",
	JobStatusScheduled:     "SCHEDULED",
	JobStatusRunning:       "RUNNING",
	JobStatusCancelled:     "CANCELLED",
	JobStatusFinished:      "FINISHED",
	JobStatusFailed:        "FAILED",
	JobStatusOutOfCredits:  "OUT_OF_CREDITS",
	JobStatusPanicked:      "PANICKED",
}

func (s JobStatus) String() string {
	if name, ok := jobStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}

// IsTerminated returns true if no further transition can happen from this status.
func (s JobStatus) IsTerminated() bool {
	switch s {
	case JobStatusCancelled, JobStatusFinished, JobStatusFailed, JobStatusOutOfCredits, JobStatusPanicked:
		return true
	default:
		return false
	}
}

// ParseJobStatus is case-insensitive.
func ParseJobStatus(s string) (JobStatus, error) {
	for status, name := range jobStatusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown job status %q", s)
}

func (s JobStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
