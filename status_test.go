package concurqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status TaskStatus
		want   string
	}{
		{StatusSubmitted, "SUBMITTED"},
		{StatusProcessing, "PROCESSING"},
		{StatusCompleted, "COMPLETED"},
		{StatusFailed, "FAILED"},
		{StatusRetried, "RETRIED"},
		{TaskStatus(99), "UNKNOWN"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.status.String())
	}
}

func TestStatusesCoversDeclaredOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, []TaskStatus{
		StatusSubmitted,
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
		StatusRetried,
	}, Statuses())
}
