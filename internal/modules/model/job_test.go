package model

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/job"
	"github.com/stretchr/testify/require"
)

func TestJobFromSnapshot(t *testing.T) {
	now := time.Now()
	record := JobFromSnapshot(job.Snapshot{
		JobID:             "j1",
		Status:            consts.JobStatusFailed,
		Phase:             consts.PhasePoll,
		Reason:            strings.Repeat("x", 2000),
		Polls:             4,
		Prompt:            "koi",
		Seed:              99,
		Steps:             60,
		Scale:             16.5,
		DenoisingStrength: 0.5,
		Width:             512,
		Height:            448,
		Rescaling:         1,
		SubmittedAt:       now,
		UpdatedAt:         now,
	})

	require.Equal(t, "j1", record.JobId)
	require.Equal(t, "failed", record.Status)
	require.Equal(t, "poll", record.Phase)
	require.Len(t, record.FailedReason, 1000)
	require.Equal(t, int64(99), record.Seed)
	require.Equal(t, 448, record.Height)
	require.Equal(t, now, record.CreatedAt)
	require.Equal(t, "job", record.TableName())
}

func TestJobFromSnapshotTruncatesOnCharacters(t *testing.T) {
	record := JobFromSnapshot(job.Snapshot{
		JobID:  "j2",
		Prompt: "a" + strings.Repeat("鯉", 6000),
		Reason: strings.Repeat("é", 1500),
	})
	require.True(t, utf8.ValidString(record.Prompt))
	require.Equal(t, 5000, utf8.RuneCountInString(record.Prompt))
	require.True(t, strings.HasPrefix(record.Prompt, "a鯉"))
	require.True(t, utf8.ValidString(record.FailedReason))
	require.Equal(t, 1000, utf8.RuneCountInString(record.FailedReason))

	short := JobFromSnapshot(job.Snapshot{Prompt: "鯉の池"})
	require.Equal(t, "鯉の池", short.Prompt)
}

func TestJobSnapshot(t *testing.T) {
	now := time.Now()
	record := Job{JobId: "j3", Status: "complete", Phase: "fetch", Layer: "koi-2", Seed: 5, Width: 64, CreatedAt: now}
	snap := record.Snapshot()
	require.Equal(t, "j3", snap.JobID)
	require.Equal(t, consts.JobStatusComplete, snap.Status)
	require.Equal(t, consts.PhaseFetch, snap.Phase)
	require.Equal(t, "koi-2", snap.Layer)
	require.Equal(t, int64(5), snap.Seed)
	require.Equal(t, now, snap.SubmittedAt)
}
