package activity

import (
	"fmt"
	"strings"
	"testing"

	"vlanman/internal/db"
	"vlanman/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	d, err := db.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))
	return NewRecorder(d)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	rec := newTestRecorder(t)
	for i := 1; i <= 5; i++ {
		rec.Record("u1", "", models.ActionCreate, fmt.Sprintf("entry %d", i), models.OutcomeSuccess, "")
	}

	entries, err := rec.List(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "entry 5", entries[0].Details)
	assert.Equal(t, "entry 3", entries[2].Details)
}

func TestListByUser(t *testing.T) {
	rec := newTestRecorder(t)
	rec.Record("u1", "", models.ActionCreate, "mine", models.OutcomeSuccess, "")
	rec.Record("u2", "", models.ActionDelete, "theirs", models.OutcomeFailed, "")

	entries, err := rec.ListByUser("u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mine", entries[0].Details)
}
