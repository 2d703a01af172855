package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteRow struct {
	ID uuid.UUID `json:"id"`
}

func seedNote(t *testing.T, tdb *TestDB, archived bool) uuid.UUID {
	t.Helper()

	userID, err := tdb.CreateTestUser(uuid.NewString()+"@example.com", "admin")
	require.NoError(t, err)

	noteID, err := tdb.CreateTestNote(userID, "seed", archived)
	require.NoError(t, err)
	return noteID
}

func TestTableCounter(t *testing.T) {
	WithTestDB(t, func(tdb *TestDB) {
		ctx := context.Background()
		counter := TableCounter{Pool: tdb.Pool, Table: "notes"}

		before, err := counter.Count(ctx)
		require.NoError(t, err)

		seedNote(t, tdb, false)

		after, err := counter.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})
}

func TestRow_Reload(t *testing.T) {
	WithTestDB(t, func(tdb *TestDB) {
		ctx := context.Background()
		noteID := seedNote(t, tdb, false)
		row := Row{Pool: tdb.Pool, Table: "notes", ID: noteID}

		require.NoError(t, row.Reload(ctx))

		_, err := tdb.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
		require.NoError(t, err)

		testkit.AssertDestroyed(t, ctx, row)
	})
}

func TestScope_Contains(t *testing.T) {
	WithTestDB(t, func(tdb *TestDB) {
		ctx := context.Background()
		active := Scope{Pool: tdb.Pool, Table: "notes", Where: "archived = $2", Args: []any{false}}

		note := &noteRow{ID: seedNote(t, tdb, false)}

		testkit.AssertScopesOut(t, ctx, active, note, func(ctx context.Context, record any) error {
			_, err := tdb.Pool.Exec(ctx, `UPDATE notes SET archived = true WHERE id = $1`, record.(*noteRow).ID)
			return err
		})

		_, err := active.Contains(ctx, struct{ Name string }{"no id"})
		assert.Error(t, err)
	})
}
