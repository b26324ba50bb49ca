package journal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Sequence uint64 `json:"sequence"`
	Action   string `json:"action"`
}

func TestJournal_WriteReadAll(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Write(entry{Sequence: 1, Action: "A"}))
	require.NoError(t, j.Write(entry{Sequence: 2, Action: "D"}))

	var got []entry
	err = j.ReadAll(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []entry{{1, "A"}, {2, "D"}}, got)

	// ReadAll 之後仍可繼續寫入
	require.NoError(t, j.Write(entry{Sequence: 3, Action: "M"}))
	count := 0
	require.NoError(t, j.ReadAll(func([]byte) error { count++; return nil }))
	assert.Equal(t, 3, count)
}

func TestJournal_OpenTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"sequence":99}`+"\n"), FileModeReadOnly))

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Write(entry{Sequence: 1, Action: "A"}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.JSONEq(t, `{"sequence":1,"action":"A"}`, lines[0])
}

func TestJournal_CallbackError(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Write(entry{Sequence: 1}))

	stop := errors.New("stop")
	err = j.ReadAll(func([]byte) error { return stop })

	assert.ErrorIs(t, err, stop)
}
