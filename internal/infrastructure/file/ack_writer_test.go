package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mohammadpnp/math-server/internal/domain/personnel"
	"github.com/mohammadpnp/math-server/internal/infrastructure/file"
	"github.com/stretchr/testify/require"
)

func TestAckWriterEmitOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ack.xml")
	require.NoError(t, os.WriteFile(path, []byte("stale receipt"), 0o644))

	writer := file.NewAckWriter(path)
	writer.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	ref := "1001"
	err := writer.Emit(context.Background(), []personnel.Record{
		personnel.Individual{ExternalID: "1001", Name: "Иван", Surname: "Петров", Code: "ФЛ-0001"},
		personnel.Employee{ExternalID: "2001", IndividualExternalID: &ref, FullName: "Петров Иван", Code: "СТ-0042"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "stale receipt")
	require.Contains(t, string(raw), `generatedAt="2024-01-02T03:04:05Z"`)
	require.Contains(t, string(raw), `<Name>Петров Иван</Name>`)

	ids, err := file.ReadAck(path)
	require.NoError(t, err)
	require.Equal(t, []string{"1001", "2001"}, ids)
}

func TestAckWriterEmptyReceipt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ack.xml")
	require.NoError(t, file.NewAckWriter(path).Emit(context.Background(), nil))

	ids, err := file.ReadAck(path)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAckWriterUnwritableLocation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing-dir", "ack.xml")
	err := file.NewAckWriter(path).Emit(context.Background(), nil)
	require.Error(t, err)
}
