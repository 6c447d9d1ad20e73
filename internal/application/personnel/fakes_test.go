package personnel_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mohammadpnp/math-server/internal/domain/notification"
	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
	"github.com/mohammadpnp/math-server/internal/infrastructure/file"
	"github.com/stretchr/testify/require"
)

func feedXML(objects ...string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<Message xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:d2p1="http://replication-message.org">` +
		strings.Join(objects, "\n") + `</Message>`
}

func individualXML(externalID string, extra ...string) string {
	return `<Object xsi:type="d2p1:ФизическоеЛицо">
  <ИдентификаторВБазе>` + externalID + `</ИдентификаторВБазе>
  <ПометкаУдаления>false</ПометкаУдаления>
  <Имя>Иван</Имя>
  <Фамилия>Петров</Фамилия>
  <ДатаРождения>1980-05-17</ДатаРождения>
  <Код>ФЛ-` + externalID + `</Код>` + strings.Join(extra, "") + `
</Object>`
}

func employeeXML(externalID, individualID string, extra ...string) string {
	return `<Object xsi:type="d2p1:Сотрудник">
  <ИдентификаторВБазе>` + externalID + `</ИдентификаторВБазе>
  <ПометкаУдаления>False</ПометкаУдаления>
  <ФизическоеЛицо><Ссылка>` + individualID + `</Ссылка></ФизическоеЛицо>
  <Наименование>Петров Иван</Наименование>
  <ДатаПриемаНаРаботу>2010-03-01</ДатаПриемаНаРаботу>
  <ДатаУвольнения></ДатаУвольнения>
  <ОсновноеМестоРаботы>TRUE</ОсновноеМестоРаботы>` + strings.Join(extra, "") + `
</Object>`
}

func mustDecode(t *testing.T, xml string) *domain.Document {
	t.Helper()
	doc, err := file.DecodeDocument(strings.NewReader(xml))
	require.NoError(t, err)
	return doc
}

type fakeStatusRepo struct {
	mu       sync.Mutex
	rows     []domain.ImportStatus
	releases int
	seq      int
	now      func() time.Time
}

func (f *fakeStatusRepo) AcquirePending(ctx context.Context, user string, staleAfter time.Duration) (domain.ImportStatus, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if f.now != nil {
		now = f.now()
	}
	for i := range f.rows {
		if !f.rows[i].IsPending {
			continue
		}
		if staleAfter > 0 && now.Sub(f.rows[i].CreatedAt) > staleAfter {
			f.rows[i].IsPending = false
			continue
		}
		return f.rows[i], false, nil
	}

	f.seq++
	row := domain.ImportStatus{ID: fmt.Sprintf("import-%d", f.seq), RequestedBy: user, CreatedAt: now, IsPending: true}
	f.rows = append(f.rows, row)
	return row, true, nil
}

func (f *fakeStatusRepo) Release(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].IsPending {
			f.rows[i].IsPending = false
			f.releases++
		}
	}
	return nil
}

func (f *fakeStatusRepo) ReleaseAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for i := range f.rows {
		if f.rows[i].IsPending {
			f.rows[i].IsPending = false
			n++
		}
	}
	return n, nil
}

func (f *fakeStatusRepo) Latest(ctx context.Context) (*domain.ImportStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.rows) == 0 {
		return nil, nil
	}
	row := f.rows[len(f.rows)-1]
	return &row, nil
}

func (f *fakeStatusRepo) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, row := range f.rows {
		if row.IsPending {
			n++
		}
	}
	return n
}

type fakeSource struct {
	doc     *domain.Document
	err     error
	release chan struct{}
}

func (f *fakeSource) Load(ctx context.Context) (*domain.Document, error) {
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

// fakeWriter keeps the latest record per external id for every kind, the
// way the upsert does.
type fakeWriter struct {
	mu     sync.Mutex
	fail   map[domain.EntityKind]error
	calls  []domain.EntityKind
	stored map[domain.EntityKind]map[string]domain.Record
}

func (f *fakeWriter) UpsertBatch(ctx context.Context, kind domain.EntityKind, records []domain.Record) (domain.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, kind)
	if err := f.fail[kind]; err != nil {
		return domain.BatchResult{}, err
	}
	if f.stored == nil {
		f.stored = make(map[domain.EntityKind]map[string]domain.Record)
	}
	if f.stored[kind] == nil {
		f.stored[kind] = make(map[string]domain.Record)
	}

	var result domain.BatchResult
	for _, rec := range records {
		if _, exists := f.stored[kind][rec.Key()]; exists {
			result.UpdatedCount++
		} else {
			result.InsertedCount++
		}
		f.stored[kind][rec.Key()] = rec
	}
	return result, nil
}

type fakeAck struct {
	mu    sync.Mutex
	err   error
	ids   []string
	calls int
}

func (f *fakeAck) Emit(ctx context.Context, accepted []domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return f.err
	}
	f.ids = f.ids[:0]
	for _, rec := range accepted {
		f.ids = append(f.ids, rec.Receipt().ExternalID)
	}
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	items []notification.Notification
}

func (f *fakeNotifier) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return notification.Notification{}, f.err
	}
	n.ID = fmt.Sprintf("n-%d", len(f.items)+1)
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeNotifier) all() []notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]notification.Notification, len(f.items))
	copy(out, f.items)
	return out
}

var errBoom = errors.New("boom")
