package personnel

import (
	"context"

	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
	"github.com/mohammadpnp/math-server/internal/logging"
	"github.com/mohammadpnp/math-server/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Persister writes extracted records kind by kind. Each kind is one
// transactional batch: a failed batch is logged and left out of the accepted
// set while the remaining kinds carry on.
type Persister struct {
	writer domain.BatchWriter
	log    *logrus.Entry
}

func NewPersister(writer domain.BatchWriter, log *logrus.Entry) *Persister {
	return &Persister{writer: writer, log: logging.OrNop(log)}
}

// Persist returns the records of committed batches concatenated in kindOrder.
// A key repeated within a kind is stored and returned once, from its last
// occurrence.
func (p *Persister) Persist(ctx context.Context, recordsByKind map[domain.EntityKind][]domain.Record, kindOrder []domain.EntityKind) []domain.Record {
	accepted := make([]domain.Record, 0)
	m := metrics.Get()

	for _, kind := range kindOrder {
		records := lastByKey(recordsByKind[kind])
		if len(records) == 0 {
			continue
		}

		log := p.log.WithFields(logrus.Fields{"kind": kind, "records": len(records)})
		result, err := p.writer.UpsertBatch(ctx, kind, records)
		if err != nil {
			log.WithError(err).Error("persist batch abandoned")
			m.RecordsPersisted(string(kind), len(records), false)
			continue
		}

		log.WithFields(logrus.Fields{
			"inserted": result.InsertedCount,
			"updated":  result.UpdatedCount,
		}).Info("persist batch committed")
		m.RecordsPersisted(string(kind), len(records), true)
		accepted = append(accepted, records...)
	}
	return accepted
}

func lastByKey(records []domain.Record) []domain.Record {
	last := make(map[string]int, len(records))
	for i, rec := range records {
		last[rec.Key()] = i
	}
	if len(last) == len(records) {
		return records
	}

	out := make([]domain.Record, 0, len(last))
	for i, rec := range records {
		if last[rec.Key()] == i {
			out = append(out, rec)
		}
	}
	return out
}
