package store

import (
	"context"
	"sync"

	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
)

type InMemoryResultStore struct {
	tableLock *sync.RWMutex
	tableMap  map[string]jobModel.ResultTable
}

func InitInMemoryResultStore() *InMemoryResultStore {
	return &InMemoryResultStore{
		tableLock: new(sync.RWMutex),
		tableMap:  make(map[string]jobModel.ResultTable),
	}
}

func (store *InMemoryResultStore) AppendRow(ctx context.Context, jobId string, row jobModel.ExtractionResult) error {
	store.tableLock.Lock()
	defer store.tableLock.Unlock()
	store.tableMap[jobId] = append(store.tableMap[jobId], row)
	inMemLogger.Info(jobId, " : Saved result row to store")
	return nil
}

func (store *InMemoryResultStore) GetTable(ctx context.Context, jobId string) (jobModel.ResultTable, error) {
	store.tableLock.RLock()
	defer store.tableLock.RUnlock()
	table := store.tableMap[jobId]
	out := make(jobModel.ResultTable, len(table))
	copy(out, table)
	return out, nil
}
