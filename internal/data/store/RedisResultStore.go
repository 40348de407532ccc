package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/data/redisStore"
	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
)

type RedisResultStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisResultStore(ctx context.Context) *RedisResultStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisResultStore)
	if backing == nil {
		return nil
	}
	return &RedisResultStore{
		store:  backing,
		logger: logger_i.NewLogger("ResultStore"),
	}
}

// AppendRow pushes one extracted row onto the job's table. RPush keeps the
// rows in the order the pipeline produced them, which is the upload order.
func (s *RedisResultStore) AppendRow(ctx context.Context, jobId string, row jobModel.ExtractionResult) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)

	data, err := json.Marshal(row)
	if err != nil {
		log.Error("Error marshalling result row :", "error", err)
		return err
	}

	if err := s.store.ListPush(ctx, jobId, data); err != nil {
		log.Error("error saving result row", "error:", err)
		return err
	}
	log.Debug("Saved result row successfully", "file", row.FileName)

	return s.store.Expire(ctx, jobId, config.RedisResultStoreTTL)
}

func (s *RedisResultStore) GetTable(ctx context.Context, jobId string) (jobModel.ResultTable, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)
	log.Debug("Getting result table")

	raw, err := s.store.ListGetAll(ctx, jobId)
	if err != nil {
		log.Error("Error getting result table", "error:", err)
		return nil, err
	}

	table := make(jobModel.ResultTable, 0, len(raw))
	for _, entry := range raw {
		var row jobModel.ExtractionResult
		if err := json.Unmarshal([]byte(entry), &row); err != nil {
			log.Error("Error unmarshalling result row :", "error", err)
			return nil, err
		}
		table = append(table, row)
	}
	return table, nil
}

func TestResultStore(store *redisStore.Store) *RedisResultStore {
	return &RedisResultStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
