package qdrantDB

import (
	"context"
	"fmt"

	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// The registry is a reserved single-purpose collection: one point per
// per-file collection, keyed by the collection name, carrying the digest of
// the source bytes. It is what turns "two different files cleaned to the same
// name" into a reportable error instead of a silent merge.

var registryName = config.CollectionRegistryName

func initRegistryCollection(ctx context.Context, client *qdrant.Client) {
	//vectors are irrelevant here, the minimum dimension keeps it cheap
	err := createCollection(ctx, client, registryName, 1)
	if err != nil {
		logger.Error("Registry collection creation failed", "error", err)
	}
}

func registryPointId(collectionName string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(collectionName)).String()
}

func (db *ClientHolder) registerSource(ctx context.Context, collectionName string, sourceDigest string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	pointId := registryPointId(collectionName)
	points, err := db.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: registryName,
		Ids:            []*qdrant.PointId{qdrant.NewID(pointId)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return fmt.Errorf("registry lookup failed: %w", err)
	}

	if len(points) > 0 {
		stored := points[0].Payload["source_digest"].GetStringValue()
		if stored != sourceDigest {
			loggr.Error("Collection name collision", "collection", collectionName)
			return fmt.Errorf("collection %q: %w", collectionName, vectorDB.ErrNameCollision)
		}
		//same bytes re-uploaded, idempotent upsert takes it from here
		return nil
	}

	loggr.Debug("Registering collection source", "collection", collectionName)
	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: registryName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(pointId),
				Vectors: qdrant.NewVectors(0),
				Payload: qdrant.NewValueMap(map[string]any{
					"collection_name": collectionName,
					"source_digest":   sourceDigest,
				}),
			},
		},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("registry upsert failed: %w", err)
	}
	return nil
}
