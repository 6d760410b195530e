package clients

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/errors"
	redisclient "github.com/KirkDiggler/trainer-api/internal/redis"
)

const scanBatch = 100

// DanglingEntry is a roster index member whose client record is gone
type DanglingEntry struct {
	TrainerID string
	ClientID  string
}

// AuditReport lists the inconsistencies Audit found
type AuditReport struct {
	Checked   int
	Corrupted []string
	Dangling  []DanglingEntry
	Repaired  bool
}

// Clean reports whether nothing needs fixing
func (r *AuditReport) Clean() bool {
	return len(r.Corrupted) == 0 && len(r.Dangling) == 0
}

// Audit scans client records and roster indexes for entries left behind by
// interrupted writes or old formats. With repair set, corrupted records are
// deleted and dangling index members removed. Scans cover a single node; in
// cluster mode run it against each primary.
func Audit(ctx context.Context, client redisclient.Client, repair bool) (*AuditReport, error) {
	if client == nil {
		return nil, errors.InvalidArgument("client is required")
	}

	report := &AuditReport{}

	iter := client.Scan(ctx, 0, clientKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		report.Checked++

		raw, err := client.Get(ctx, key).Result()
		if redisclient.IsNil(err) {
			continue
		}
		if err != nil {
			return nil, errors.Storage(err, "audit", msgReadFailed)
		}

		var c entities.Client
		if err := json.Unmarshal([]byte(raw), &c); err != nil || c.ID == "" || c.TrainerID == "" {
			report.Corrupted = append(report.Corrupted, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Storage(err, "audit", msgReadFailed)
	}

	iter = client.Scan(ctx, 0, trainerIndexPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		indexKey := iter.Val()
		trainerID := strings.TrimPrefix(indexKey, trainerIndexPrefix)

		ids, err := client.SMembers(ctx, indexKey).Result()
		if err != nil {
			return nil, errors.Storage(err, "audit", msgReadFailed)
		}
		for _, id := range ids {
			n, err := client.Exists(ctx, clientKeyPrefix+id).Result()
			if err != nil {
				return nil, errors.Storage(err, "audit", msgReadFailed)
			}
			if n == 0 {
				report.Dangling = append(report.Dangling, DanglingEntry{TrainerID: trainerID, ClientID: id})
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Storage(err, "audit", msgReadFailed)
	}

	if !repair || report.Clean() {
		return report, nil
	}

	pipe := client.TxPipeline()
	for _, key := range report.Corrupted {
		pipe.Del(ctx, key)
	}
	for _, d := range report.Dangling {
		pipe.SRem(ctx, trainerIndexPrefix+d.TrainerID, d.ClientID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Storage(err, "audit", msgWriteFailed)
	}
	report.Repaired = true

	return report, nil
}
