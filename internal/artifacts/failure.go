package artifacts

import (
	"context"

	"github.com/kuitang/screening-ui/internal/obs"
)

// Capture is the evidence collected from a page when an operation fails.
type Capture struct {
	Screenshot []byte
	HTML       string
}

// SaveFailure uploads whatever parts of c are present under the run id
// carried by ctx and returns the keys written.
func (s *Store) SaveFailure(ctx context.Context, operation string, c Capture) ([]string, error) {
	runID := obs.CorrelationFromContext(ctx).RunID
	if runID == "" {
		runID = obs.NewRunID()
	}
	var keys []string
	if len(c.Screenshot) > 0 {
		key := s.Key(runID, operation+".png")
		if err := s.Put(ctx, key, c.Screenshot, ContentTypePNG); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	if c.HTML != "" {
		key := s.Key(runID, operation+".html")
		if err := s.Put(ctx, key, []byte(c.HTML), ContentTypeHTML); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	obs.From(ctx).Info("failure artifacts saved", "pkg", "artifacts", "bucket", s.bucketName, "keys", keys)
	return keys, nil
}
