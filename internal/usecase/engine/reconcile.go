package engine

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/access"
	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	"github.com/kailas-cloud/esengine/internal/metrics"
)

// serviceFailure holds the fields the index service uses to report problems.
type serviceFailure struct {
	Error   json.RawMessage `json:"error"`
	Message json.RawMessage `json:"message"`
}

// err returns the reported error unchanged, or ErrNoResponse when the
// body carries neither an error nor a message.
func (f serviceFailure) err() error {
	if present(f.Error) {
		return domain.NewServiceError(f.Error)
	}
	if present(f.Message) {
		return domain.NewServiceError(f.Message)
	}
	return domain.ErrNoResponse
}

type searchResponse struct {
	Hits *struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
	serviceFailure
}

type hit struct {
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// reconcile parses a search reply and keeps only hits the host grants,
// preserving service order. The stored copy in the index is never trusted
// for authorization.
func (e *Engine) reconcile(ctx context.Context, body []byte, limit int) ([]result.Result, error) {
	var resp searchResponse
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &resp) != nil {
		return nil, domain.ErrNoResponse
	}
	if resp.Hits == nil {
		return nil, resp.serviceFailure.err()
	}

	log := e.log(ctx)
	out := make([]result.Result, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		src, err := decodeSource(h.Source)
		if err != nil {
			log.Warn("skipping undecodable hit", zap.Error(err))
			continue
		}

		areaID := src.AreaID()
		area, ok := e.areas.Area(areaID)
		if !ok {
			metrics.AccessChecksTotal.WithLabelValues("unknown_area").Inc()
			log.Debug("skipping hit from unknown area", zap.String("areaid", areaID))
			continue
		}

		itemID, err := src.ItemID()
		if err != nil {
			log.Warn("skipping hit without item id", zap.String("areaid", areaID), zap.Error(err))
			continue
		}

		outcome := area.CheckAccess(ctx, itemID)
		metrics.AccessChecksTotal.WithLabelValues(string(outcome)).Inc()

		switch outcome {
		case access.Granted:
			out = append(out, result.New(mapDocument(area, src), score(h)))
		case access.Deleted:
			// Stale entry; removal from the index is left to the next reindex.
			log.Debug("hit refers to deleted item",
				zap.String("areaid", areaID), zap.Int64("itemid", itemID))
		}

		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func decodeSource(raw json.RawMessage) (document.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var src document.Document
	if err := dec.Decode(&src); err != nil {
		return nil, err
	}
	if src == nil {
		src = document.Document{}
	}
	return src, nil
}

func mapDocument(area Area, src document.Document) document.Document {
	if m, ok := area.(DocumentMapper); ok {
		return m.ToDocument(src)
	}
	return src.Pick(document.RenderFields)
}

func score(h hit) float64 {
	if h.Score == nil {
		return 0
	}
	return *h.Score
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
