package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/jobs/runtime"
	"github.com/dp-wu/bookradar-backend/internal/logger"
	"github.com/dp-wu/bookradar-backend/internal/services"
)

const TypeClassify = "classify"

// ClassifyLabel is one tag assignment produced by the external classifier.
type ClassifyLabel struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

type ClassifyPayload struct {
	RecommendationID uuid.UUID       `json:"recommendation_id"`
	Labels           []ClassifyLabel `json:"labels"`
}

// ClassifyHandler applies classifier output to the ledger. Repeated runs for
// the same recommendation overwrite confidences rather than accumulate.
type ClassifyHandler struct {
	log    *logger.Logger
	ledger services.LedgerService
}

func NewClassifyHandler(log *logger.Logger, ledger services.LedgerService) *ClassifyHandler {
	return &ClassifyHandler{
		log:    log.With("task", TypeClassify),
		ledger: ledger,
	}
}

func (h *ClassifyHandler) Type() string { return TypeClassify }

func (h *ClassifyHandler) Run(jc *runtime.Context) error {
	var payload ClassifyPayload
	if err := json.Unmarshal(jc.Job.Payload, &payload); err != nil {
		jc.Fail("decode", fmt.Errorf("malformed payload: %w", err))
		return nil
	}
	if payload.RecommendationID == uuid.Nil {
		jc.Fail("validate", fmt.Errorf("recommendation_id is required"))
		return nil
	}

	for _, label := range payload.Labels {
		if err := h.ledger.Classify(jc.Ctx, payload.RecommendationID, label.Tag, label.Confidence); err != nil {
			jc.Fail("classify", err)
			return nil
		}
	}

	jc.Succeed(map[string]any{
		"recommendation_id": payload.RecommendationID,
		"labels":            len(payload.Labels),
	})
	return nil
}
