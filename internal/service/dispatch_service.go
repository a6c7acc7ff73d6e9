package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/config"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/repo"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/webhook"
	"go.uber.org/zap"
)

// ErrMissingSpaceID means the trigger record has no owning space.
var ErrMissingSpaceID = errors.New("record is missing space_id")

const (
	monitoredTable = "testimonials"
	insertType     = "INSERT"

	// One retry: at most two attempts per endpoint per trigger.
	maxAttempts = 2

	responseBodyLimit = 1000
	urlDisplayLimit   = 50

	defaultUserAgent = "TrustFlow-Webhooks/1.0"
)

// DispatchService fans a testimonial-created trigger out to every active
// webhook endpoint registered for the record's space.
type DispatchService struct {
	repo      repo.RepositoryInterface
	client    *http.Client
	backoff   time.Duration
	userAgent string
	log       *zap.SugaredLogger
}

// NewDispatchService returns DispatchService.
func NewDispatchService(r repo.RepositoryInterface, cfg config.WebhookConfig, logger *zap.SugaredLogger) *DispatchService {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &DispatchService{
		repo:      r,
		client:    &http.Client{Timeout: cfg.Timeout()},
		backoff:   cfg.RetryBackoff(),
		userAgent: ua,
		log:       logger,
	}
}

// DispatchOutcome is the body returned to the trigger caller.
type DispatchOutcome struct {
	Message string                 `json:"message"`
	Summary *model.DispatchSummary `json:"summary,omitempty"`
}

// HandleTrigger validates the trigger, builds the canonical payload once and
// delivers it concurrently to every subscribed endpoint. Per-endpoint
// failures never fail the request; only setup errors propagate.
func (s *DispatchService) HandleTrigger(ctx context.Context, evt model.TriggerEvent) (*DispatchOutcome, error) {
	if evt.Type != insertType || evt.Table != monitoredTable {
		return &DispatchOutcome{
			Message: fmt.Sprintf("ignoring %s on table %s", evt.Type, evt.Table),
		}, nil
	}
	if evt.Record == nil || evt.Record.SpaceID == "" {
		return nil, ErrMissingSpaceID
	}

	endpoints, err := s.repo.ListActiveEndpoints(ctx, evt.Record.SpaceID, model.EventTestimonialCreated)
	if err != nil {
		return nil, fmt.Errorf("list endpoints for space %s: %w", evt.Record.SpaceID, err)
	}
	if len(endpoints) == 0 {
		return &DispatchOutcome{
			Message: "no active webhooks subscribed to " + model.EventTestimonialCreated,
		}, nil
	}

	payload := model.NewCanonicalPayload(evt.Record, time.Now().UTC())
	s.log.Infof("dispatching %s for testimonial %s to %d endpoints",
		payload.Event, evt.Record.ID, len(endpoints))

	// Results are indexed by endpoint position so the aggregation below does
	// not depend on completion order.
	results := make([]model.DeliveryResult, len(endpoints))
	var wg sync.WaitGroup
	for i := range endpoints {
		wg.Add(1)
		go func(i int, ep model.WebhookEndpoint) {
			defer wg.Done()
			results[i] = s.Deliver(ctx, ep, payload)
		}(i, endpoints[i])
	}
	wg.Wait()

	summary := model.DispatchSummary{
		Total:   len(endpoints),
		Details: make([]model.DeliveryDetail, 0, len(endpoints)),
	}
	for i, res := range results {
		if res.Success {
			summary.Success++
		} else {
			summary.Failed++
		}
		summary.Details = append(summary.Details, model.DeliveryDetail{
			WebhookID: endpoints[i].ID,
			URL:       truncateURL(endpoints[i].URL),
			Status:    res.Status,
			Success:   res.Success,
		})
	}
	return &DispatchOutcome{Message: "webhooks processed", Summary: &summary}, nil
}

// Deliver runs the bounded attempt loop for one endpoint, returning the final
// attempt's result. Each failed attempt waits one backoff before retrying.
func (s *DispatchService) Deliver(ctx context.Context, ep model.WebhookEndpoint, payload model.CanonicalPayload) model.DeliveryResult {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return model.DeliveryResult{Status: http.StatusInternalServerError, Error: err.Error(), Attempt: 1}
	}

	var res model.DeliveryResult
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res = s.attempt(ctx, ep, payload, string(canonical), attempt)
		if res.Success || attempt == maxAttempts {
			break
		}
		s.log.Infof("delivery to endpoint %s failed (attempt %d/%d): %s; retrying",
			ep.ID, attempt, maxAttempts, res.Error)
		select {
		case <-ctx.Done():
			return res
		case <-time.After(s.backoff):
		}
	}
	return res
}

func (s *DispatchService) attempt(ctx context.Context, ep model.WebhookEndpoint, payload model.CanonicalPayload, canonical string, attempt int) model.DeliveryResult {
	platform := webhook.Detect(ep.URL)
	body, err := json.Marshal(webhook.FormatterFor(platform)(payload))
	if err != nil {
		return model.DeliveryResult{Status: http.StatusInternalServerError, Error: err.Error(), Attempt: attempt}
	}

	res := model.DeliveryResult{Attempt: attempt}
	respBody := ""

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		res.Status = http.StatusInternalServerError
		res.Error = err.Error()
	} else {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", s.userAgent)
		req.Header.Set("X-TrustFlow-Event", payload.Event)
		req.Header.Set("X-TrustFlow-Delivery", uuid.NewString())
		req.Header.Set("X-TrustFlow-Timestamp", payload.Timestamp)
		req.Header.Set("X-TrustFlow-Platform", string(platform))
		if ep.Secret != "" {
			req.Header.Set("X-TrustFlow-Signature", webhook.SignatureHeader(body, ep.Secret))
		}

		resp, err := s.client.Do(req)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				res.Status = http.StatusRequestTimeout
				res.Error = "request timed out"
			} else {
				res.Status = http.StatusInternalServerError
				res.Error = err.Error()
			}
		} else {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
			resp.Body.Close()
			respBody = string(raw)
			res.Status = resp.StatusCode
			res.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
			if !res.Success {
				res.Error = fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
			}
		}
	}

	// Best-effort logging: a log sink outage must never change the delivery
	// outcome.
	logRow := &model.DeliveryLog{
		EndpointID:     ep.ID,
		EventType:      payload.Event,
		Payload:        canonical,
		ResponseStatus: res.Status,
		ResponseBody:   respBody,
		Attempt:        attempt,
		Success:        res.Success,
	}
	if err := s.repo.CreateDeliveryLog(ctx, logRow); err != nil {
		s.log.Warnf("record delivery log endpoint=%s attempt=%d: %v", ep.ID, attempt, err)
	}
	return res
}

func truncateURL(u string) string {
	if len(u) <= urlDisplayLimit {
		return u
	}
	return u[:urlDisplayLimit] + "..."
}
