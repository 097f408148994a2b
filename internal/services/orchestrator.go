package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"campusadvisor/internal/logging"
	"campusadvisor/internal/models"
)

// Orchestrator handles a student query end to end: session resolution,
// context lookup, routing, specialist fan-out, and interaction
// recording. Specialist failures are isolated per response key and
// never abort the envelope.
type Orchestrator struct {
	sessions   *SessionManager
	classifier *Classifier
	invoker    Invoker
	catalog    *CatalogService
	tracer     *Tracer
	metrics    *Metrics
	timeout    time.Duration
}

// NewOrchestrator wires the query pipeline. catalog may be nil when no
// catalog document is configured.
func NewOrchestrator(sessions *SessionManager, classifier *Classifier, invoker Invoker,
	catalog *CatalogService, tracer *Tracer, metrics *Metrics, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orchestrator{
		sessions:   sessions,
		classifier: classifier,
		invoker:    invoker,
		catalog:    catalog,
		tracer:     tracer,
		metrics:    metrics,
		timeout:    timeout,
	}
}

// Handle processes one query. An empty sessionID starts a fresh
// anonymous session. The returned envelope always carries the routing
// decision and whatever specialist responses completed in time.
func (o *Orchestrator) Handle(ctx context.Context, query, sessionID string) *models.QueryEnvelope {
	start := time.Now()
	span := o.tracer.StartSpan("orchestrator.handle", map[string]string{"session_id": sessionID})
	if o.metrics != nil {
		o.metrics.ChatRequests.Inc()
	}

	session := o.resolveSession(sessionID)
	studentCtx := o.sessions.Memory().GetStudentContext(session.StudentID)
	contextSummary := o.enrichSummary(studentCtx.ContextSummary, query)

	decision := o.classifier.Classify(query)
	if o.metrics != nil {
		o.metrics.QueriesRouted.WithLabelValues(decision.Specialist).Inc()
	}
	log.Printf("🎯 [ROUTER] Routed query to %s (confidence: %s)", decision.Specialist, decision.Confidence)
	logging.WithSession(session.SessionID, session.StudentID).Debug("query routed",
		"specialist", decision.Specialist, "confidence", decision.Confidence)

	responses := o.invokeSpecialists(ctx, query, contextSummary, decision.Specialist)

	o.sessions.RecordInteraction(session.SessionID, query,
		fmt.Sprintf("Processed by %d agents", len(responses)), decision.Specialist)

	envelope := &models.QueryEnvelope{
		Status:                envelopeStatus(responses, decision.Specialist),
		Query:                 query,
		PrimarySpecialist:     decision.Specialist,
		Confidence:            decision.Confidence,
		SessionID:             session.SessionID,
		StudentContextSummary: studentCtx.ContextSummary,
		Responses:             responses,
	}

	span.End(envelope.Status)
	if o.metrics != nil {
		o.metrics.ChatRequestLatency.Observe(time.Since(start).Seconds())
	}
	return envelope
}

func (o *Orchestrator) resolveSession(sessionID string) *models.Session {
	if sessionID != "" {
		if session := o.sessions.GetSession(sessionID); session != nil {
			return session
		}
		log.Printf("⚠️ [ORCHESTRATOR] Session %s unknown or expired, starting a new one", sessionID)
	}
	return o.sessions.CreateSession("")
}

// enrichSummary appends the best catalog hit for the query so
// specialists can ground their answers in the actual catalog.
func (o *Orchestrator) enrichSummary(summary, query string) string {
	if o.catalog == nil {
		return summary
	}
	hits := o.catalog.Search(query, "catalog", 1)
	if len(hits) == 0 {
		return summary
	}
	return summary + "; Relevant catalog info: " + hits[0].Content
}

// invokeSpecialists runs the primary specialist and, for complex
// queries, up to two auxiliary perspectives concurrently. Each call is
// isolated: a failure or timeout turns into an inline error under that
// key while the rest of the results survive.
func (o *Orchestrator) invokeSpecialists(ctx context.Context, query, contextSummary, primary string) map[string]models.SpecialistResult {
	type task struct {
		key    string
		target string
		query  string
	}

	tasks := []task{{key: primary, target: primary, query: query}}
	if o.classifier.IsComplex(query) {
		if primary != models.SpecialistAcademics {
			tasks = append(tasks, task{
				key:    models.PerspectiveAcademics,
				target: models.SpecialistAcademics,
				query:  "Provide academic perspective on: " + query,
			})
		}
		if strings.Contains(strings.ToLower(query), "program") && primary != models.SpecialistFinancialAid {
			tasks = append(tasks, task{
				key:    models.PerspectiveFinancialAid,
				target: models.SpecialistFinancialAid,
				query:  "Provide cost/financial aid information for: " + query,
			})
		}
	}

	invokeCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var mu sync.Mutex
	responses := make(map[string]models.SpecialistResult, len(tasks))

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			text, err := o.invoker.Invoke(invokeCtx, t.target, t.query, contextSummary)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("❌ [ORCHESTRATOR] Specialist %s failed: %v", t.key, err)
				responses[t.key] = models.SpecialistResult{Error: fmt.Sprintf("Error: %v", err)}
				return
			}
			responses[t.key] = models.SpecialistResult{Text: text}
		}(t)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return responses
	case <-invokeCtx.Done():
		// Keep whatever finished; mark the stragglers inline. Late
		// writers only ever touch the original map, not the copy we
		// hand back.
		mu.Lock()
		defer mu.Unlock()
		out := make(map[string]models.SpecialistResult, len(tasks))
		for _, t := range tasks {
			if result, ok := responses[t.key]; ok {
				out[t.key] = result
				continue
			}
			out[t.key] = models.SpecialistResult{
				Error: fmt.Sprintf("Error: specialist %s timed out", t.key),
			}
		}
		return out
	}
}

// envelopeStatus maps the per-specialist outcomes onto the envelope
// status. A healthy primary is success regardless of auxiliary
// failures; a dead primary with surviving auxiliaries is partial.
func envelopeStatus(responses map[string]models.SpecialistResult, primary string) string {
	anyOK := false
	for _, r := range responses {
		if r.OK() {
			anyOK = true
			break
		}
	}

	if result, ok := responses[primary]; ok && result.OK() {
		return models.StatusSuccess
	}
	if anyOK {
		return models.StatusPartial
	}
	return models.StatusError
}
