package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openfra/fra-atlas/internal/datastore"
	"github.com/openfra/fra-atlas/internal/worker"
)

// Manager owns the background OCR queue: it persists job state, runs the
// engine on a worker pool, and writes text and extracted entities back to
// the document record.
type Manager struct {
	store   datastore.Interface
	engine  Engine
	pool    *worker.Pool
	log     *slog.Logger
	onFinal func(status string)
}

func NewManager(store datastore.Interface, engine Engine, workers int, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		store:  store,
		engine: engine,
		pool:   worker.NewPool(workers),
		log:    log,
	}
	m.pool.Start()
	go m.drain()
	return m
}

// OnFinal registers a callback invoked with the status of every job that
// reaches done or failed. Set it before the first Enqueue.
func (m *Manager) OnFinal(f func(status string)) {
	m.onFinal = f
}

func (m *Manager) notifyFinal(status string) {
	if m.onFinal != nil {
		m.onFinal(status)
	}
}

// drain consumes job results for logging; job state itself is persisted by
// the jobs as they run.
func (m *Manager) drain() {
	for res := range m.pool.Results() {
		if err := res.GetError(); err != nil {
			m.log.Warn("ocr job failed", "error", err)
		}
	}
}

// Enqueue creates a queued job for a document and submits it
func (m *Manager) Enqueue(docID uint) (datastore.OCRJob, error) {
	doc, err := m.store.GetDocument(docID)
	if err != nil {
		return datastore.OCRJob{}, err
	}

	job := datastore.OCRJob{DocumentID: doc.ID, Engine: m.engine.Name()}
	if err := m.store.CreateOCRJob(&job); err != nil {
		return datastore.OCRJob{}, err
	}

	if !m.pool.Submit(&ocrTask{manager: m, jobID: job.ID}) {
		job.Status = datastore.JobFailed
		job.Error = "ocr queue is shut down"
		_ = m.store.UpdateOCRJob(&job)
		return job, fmt.Errorf("ocr queue is shut down")
	}

	m.log.Info("ocr job queued", "job", job.ID, "document", doc.ID, "filename", doc.Filename)
	return job, nil
}

// Resume requeues jobs left in the queued state by a previous process
func (m *Manager) Resume() error {
	jobs, err := m.store.PendingOCRJobs(100)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if !m.pool.Submit(&ocrTask{manager: m, jobID: job.ID}) {
			return fmt.Errorf("ocr queue is shut down")
		}
	}
	if len(jobs) > 0 {
		m.log.Info("resumed pending ocr jobs", "count", len(jobs))
	}
	return nil
}

// Close stops the workers; queued jobs stay persisted for the next start
func (m *Manager) Close() {
	m.pool.Shutdown()
}

// ocrTask adapts one persisted job to the worker pool
type ocrTask struct {
	manager *Manager
	jobID   uint
}

type taskResult struct {
	jobID uint
	err   error
}

func (r taskResult) GetError() error { return r.err }

func (t *ocrTask) Execute(ctx context.Context) worker.Result {
	err := t.manager.runJob(ctx, t.jobID)
	return taskResult{jobID: t.jobID, err: err}
}

func (m *Manager) runJob(ctx context.Context, jobID uint) error {
	job, err := m.store.GetOCRJob(jobID)
	if err != nil {
		return fmt.Errorf("load job %d: %w", jobID, err)
	}

	doc, err := m.store.GetDocument(job.DocumentID)
	if err != nil {
		m.failJob(&job, fmt.Errorf("load document %d: %w", job.DocumentID, err))
		return err
	}

	now := time.Now()
	job.Status = datastore.JobRunning
	job.StartedAt = &now
	if err := m.store.UpdateOCRJob(&job); err != nil {
		return err
	}
	doc.Status = datastore.DocumentProcessing
	_ = m.store.SaveDocument(&doc)

	result, err := m.engine.Process(ctx, doc.StoredPath)
	if err != nil {
		m.failJob(&job, err)
		doc.Status = datastore.DocumentFailed
		_ = m.store.SaveDocument(&doc)
		return err
	}

	extraction := Extract(result.Text)
	entities, err := json.Marshal(extraction)
	if err != nil {
		m.failJob(&job, fmt.Errorf("encode entities: %w", err))
		return err
	}

	finished := time.Now()
	job.Status = datastore.JobDone
	job.Text = result.Text
	job.EntitiesJSON = string(entities)
	job.Confidence = result.Confidence
	job.FinishedAt = &finished
	if err := m.store.UpdateOCRJob(&job); err != nil {
		return err
	}

	doc.Status = datastore.DocumentProcessed
	doc.ExtractedText = result.Text
	doc.EntitiesJSON = string(entities)
	if err := m.store.SaveDocument(&doc); err != nil {
		return err
	}

	m.log.Info("ocr job done", "job", job.ID, "document", doc.ID, "confidence", result.Confidence)
	m.notifyFinal(datastore.JobDone)
	return nil
}

func (m *Manager) failJob(job *datastore.OCRJob, cause error) {
	finished := time.Now()
	job.Status = datastore.JobFailed
	job.Error = cause.Error()
	job.FinishedAt = &finished
	if err := m.store.UpdateOCRJob(job); err != nil {
		m.log.Error("persist failed ocr job", "job", job.ID, "error", err)
	}
	m.notifyFinal(datastore.JobFailed)
}
