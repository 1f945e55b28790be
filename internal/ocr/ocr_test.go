package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openfra/fra-atlas/internal/datastore"
)

func TestExtract_Certificate(t *testing.T) {
	ex := Extract(sampleCertificateText)

	if ex.ClaimType != "IFR" {
		t.Errorf("claim type = %q", ex.ClaimType)
	}
	if ex.ClaimantName != "Ramesh Kumar" {
		t.Errorf("claimant = %q", ex.ClaimantName)
	}
	if ex.Village != "Dhanpura" || ex.District != "Betul" || ex.State != "Madhya Pradesh" {
		t.Errorf("location = %q / %q / %q", ex.Village, ex.District, ex.State)
	}
	if ex.SurveyNumber != "123/1" {
		t.Errorf("survey number = %q", ex.SurveyNumber)
	}
	if ex.AreaAcres != 2.5 {
		t.Errorf("area = %v", ex.AreaAcres)
	}
	if !strings.Contains(ex.Coordinates, "22.4682") || !strings.Contains(ex.Coordinates, "77.9025") {
		t.Errorf("coordinates = %q", ex.Coordinates)
	}
	if ex.CertificateNumber != "IFR/MP/2023/001234" {
		t.Errorf("certificate = %q", ex.CertificateNumber)
	}
	if ex.RecognitionDate != "15-08-2023" {
		t.Errorf("date = %q", ex.RecognitionDate)
	}

	if ex.ConfidenceScores["village"] != 0.85 {
		t.Errorf("village confidence = %v", ex.ConfidenceScores["village"])
	}
	if _, ok := ex.ConfidenceScores["nonexistent"]; ok {
		t.Error("unexpected confidence key")
	}
}

func TestExtract_CommunityCertificate(t *testing.T) {
	text := `Community Forest Resource Rights
Village: Pench
State: Madhya Pradesh`

	ex := Extract(text)
	if ex.ClaimType != "CFR" {
		t.Errorf("claim type = %q", ex.ClaimType)
	}
	if ex.Village != "Pench" {
		t.Errorf("village = %q", ex.Village)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	ex := Extract("")
	if ex.ClaimantName != "" || ex.Village != "" || ex.AreaAcres != 0 {
		t.Errorf("empty text produced entities: %+v", ex)
	}
	if len(ex.ConfidenceScores) != 0 {
		t.Errorf("confidence scores = %+v", ex.ConfidenceScores)
	}
}

func TestExtract_StopsAtLineBreaks(t *testing.T) {
	// The name capture must not swallow the following label line.
	ex := Extract("Claimant Name: Priya Devi\nVillage: Kanha")
	if ex.ClaimantName != "Priya Devi" {
		t.Errorf("claimant = %q", ex.ClaimantName)
	}
	if ex.Village != "Kanha" {
		t.Errorf("village = %q", ex.Village)
	}
}

func TestStubEngine(t *testing.T) {
	engine := NewStubEngine()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := engine.Process(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Confidence != 0.89 || res.Pages != 1 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(res.Text, "Ramesh Kumar") {
		t.Errorf("text = %q", res.Text)
	}

	if _, err := engine.Process(ctx, filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("missing file should fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Process(ctx, empty); err == nil {
		t.Error("empty file should fail")
	}
}

func testManager(t *testing.T) (*Manager, *datastore.SQLiteStore) {
	t.Helper()
	store := &datastore.SQLiteStore{Path: filepath.Join(t.TempDir(), "ocr.db")}
	if err := store.Open(); err != nil {
		t.Fatal(err)
	}
	m := NewManager(store, NewStubEngine(), 2, nil)
	t.Cleanup(func() {
		m.Close()
		_ = store.Close()
	})
	return m, store
}

func waitForJob(t *testing.T, store datastore.Interface, id uint, want string) datastore.OCRJob {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetOCRJob(id)
		if err != nil {
			t.Fatal(err)
		}
		if job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %d never reached status %q", id, want)
	return datastore.OCRJob{}
}

func TestManager_ProcessesDocument(t *testing.T) {
	m, store := testManager(t)

	path := filepath.Join(t.TempDir(), "patta.pdf")
	if err := os.WriteFile(path, []byte("scan bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := &datastore.Document{Filename: "patta.pdf", StoredPath: path, Status: datastore.DocumentUploaded}
	if err := store.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}

	job, err := m.Enqueue(doc.ID)
	if err != nil {
		t.Fatal(err)
	}

	done := waitForJob(t, store, job.ID, datastore.JobDone)
	if done.Confidence != 0.89 {
		t.Errorf("confidence = %v", done.Confidence)
	}
	if done.StartedAt == nil || done.FinishedAt == nil {
		t.Error("timestamps not set")
	}

	var ex Extraction
	if err := json.Unmarshal([]byte(done.EntitiesJSON), &ex); err != nil {
		t.Fatalf("entities json: %v", err)
	}
	if ex.Village != "Dhanpura" {
		t.Errorf("extracted village = %q", ex.Village)
	}

	updated, err := store.GetDocument(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != datastore.DocumentProcessed {
		t.Errorf("document status = %q", updated.Status)
	}
	if !strings.Contains(updated.ExtractedText, "Ramesh Kumar") {
		t.Error("document text not updated")
	}
}

func TestManager_FailsOnMissingFile(t *testing.T) {
	m, store := testManager(t)

	doc := &datastore.Document{Filename: "gone.pdf", StoredPath: "/nonexistent/gone.pdf", Status: datastore.DocumentUploaded}
	if err := store.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}

	job, err := m.Enqueue(doc.ID)
	if err != nil {
		t.Fatal(err)
	}

	failed := waitForJob(t, store, job.ID, datastore.JobFailed)
	if failed.Error == "" {
		t.Error("failed job should carry an error")
	}

	updated, err := store.GetDocument(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != datastore.DocumentFailed {
		t.Errorf("document status = %q", updated.Status)
	}
}

func TestManager_EnqueueUnknownDocument(t *testing.T) {
	m, _ := testManager(t)

	if _, err := m.Enqueue(9999); !errors.Is(err, datastore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
