package datastore

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := &SQLiteStore{Path: filepath.Join(t.TempDir(), "test.db")}
	if err := store.Open(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestClaims_SaveGetDelete(t *testing.T) {
	store := testStore(t)

	claim := &StoredClaim{
		ClaimID:    "IFR-100",
		Village:    "Dhanpura",
		District:   "Betul",
		State:      "Madhya Pradesh",
		HolderName: "Ravi Kumar",
		Status:     "Approved",
		AreaHa:     2.5,
	}
	if err := store.SaveClaim(claim); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetClaim("IFR-100")
	if err != nil {
		t.Fatal(err)
	}
	if got.Village != "Dhanpura" {
		t.Errorf("village = %q", got.Village)
	}
	// Status is normalized to lowercase on write.
	if got.Status != "approved" {
		t.Errorf("status = %q", got.Status)
	}

	// Saving the same public id updates, never duplicates.
	claim2 := &StoredClaim{ClaimID: "IFR-100", Village: "Dhanpura", State: "Madhya Pradesh", Status: "pending", AreaHa: 3.0}
	if err := store.SaveClaim(claim2); err != nil {
		t.Fatal(err)
	}
	claims, total, err := store.ListClaims(ClaimQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(claims) != 1 {
		t.Fatalf("expected 1 claim after upsert, got %d", total)
	}
	if claims[0].Status != "pending" {
		t.Errorf("status after upsert = %q", claims[0].Status)
	}

	if err := store.DeleteClaim("IFR-100"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetClaim("IFR-100"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteClaim("IFR-100"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete should return ErrNotFound, got %v", err)
	}
}

func TestClaims_BulkSaveAndFilter(t *testing.T) {
	store := testStore(t)

	saved, err := store.SaveClaims(SampleClaims())
	if err != nil {
		t.Fatal(err)
	}
	if saved != 4 {
		t.Fatalf("saved = %d", saved)
	}

	// Skips rows without an id instead of failing the batch.
	saved, err = store.SaveClaims([]StoredClaim{{Village: "No ID"}, {ClaimID: "IFR-200", State: "Odisha", Status: "pending"}})
	if err != nil {
		t.Fatal(err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}

	claims, total, err := store.ListClaims(ClaimQuery{State: "Madhya Pradesh", Status: "approved"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(claims) != 2 {
		t.Fatalf("filtered total = %d", total)
	}

	// Pagination.
	page, total, err := store.ListClaims(ClaimQuery{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(page) != 2 {
		t.Errorf("page = %d of %d", len(page), total)
	}
}

func TestClaimStats(t *testing.T) {
	store := testStore(t)
	if _, err := store.SaveClaims(SampleClaims()); err != nil {
		t.Fatal(err)
	}

	stats, err := store.ClaimStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.ClaimsCount != 4 {
		t.Errorf("claims count = %d", stats.ClaimsCount)
	}
	if stats.ApprovedClaims != 2 || stats.PendingClaims != 1 || stats.RejectedClaims != 1 {
		t.Errorf("status counts = %+v", stats)
	}
	if math.Abs(stats.TotalAreaHa-20.7) > 1e-6 {
		t.Errorf("total area = %v", stats.TotalAreaHa)
	}
}

func TestVillageStats(t *testing.T) {
	store := testStore(t)
	if _, err := store.SaveClaims(SampleClaims()); err != nil {
		t.Fatal(err)
	}

	stats, err := store.VillageStats("Kanha Village")
	if err != nil {
		t.Fatal(err)
	}
	if stats.ClaimsCount != 1 || stats.ApprovedClaims != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.State != "Madhya Pradesh" {
		t.Errorf("state = %q", stats.State)
	}

	empty, err := store.VillageStats("Nowhere")
	if err != nil {
		t.Fatal(err)
	}
	if empty.ClaimsCount != 0 {
		t.Errorf("unknown village count = %d", empty.ClaimsCount)
	}
}

func TestDocumentsAndOCRJobs(t *testing.T) {
	store := testStore(t)

	doc := &Document{
		Filename:    "patta_scan.pdf",
		StoredPath:  "/tmp/uploads/patta_scan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   12345,
		Status:      DocumentUploaded,
	}
	if err := store.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID == 0 {
		t.Fatal("document id not assigned")
	}

	job := &OCRJob{DocumentID: doc.ID}
	if err := store.CreateOCRJob(job); err != nil {
		t.Fatal(err)
	}
	if job.Status != JobQueued {
		t.Errorf("fresh job status = %q", job.Status)
	}

	pending, err := store.PendingOCRJobs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != job.ID {
		t.Fatalf("pending = %+v", pending)
	}

	job.Status = JobDone
	job.Text = "Claim of Ravi Kumar, village Dhanpura"
	job.Confidence = 0.85
	if err := store.UpdateOCRJob(job); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetOCRJob(job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != JobDone || got.Confidence != 0.85 {
		t.Errorf("job = %+v", got)
	}

	pending, err = store.PendingOCRJobs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("done job still pending: %+v", pending)
	}

	// Search hits filename and extracted text.
	doc.ExtractedText = "Forest rights claim for Dhanpura"
	doc.Status = DocumentProcessed
	if err := store.SaveDocument(doc); err != nil {
		t.Fatal(err)
	}
	hits, err := store.SearchDocuments("Dhanpura", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("search hits = %d", len(hits))
	}
	hits, err = store.SearchDocuments("patta", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("filename search hits = %d", len(hits))
	}

	// Deleting the document removes its jobs too.
	if err := store.DeleteDocument(doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetOCRJob(job.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("job should be gone, got %v", err)
	}
}

func TestSyncRuns(t *testing.T) {
	store := testStore(t)

	if _, err := store.LatestSyncRun(); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty store should return ErrNotFound, got %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		run := &SyncRun{Generation: i, Records: int(i * 10), Succeeded: 7, Failed: 1, Degraded: true}
		if err := store.SaveSyncRun(run); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := store.LatestSyncRun()
	if err != nil {
		t.Fatal(err)
	}
	if latest.Generation != 3 || latest.Records != 30 {
		t.Errorf("latest = %+v", latest)
	}

	runs, err := store.ListSyncRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].Generation != 3 || runs[1].Generation != 2 {
		t.Errorf("runs = %+v", runs)
	}
}
