package documents_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/docdeck/docdeck/internal/app/store/documents"
	"github.com/docdeck/docdeck/internal/testutil"
)

func TestUpdateContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := documents.New(db)

	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	ws := f.CreateWorkspace(ctx, "Platform", ada.ID)
	doc := f.CreateDocument(ctx, ws.ID, ada.ID, "Runbook", "v1")

	content := "v2"
	if err := store.Update(ctx, doc.ID, documents.Patch{Content: &content}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Content != "v2" {
		t.Errorf("content is %q, want %q", got.Content, "v2")
	}
	if got.Title != "Runbook" {
		t.Errorf("partial update touched the title: %q", got.Title)
	}
	if !got.UpdatedAt.After(doc.UpdatedAt) {
		t.Error("updated_at not advanced by the server")
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := documents.New(db)

	title := "gone"
	err := store.Update(ctx, primitive.NewObjectID(), documents.Patch{Title: &title})
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestForWorkspaceOrdersByRecency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := documents.New(db)

	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	ws := f.CreateWorkspace(ctx, "Platform", ada.ID)
	other := f.CreateWorkspace(ctx, "Docs", ada.ID)

	older := f.CreateDocument(ctx, ws.ID, ada.ID, "Older", "a")
	newer := f.CreateDocument(ctx, ws.ID, ada.ID, "Newer", "b")
	f.CreateDocument(ctx, other.ID, ada.ID, "Elsewhere", "c")

	// Touch the older one so it sorts first.
	time.Sleep(5 * time.Millisecond)
	content := "a2"
	if err := store.Update(ctx, older.ID, documents.Patch{Content: &content}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.ForWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ForWorkspace: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d documents, want 2", len(got))
	}
	if got[0].ID != older.ID || got[1].ID != newer.ID {
		t.Errorf("got order %q, %q; want most recently updated first", got[0].Title, got[1].Title)
	}
}
