package workspaces_test

import (
	"testing"

	"github.com/docdeck/docdeck/internal/app/store/workspaces"
	"github.com/docdeck/docdeck/internal/domain/models"
	"github.com/docdeck/docdeck/internal/testutil"
)

func TestCreateIncludesOwnerAsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := workspaces.New(db)

	owner := f.CreateUser(ctx, "Ada", "ada@example.com")
	ws, err := store.Create(ctx, models.Workspace{Name: "Platform", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !ws.HasMember(owner.ID) {
		t.Fatal("owner is not a member of the created workspace")
	}
}

func TestForMemberScopesToMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := workspaces.New(db)

	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	bea := f.CreateUser(ctx, "Bea", "bea@example.com")

	first := f.CreateWorkspace(ctx, "Platform", ada.ID)
	second := f.CreateWorkspace(ctx, "Docs", ada.ID, bea.ID)
	f.CreateWorkspace(ctx, "Private", bea.ID)

	got, err := store.ForMember(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ForMember: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d workspaces, want 2", len(got))
	}
	// Oldest first.
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("got order %q, %q; want Platform, Docs", got[0].Name, got[1].Name)
	}
	for _, ws := range got {
		if !ws.HasMember(ada.ID) {
			t.Errorf("workspace %q does not include the member", ws.Name)
		}
	}
}

func TestAddMemberIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := workspaces.New(db)

	ada := f.CreateUser(ctx, "Ada", "ada@example.com")
	bea := f.CreateUser(ctx, "Bea", "bea@example.com")
	ws := f.CreateWorkspace(ctx, "Platform", ada.ID)

	if err := store.AddMember(ctx, ws.ID, bea.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := store.AddMember(ctx, ws.ID, bea.ID); err != nil {
		t.Fatalf("repeat AddMember: %v", err)
	}

	got, err := store.GetByID(ctx, ws.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(got.Members))
	}
}
