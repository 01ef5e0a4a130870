package users_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/domain/models"
	"github.com/docdeck/docdeck/internal/testutil"
)

func TestCreateAndGetByAuthID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := users.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	created, err := store.Create(ctx, models.UserProfile{
		AuthID: "google|abc123",
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("created profile has no id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	got, err := store.GetByAuthID(ctx, "google|abc123")
	if err != nil {
		t.Fatalf("GetByAuthID: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got id %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
	if got.Name != "Ada Lovelace" {
		t.Errorf("got name %q, want %q", got.Name, "Ada Lovelace")
	}
}

func TestGetByAuthIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := users.New(db)

	_, err := store.GetByAuthID(ctx, "google|nobody")
	if !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicateAuthIDReturnsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := users.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	first, err := store.Create(ctx, models.UserProfile{AuthID: "google|dup", Name: "First"})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := store.Create(ctx, models.UserProfile{AuthID: "google|dup", Name: "Second"})
	if err != nil {
		t.Fatalf("racing Create: %v", err)
	}
	if second.ID != first.ID {
		t.Error("duplicate auth id produced a second profile")
	}
}

func TestGetMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := users.New(db)

	u1 := f.CreateUser(ctx, "Bea", "bea@example.com")
	u2 := f.CreateUser(ctx, "Ada", "ada@example.com")
	f.CreateUser(ctx, "Cal", "cal@example.com")

	got, err := store.GetMany(ctx, []primitive.ObjectID{u1.ID, u2.ID})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2", len(got))
	}
	// Sorted by name.
	if got[0].Name != "Ada" || got[1].Name != "Bea" {
		t.Errorf("got order %q, %q; want Ada, Bea", got[0].Name, got[1].Name)
	}
}

func TestSetThemePreference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := users.New(db)

	u := f.CreateUser(ctx, "Ada", "ada@example.com")
	if err := store.SetThemePreference(ctx, u.ID, "dark"); err != nil {
		t.Fatalf("SetThemePreference: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ThemePreference != "dark" {
		t.Errorf("theme is %q, want %q", got.ThemePreference, "dark")
	}
}
