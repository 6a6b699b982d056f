package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"kudos/internal/auth"
	"kudos/internal/database"
	"kudos/internal/kudos"
	"kudos/internal/users"
)

// startPostgres spins up a disposable PostgreSQL container and returns
// a migrated database service connected to it.
func startPostgres(t *testing.T) database.Service {
	t.Helper()

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("kudos_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	if err := database.Migrate(dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	db, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func registerUser(t *testing.T, svc auth.Service, email, first, last string) *auth.User {
	t.Helper()
	user, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:     email,
		Password:  "hunter2hunter2",
		FirstName: first,
		LastName:  last,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func TestIntegration_AuthFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	db := startPostgres(t)
	svc := auth.NewService(db)
	ctx := context.Background()

	user := registerUser(t, svc, "alice@example.com", "Alice", "Anders")
	if user.ID == "" {
		t.Fatal("expected user id to be assigned")
	}

	// Duplicate email must be caught by the unique constraint
	_, err := svc.Register(ctx, auth.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "anotherpassword",
		FirstName: "Alice",
		LastName:  "Impostor",
	})
	if !errors.Is(err, auth.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// Correct credentials log in
	loggedIn, err := svc.Login(ctx, "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected same user, got %s vs %s", loggedIn.ID, user.ID)
	}

	// Wrong password and unknown email fail identically
	if _, err := svc.Login(ctx, "alice@example.com", "wrongpassword"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestIntegration_UsersAndKudos(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	db := startPostgres(t)
	svc := auth.NewService(db)
	ctx := context.Background()

	alice := registerUser(t, svc, "alice@example.com", "Alice", "Anders")
	bob := registerUser(t, svc, "bob@example.com", "Bob", "Baker")
	carol := registerUser(t, svc, "carol@example.com", "Carol", "Chen")

	usersRepo := users.NewRepository(db)

	others, err := usersRepo.GetOtherUsers(ctx, alice.ID)
	if err != nil {
		t.Fatalf("get other users: %v", err)
	}
	if len(others) != 2 {
		t.Fatalf("expected 2 other users, got %d", len(others))
	}
	for _, u := range others {
		if u.ID == alice.ID {
			t.Error("viewer must be excluded from the user list")
		}
	}
	// Sorted by first name
	if others[0].Profile.FirstName != "Bob" || others[1].Profile.FirstName != "Carol" {
		t.Errorf("expected Bob then Carol, got %s then %s",
			others[0].Profile.FirstName, others[1].Profile.FirstName)
	}

	kudosRepo := kudos.NewRepository(db)

	first, err := kudosRepo.Create(ctx, alice.ID, kudos.CreateKudoRequest{
		RecipientID: bob.ID,
		Message:     "great code review",
		Style:       kudos.Style{BackgroundColor: "blue", TextColor: "white", Emoji: "rocket"},
	})
	if err != nil {
		t.Fatalf("create kudo: %v", err)
	}
	if first.Author.FirstName != "Alice" {
		t.Errorf("expected author profile attached, got %+v", first.Author)
	}

	_, err = kudosRepo.Create(ctx, bob.ID, kudos.CreateKudoRequest{
		RecipientID: carol.ID,
		Message:     "thanks for the deploy help",
		Style:       kudos.Style{BackgroundColor: "red", TextColor: "white", Emoji: "thumbsup"},
	})
	if err != nil {
		t.Fatalf("create second kudo: %v", err)
	}

	// Unknown recipient fails via the FK constraint
	_, err = kudosRepo.Create(ctx, alice.ID, kudos.CreateKudoRequest{
		RecipientID: "00000000-0000-0000-0000-000000000000",
		Message:     "to nobody",
	})
	if !errors.Is(err, kudos.ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}

	// Date sort puts the newest first
	feed, err := kudosRepo.ListFiltered(ctx, kudos.FeedFilter{Sort: "date"})
	if err != nil {
		t.Fatalf("list feed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 kudos, got %d", len(feed))
	}
	if !feed[0].CreatedAt.After(feed[1].CreatedAt) && !feed[0].CreatedAt.Equal(feed[1].CreatedAt) {
		t.Error("expected newest kudo first")
	}

	// Sender sort orders by author first name
	bySender, err := kudosRepo.ListFiltered(ctx, kudos.FeedFilter{Sort: "sender"})
	if err != nil {
		t.Fatalf("list by sender: %v", err)
	}
	if bySender[0].Author.FirstName != "Alice" {
		t.Errorf("expected Alice's kudo first, got %s", bySender[0].Author.FirstName)
	}

	// Search matches message text and author names
	search, err := kudosRepo.ListFiltered(ctx, kudos.FeedFilter{Sort: "date", Search: "deploy"})
	if err != nil {
		t.Fatalf("search feed: %v", err)
	}
	if len(search) != 1 || search[0].Message != "thanks for the deploy help" {
		t.Errorf("unexpected search result: %+v", search)
	}

	byAuthor, err := kudosRepo.ListFiltered(ctx, kudos.FeedFilter{Sort: "date", Search: "alice"})
	if err != nil {
		t.Fatalf("search by author: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].Author.FirstName != "Alice" {
		t.Errorf("expected Alice's kudo via name search, got %+v", byAuthor)
	}

	// Profile updates flow through to the user record
	department := "Engineering"
	updated, err := usersRepo.UpdateProfile(ctx, bob.ID, users.UpdateProfileRequest{
		Department: &department,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Profile.Department != "Engineering" {
		t.Errorf("expected department update, got %q", updated.Profile.Department)
	}

	// Recipient contact drives notification addressing
	email, firstName, err := kudosRepo.RecipientContact(ctx, carol.ID)
	if err != nil {
		t.Fatalf("recipient contact: %v", err)
	}
	if email != "carol@example.com" || firstName != "Carol" {
		t.Errorf("unexpected contact: %s %s", email, firstName)
	}
}
