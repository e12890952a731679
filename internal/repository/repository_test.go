package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"instaclone/internal/cache"
	"instaclone/internal/models"
	"instaclone/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg fk", &pgconn.PgError{Code: "23503", Message: "unique-looking text"}, false},
		{"wrapped pg", errors.Join(errors.New("insert"), &pgconn.PgError{Code: "23505"}), true},
		{"sqlite", errors.New("UNIQUE constraint failed: likes.user_id, likes.post_id"), true},
		{"other", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("ghost@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}))

	user, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1, 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByID(context.Background(), 1)
	assert.Nil(t, user)
	assert.Equal(t, 500, models.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       string
	}{
		{"email", "idx_users_email", "Email already registered."},
		{"username", "idx_users_username", "Username already taken."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewUserRepository(db, nil)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
			mock.ExpectRollback()

			err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "a@example.com", Password: "x"})
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.CodeConflict, appErr.Code)
			assert.Equal(t, tt.want, appErr.Message)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikeRepository_Create_RaceMapsToConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_likes_user_post"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Like{UserID: 1, PostID: 2})
	assert.ErrorIs(t, err, ErrDuplicateLike)
	assert.Equal(t, 409, models.StatusOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewUserRepository(db, rdb)

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NotZero(t, alice.ID)

	err = repo.Create(ctx, &models.User{Username: "alice2", Email: "alice@example.com", Password: "hash"})
	assert.Equal(t, "Email already registered.", appMessage(t, err))
	err = repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "hash"})
	assert.Equal(t, "Username already taken.", appMessage(t, err))

	found, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hash", found.Password)

	missing, err := repo.GetByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, mr.Exists(cache.UserKey(alice.ID)))

	got.Bio = "hello"
	require.NoError(t, repo.UpdateProfile(ctx, got))
	assert.False(t, mr.Exists(cache.UserKey(alice.ID)), "update must invalidate the cached profile")

	reloaded, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hello", reloaded.Bio)
	assert.Equal(t, "hash", reloaded.Password, "profile update must not touch the password")

	_, err = repo.GetByID(ctx, 999)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestPostRepository_FeedAndDetails(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	likes := NewLikeRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	older := &models.Post{UserID: alice.ID, ImageURL: "/uploads/a.png", CreatedAt: base}
	tieLow := &models.Post{UserID: bob.ID, ImageURL: "/uploads/b.png", CreatedAt: base.Add(time.Hour)}
	tieHigh := &models.Post{UserID: alice.ID, ImageURL: "/uploads/c.png", CreatedAt: base.Add(time.Hour)}
	for _, p := range []*models.Post{older, tieLow, tieHigh} {
		require.NoError(t, posts.Create(ctx, p))
	}

	require.NoError(t, comments.Create(ctx, &models.Comment{UserID: bob.ID, PostID: older.ID, Text: "nice"}))
	require.NoError(t, likes.Create(ctx, &models.Like{UserID: bob.ID, PostID: older.ID}))
	require.NoError(t, likes.Create(ctx, &models.Like{UserID: alice.ID, PostID: older.ID}))

	feed, err := posts.Feed(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, []uint{tieHigh.ID, tieLow.ID, older.ID}, []uint{feed[0].ID, feed[1].ID, feed[2].ID})
	assert.Equal(t, "bob", feed[1].Username)

	last := feed[2]
	assert.Equal(t, "alice", last.Username)
	assert.Equal(t, 1, last.CommentCount)
	assert.Equal(t, 2, last.LikeCount)

	page, err := posts.Feed(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)

	got, err := posts.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)

	_, err = posts.GetByID(ctx, 999)
	assert.Equal(t, "Post not found.", appMessage(t, err))

	author, ok, err := posts.AuthorOf(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, older.UserID, author)
	_, ok, err = posts.AuthorOf(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommentRepository_ListByPost(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewCommentRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice.ID, "/uploads/a.png")

	first := &models.Comment{UserID: alice.ID, PostID: post.ID, Text: "first"}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "alice", first.View().Username)
	second := &models.Comment{UserID: alice.ID, PostID: post.ID, Text: "second", CreatedAt: first.CreatedAt}
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text, "ties on created_at are broken by id desc")
	assert.Equal(t, "alice", list[1].User.Username)

	empty, err := repo.ListByPost(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestLikeRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewLikeRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice.ID, "/uploads/a.png")

	exists, err := repo.Exists(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &models.Like{UserID: alice.ID, PostID: post.ID}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Like{UserID: alice.ID, PostID: post.ID}), ErrDuplicateLike)

	exists, err = repo.Exists(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := repo.Delete(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func appMessage(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Message
}
