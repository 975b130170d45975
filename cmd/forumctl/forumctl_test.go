package main

import (
	"bytes"
	"fmt"
	"testing"

	"climateforum/internal/models"
	"climateforum/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	prev := openDB
	openDB = func() (*gorm.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = prev })
	return db
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestModeratorPromoteDemote(t *testing.T) {
	db := useTestDB(t)
	testutil.CreateUser(t, db, "carol")

	out, err := run(t, "moderator", "promote", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "moderator=true")

	var u models.User
	require.NoError(t, db.Where("username = ?", "carol").First(&u).Error)
	assert.True(t, u.IsModerator)

	_, err = run(t, "moderator", "demote", "carol")
	require.NoError(t, err)
	require.NoError(t, db.Where("username = ?", "carol").First(&u).Error)
	assert.False(t, u.IsModerator)

	_, err = run(t, "moderator", "promote", "nobody")
	assert.Error(t, err)
}

func TestReportsListResolve(t *testing.T) {
	db := useTestDB(t)
	user := testutil.CreateUser(t, db, "dave")
	post := testutil.CreatePost(t, db, user, "Flooding", "t")
	report := &models.Report{PostID: &post.ID, ReporterID: user.ID, Reason: "spam", Status: models.ReportStatusPending}
	require.NoError(t, db.Create(report).Error)

	out, err := run(t, "reports", "list")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("post:%d", post.ID))
	assert.Contains(t, out, "spam")

	_, err = run(t, "reports", "resolve", fmt.Sprint(report.ID), "--status", "dismissed")
	require.NoError(t, err)

	var got models.Report
	require.NoError(t, db.First(&got, report.ID).Error)
	assert.Equal(t, models.ReportStatusDismissed, got.Status)

	out, err = run(t, "reports", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "spam")

	_, err = run(t, "reports", "resolve", fmt.Sprint(report.ID), "--status", "pending")
	assert.Error(t, err)
}

func TestSeedCommand(t *testing.T) {
	db := useTestDB(t)

	out, err := run(t, "seed", "--users", "2", "--posts", "3", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "created 2 users, 3 posts")

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(3), posts)
}

func TestMigrateCommand(t *testing.T) {
	useTestDB(t)
	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date (0 users)")
}
