package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	task := e.task(t, owner, "Discuss", nil)

	first, err := e.comments.Create(ctx, task.ID, owner, CommentInput{Text: "first"})
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	second, err := e.comments.Create(ctx, task.ID, owner, CommentInput{Text: "second"})
	require.NoError(t, err)

	list, err := e.comments.List(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, "owner@example.com", list[0].User.Email)
}

func TestCreateComment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	other := e.user(t, "other@example.com")
	task := e.task(t, owner, "Discuss", nil)

	_, err := e.comments.Create(ctx, task.ID, owner, CommentInput{Text: "   "})
	requireKind(t, err, KindValidation)

	_, err = e.comments.Create(ctx, 999, owner, CommentInput{Text: "hello"})
	se := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Task not found", se.Message)

	_, err = e.comments.Create(ctx, task.ID, owner, CommentInput{Text: "note to self"})
	require.NoError(t, err)
	assert.Empty(t, e.notifier.For(owner.UserID))

	c, err := e.comments.Create(ctx, task.ID, other, CommentInput{Text: "  looks good  "})
	require.NoError(t, err)
	assert.Equal(t, "looks good", c.Text)
	assert.Equal(t, task.ID, c.TaskID)

	events := e.notifier.For(owner.UserID)
	require.Len(t, events, 1)
	assert.Equal(t, "comment.created", events[0].Type)
}

func TestDeleteComment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	other := e.user(t, "other@example.com")
	task := e.task(t, owner, "Discuss", nil)

	c, err := e.comments.Create(ctx, task.ID, other, CommentInput{Text: "mine"})
	require.NoError(t, err)

	err = e.comments.Delete(ctx, c.ID, owner)
	se := requireKind(t, err, KindPermission)
	assert.Equal(t, "You do not have permission to delete this comment.", se.Message)

	require.NoError(t, e.comments.Delete(ctx, c.ID, other))

	err = e.comments.Delete(ctx, c.ID, other)
	se = requireKind(t, err, KindNotFound)
	assert.Equal(t, "Comment not found.", se.Message)
}
