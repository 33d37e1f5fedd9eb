package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

type CommentService struct {
	comments CommentStore
	tasks    TaskStore
	notifier Notifier
}

func NewCommentService(comments CommentStore, tasks TaskStore, notifier Notifier) *CommentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CommentService{comments: comments, tasks: tasks, notifier: notifier}
}

type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// List returns the comments of an existing task, newest first.
func (s *CommentService) List(ctx context.Context, taskID int) ([]models.Comment, error) {
	if _, err := s.task(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

func (s *CommentService) Create(ctx context.Context, taskID int, author models.Identity, in CommentInput) (*models.Comment, error) {
	task, err := s.task(ctx, taskID)
	if err != nil {
		return nil, err
	}

	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return nil, FieldError("text", "This field may not be blank.")
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	c := &models.Comment{TaskID: taskID, User: models.UserSummary{ID: author.UserID}, Text: in.Text}
	if err := s.comments.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, NotFoundError("Task not found", err)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if task.UserID != author.UserID {
		s.notifier.Notify(task.UserID, Event{Type: "comment.created", Data: c})
	}
	return c, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID int, requester models.Identity) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Comment not found.", err)
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if c.User.ID != requester.UserID {
		return PermissionError("You do not have permission to delete this comment.")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Comment not found.", err)
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) task(ctx context.Context, id int) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Task not found", err)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}
