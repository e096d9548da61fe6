package usecase

import (
	"context"
	"fmt"
	"strconv"

	"hookr/pkg/queue"
	"hookr/services/notification/internal/entity"
)

// HandleTask routes a task by type. Malformed tasks are logged and acknowledged;
// only delivery failures are returned so the consumer can retry them.
func (uc *notificationUseCase) HandleTask(ctx context.Context, task queue.Task) error {
	uc.logger.Info("[NOTIFICATION HANDLER] Processing %s task: user_id=%s, actor_id=%s", task.Type, task.UserID, task.ActorID)

	if task.Type == queue.TaskNewPost {
		return uc.fanOutNewPost(ctx, task)
	}

	if task.UserID == "" {
		uc.logger.Error("[NOTIFICATION HANDLER] Dropping %s task without recipient: %+v", task.Type, task)
		return nil
	}

	n, err := uc.render(ctx, task)
	if err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Dropping %s task: %v", task.Type, err)
		return nil
	}
	n.UserID = task.UserID

	if err := uc.Send(ctx, n); err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to send %s notification to user %s: %v", task.Type, task.UserID, err)
		return err
	}
	return nil
}

func (uc *notificationUseCase) fanOutNewPost(ctx context.Context, task queue.Task) error {
	if task.ModelID == "" || task.PostID == "" {
		uc.logger.Error("[NOTIFICATION HANDLER] Invalid new_post task: missing model_id or post_id, task=%+v", task)
		return nil
	}

	model, err := uc.notificationRepo.GetModel(ctx, task.ModelID)
	if err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Skipping new_post for model %s: %v", task.ModelID, err)
		return nil
	}

	viewerIDs, err := uc.notificationRepo.GetSubscribers(ctx, model.ID, uc.now())
	if err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to get subscribers for model %s: %v", model.ID, err)
		return err
	}
	if len(viewerIDs) == 0 {
		uc.logger.Info("[NOTIFICATION HANDLER] No subscribers for model %s, skipping notifications", model.ID)
		return nil
	}

	sent, skipped := 0, 0
	for _, viewerID := range viewerIDs {
		enabled, err := uc.inboxRepo.Enabled(ctx, viewerID, model.ID)
		if err != nil {
			uc.logger.Warn("[NOTIFICATION HANDLER] Failed to read settings for %s: %v (assuming enabled)", viewerID, err)
		}
		if !enabled {
			skipped++
			continue
		}

		n := &entity.Notification{
			UserID:  viewerID,
			Type:    entity.TypeNewPost,
			Title:   "New Post Alert!",
			Message: fmt.Sprintf("%s just posted new content!", model.Name),
			Data:    taskData(task),
		}
		if err := uc.Send(ctx, n); err != nil {
			uc.logger.Error("[NOTIFICATION HANDLER] Failed to send notification to user %s: %v", viewerID, err)
			continue
		}
		sent++
	}

	uc.logger.Info("[NOTIFICATION HANDLER] new_post %s: sent=%d, skipped=%d, subscribers=%d", task.PostID, sent, skipped, len(viewerIDs))
	return nil
}

func (uc *notificationUseCase) actorName(ctx context.Context, actorID string) string {
	if actorID == "" {
		return "Someone"
	}
	names, err := uc.notificationRepo.GetUsernames(ctx, actorID)
	if err != nil || names[actorID] == "" {
		return "Someone"
	}
	return names[actorID]
}

func taskData(task queue.Task) map[string]string {
	data := make(map[string]string, len(task.Data)+4)
	for k, v := range task.Data {
		data[k] = v
	}
	for k, v := range map[string]string{
		"actor_id":     task.ActorID,
		"model_id":     task.ModelID,
		"post_id":      task.PostID,
		"reference_id": task.ReferenceID,
	} {
		if v != "" {
			data[k] = v
		}
	}
	return data
}

func formatCents(raw string) string {
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "a tip"
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func (uc *notificationUseCase) render(ctx context.Context, task queue.Task) (*entity.Notification, error) {
	n := &entity.Notification{Type: entity.Type(task.Type), Data: taskData(task)}
	actor := uc.actorName(ctx, task.ActorID)

	switch task.Type {
	case queue.TaskLike:
		n.Title = "New Like!"
		n.Message = fmt.Sprintf("%s liked your post", actor)
	case queue.TaskComment:
		n.Title = "New Comment"
		n.Message = fmt.Sprintf("%s commented on your post", actor)
		if task.Message != "" {
			n.Message += ": " + task.Message
		}
	case queue.TaskSubscription:
		n.Title = "New Subscriber!"
		n.Message = fmt.Sprintf("%s subscribed to you", actor)
		if task.Data["renewal"] == "true" {
			n.Title = "Subscription Renewed"
			n.Message = fmt.Sprintf("%s renewed their subscription", actor)
		}
		if tier := task.Data["tier"]; tier != "" {
			n.Message += fmt.Sprintf(" (%s)", tier)
		}
	case queue.TaskTip:
		n.Title = "New Tip!"
		n.Message = fmt.Sprintf("%s tipped you %s", actor, formatCents(task.Data["amount_cents"]))
	case queue.TaskReview:
		n.Title = "New Review"
		n.Message = fmt.Sprintf("%s left you a %s-star review", actor, task.Data["rating"])
	case queue.TaskMessage:
		n.Title = "New Message"
		n.Message = fmt.Sprintf("%s: %s", actor, task.Message)
	case queue.TaskCreatorReview:
		switch task.Data["status"] {
		case "approved":
			n.Title = "Application Approved"
			n.Message = "Your creator application was approved. You can now set up your model profile."
		case "rejected":
			n.Title = "Application Rejected"
			n.Message = "Your creator application was rejected"
		default:
			return nil, fmt.Errorf("%w: unknown review status %q", entity.ErrInvalidTask, task.Data["status"])
		}
		if comment := task.Data["comment"]; comment != "" {
			n.Message += fmt.Sprintf(". Reviewer note: %s", comment)
		}
	default:
		// booking, payment and other one-off types carry their own text.
		if task.Message == "" {
			return nil, fmt.Errorf("%w: unknown type %q", entity.ErrInvalidTask, task.Type)
		}
		n.Title = task.Data["title"]
		if n.Title == "" {
			n.Title = "Notification"
		}
		n.Message = task.Message
	}
	return n, nil
}
