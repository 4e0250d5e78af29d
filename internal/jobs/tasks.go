package jobs

import (
	"context"
	"fmt"

	"saas-starter-backend/internal/email"
	"saas-starter-backend/internal/logger"
	"saas-starter-backend/internal/repository"
)

// Built-in task names
const (
	TaskWelcomeEmail   = "user.welcome-email"
	TaskDailyUserCount = "reports.daily-user-count"
)

// EventUserCreated is dispatched when the provider webhook mirrors a new user
const EventUserCreated = "auth/user.created"

// RegisterBuiltinTasks wires the scaffold's task definitions into the
// registry: the signup welcome email and a daily per-organization user
// count report.
func RegisterBuiltinTasks(
	registry *Registry,
	emailClient *email.Client,
	orgRepo repository.OrganizationRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) error {
	welcome := Task{
		Name:    TaskWelcomeEmail,
		Event:   EventUserCreated,
		Handler: welcomeEmailHandler(emailClient),
	}
	if err := registry.Register(welcome); err != nil {
		return err
	}

	report := Task{
		Name:    TaskDailyUserCount,
		Cron:    "0 6 * * *",
		Handler: dailyUserCountHandler(orgRepo, userRepo),
	}
	return registry.Register(report)
}

func welcomeEmailHandler(emailClient *email.Client) HandlerFunc {
	return func(ctx context.Context, event Event) error {
		to, _ := event.Data["email"].(string)
		if to == "" {
			return fmt.Errorf("event %q is missing the email field", event.Name)
		}
		name, _ := event.Data["name"].(string)

		if !emailClient.Enabled() {
			// Email is an optional feature; a disabled client completes the
			// task instead of burning the service's retries.
			logger.New().WithField("to", to).Info("email disabled, skipping welcome email")
			return nil
		}

		resp, err := emailClient.SendWelcome(ctx, to, name)
		if err != nil {
			return fmt.Errorf("send welcome email: %w", err)
		}

		logger.New().WithFields(map[string]interface{}{
			"to":       to,
			"email_id": resp.ID,
		}).Info("welcome email sent")
		return nil
	}
}

func dailyUserCountHandler(
	orgRepo repository.OrganizationRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) HandlerFunc {
	return func(ctx context.Context, event Event) error {
		const pageSize = 100

		log := logger.New().WithField("task", TaskDailyUserCount)

		for offset := 0; ; offset += pageSize {
			orgs, total, err := orgRepo.GetAll(pageSize, offset)
			if err != nil {
				return fmt.Errorf("list organizations: %w", err)
			}

			for i := range orgs {
				count, err := userRepo.CountByOrganizationID(orgs[i].ID)
				if err != nil {
					return fmt.Errorf("count users for %s: %w", orgs[i].Name, err)
				}
				log.WithFields(map[string]interface{}{
					"organization": orgs[i].Name,
					"users":        count,
				}).Info("daily user count")
			}

			if int64(offset+len(orgs)) >= total || len(orgs) == 0 {
				return nil
			}
		}
	}
}
