package main

import (
	"encoding/json"
	"fmt"
	"os"

	"hookr/pkg/cache"
	"hookr/pkg/config"
	"hookr/pkg/database"
	"hookr/pkg/logger"
	"hookr/pkg/models"
	"hookr/pkg/queue"
	"hookr/services/moderation/internal/repo/persistent"
	"hookr/services/moderation/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	statusFlag  string
	limitFlag   int
	commentFlag string

	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	moderation  usecase.ModerationUseCase
)

func connect() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New().With("cmd", "admin")
	db, err = database.NewPostgresDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err = cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, post caches will not be invalidated: %v", err)
		redisClient = nil
	}

	var publisher queue.Publisher
	queueClient, err = queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, decisions will not notify applicants: %v", err)
		queueClient = nil
	} else {
		publisher = queueClient
	}

	moderation = usecase.NewModerationUseCase(persistent.NewModerationRepository(db), redisClient, publisher, log)
	return nil
}

func disconnect() {
	queueClient.Close()
	if redisClient != nil {
		redisClient.Close()
	}
	if db != nil {
		database.Close(db)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant the admin role to an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := db.WithContext(cmd.Context()).Model(&models.User{}).
			Where("username = ?", args[0]).
			Update("role", models.RoleAdmin)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %q not found", args[0])
		}
		fmt.Printf("%s is now an admin\n", args[0])
		return nil
	},
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List creator applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := moderation.ListApplications(cmd.Context(), statusFlag, limitFlag, 0)
		if err != nil {
			return err
		}
		return printJSON(apps)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <user_id>",
	Short: "Approve a pending creator application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := moderation.Approve(cmd.Context(), args[0], commentFlag)
		if err != nil {
			return err
		}
		return printJSON(app)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <user_id>",
	Short: "Reject a pending creator application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := moderation.Reject(cmd.Context(), args[0], commentFlag)
		if err != nil {
			return err
		}
		return printJSON(app)
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate <user_id>",
	Short: "Re-enable a deactivated account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moderation.SetUserActive(cmd.Context(), args[0], true)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <user_id>",
	Short: "Block an account from logging in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moderation.SetUserActive(cmd.Context(), args[0], false)
	},
}

var takedownCmd = &cobra.Command{
	Use:   "takedown <post_id>",
	Short: "Soft-delete a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moderation.TakeDownPost(cmd.Context(), args[0])
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print platform counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := moderation.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}
