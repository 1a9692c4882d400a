package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/quiz-signup/internal/application/pending"
	"github.com/quiz-signup/internal/config"
	"github.com/quiz-signup/internal/infrastructure/dynamo"
	"github.com/quiz-signup/internal/infrastructure/memory"
	"github.com/quiz-signup/internal/infrastructure/notify"
	redisinfra "github.com/quiz-signup/internal/infrastructure/redis"
	resendinfra "github.com/quiz-signup/internal/infrastructure/resend"
	"github.com/quiz-signup/internal/infrastructure/smtp"
	transporthttp "github.com/quiz-signup/internal/transport/http"
)

// backends holds the stores and notifier selected by configuration, plus a cleanup hook.
type backends struct {
	users    transporthttp.UserRepository
	pending  pending.Store
	notifier pending.Notifier
	close    func()
}

func newBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{close: func() {}}

	var dynamoClient *dynamodb.Client
	if cfg.PendingStore == config.StoreDynamo || cfg.AccountStore == config.StoreDynamo {
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamoClient = client
	}

	switch cfg.PendingStore {
	case config.StoreDynamo:
		b.pending = dynamo.NewPendingRepo(dynamoClient, cfg.DynamoTables.PendingSignups)
	case config.StoreRedis:
		client, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.pending = redisinfra.NewPendingStore(client)
		b.close = func() { _ = client.Close() }
	case config.StoreMemory:
		b.pending = memory.NewPendingStore()
	default:
		return nil, fmt.Errorf("unknown PENDING_STORE %q", cfg.PendingStore)
	}

	switch cfg.AccountStore {
	case config.StoreDynamo:
		b.users = dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	case config.StoreMemory:
		b.users = memory.NewUserStore()
	default:
		b.close()
		return nil, fmt.Errorf("unknown ACCOUNT_STORE %q", cfg.AccountStore)
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		b.close()
		return nil, err
	}
	b.notifier = notifier
	return b, nil
}

func newNotifier(cfg *config.Config) (pending.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierSMTP:
		return smtp.NewCodeNotifier(smtp.NewMailer(cfg)), nil
	case config.NotifierResend:
		return resendinfra.NewNotifier(cfg.ResendAPIKey, cfg.EmailFrom)
	case config.NotifierLog:
		if cfg.AppEnv == "production" {
			log.Printf("WARN: NOTIFIER=log in production, verification codes are only logged")
		}
		return notify.LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unknown NOTIFIER %q", cfg.Notifier)
	}
}
