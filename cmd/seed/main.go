// Command seed wipes the users and messages collections and loads sample
// accounts, each with one message. All accounts use the password "Password".
package main

import (
	"context"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubhouse/members-only/internal/core/ports"
	"github.com/clubhouse/members-only/internal/core/service"
	mongodb "github.com/clubhouse/members-only/internal/infrastructure/db/mongo"
	"github.com/clubhouse/members-only/internal/pkg/config"
	"github.com/clubhouse/members-only/pkg/logger"
)

const samplePassword = "Password"

// seedConfig needs only the database settings, so the server's required
// secrets do not have to be set.
type seedConfig struct {
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Mongo    config.MongoConfig
}

type sample struct {
	user  ports.RegisterInput
	title string
	text  string
}

var samples = []sample{
	{
		user:  ports.RegisterInput{FirstName: "Alice", LastName: "Johnson", Email: "alice@example.com", Password: samplePassword},
		title: "First Post",
		text:  "This is the first post by Alice.",
	},
	{
		user:  ports.RegisterInput{FirstName: "Bob", LastName: "Smith", Email: "bob@example.com", Password: samplePassword},
		title: "Hello World",
		text:  "Bob says hello to the world.",
	},
	{
		user:  ports.RegisterInput{FirstName: "Charlie", LastName: "Brown", Email: "charlie@example.com", Password: samplePassword},
		title: "Greetings",
		text:  "Charlie sends his greetings.",
	},
}

func main() {
	ctx := context.Background()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		panic(err)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	log := logger.Get()
	if err := seed(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("error creating sample data")
	}
	log.Info().Int("users", len(samples)).Msg("sample data created")
}

func seed(ctx context.Context, cfg seedConfig) error {
	log := logger.Get()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)
	messages := mongodb.NewMessageRepository(db)

	if err := users.DeleteAll(ctx); err != nil {
		return err
	}
	if err := messages.DeleteAll(ctx); err != nil {
		return err
	}
	if err := mongodb.EnsureIndexes(ctx, users, messages); err != nil {
		return err
	}

	auth := service.NewAuthService(users, service.NewBcryptHasher(bcrypt.DefaultCost), log)
	board := service.NewMessageService(messages, users, log)

	for _, s := range samples {
		u, err := auth.Register(ctx, s.user)
		if err != nil {
			return err
		}
		if _, err := board.Create(ctx, u.ID, s.title, s.text); err != nil {
			return err
		}
	}
	return nil
}
