// Package mongo хранит пользователей в коллекции MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/InviteLink/internal/config"
	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

// userDocument представление пользователя в коллекции.
// uuid хранится строкой в _id.
type userDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	PasswordHash   string    `bson:"password_hash"`
	ProfilePicture string    `bson:"profile_picture,omitempty"`
	Referal        string    `bson:"referal,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		ID:             u.ID.String(),
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		ProfilePicture: u.ProfilePicture,
		Referal:        u.Referal,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (d userDocument) toDomain() (domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("некорректный _id %q: %w", d.ID, err)
	}
	return domain.User{
		ID:             id,
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		ProfilePicture: d.ProfilePicture,
		Referal:        d.Referal,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

// UserStorage реализует ports.UserStorage поверх коллекции users
type UserStorage struct {
	client *mongo.Client
	users  *mongo.Collection
	logger *slog.Logger
}

// Open подключается к MongoDB и создает уникальный индекс по username
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*UserStorage, error) {
	start := time.Now()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DatabaseURL))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB недоступна: %w", err)
	}

	s := &UserStorage{
		client: client,
		users:  client.Database(cfg.MongoDatabase).Collection(usersCollection),
		logger: logger,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB connection established successfully",
		"database", cfg.MongoDatabase,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s, nil
}

func (s *UserStorage) ensureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "referal", Value: 1}, {Key: "created_at", Value: 1}},
		},
	}
	if _, err := s.users.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ошибка создания индексов коллекции users: %w", err)
	}
	return nil
}

func (s *UserStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("пользователь %q: %w", username, domain.ErrNotFound)
		}
		s.logger.Error("failed to find user", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStorage) Insert(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, toDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Warn("username already taken", "username", user.Username)
			return fmt.Errorf("пользователь %q: %w", user.Username, domain.ErrConflict)
		}
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	s.logger.Info("user inserted", "id", user.ID, "username", user.Username)
	return nil
}

func (s *UserStorage) FindAllReferredBy(ctx context.Context, username string) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "username", Value: 1}})

	cursor, err := s.users.Find(ctx, bson.D{{Key: "referal", Value: username}}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении приглашенных пользователей: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("ошибка чтения курсора: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *UserStorage) UpdateProfilePicture(ctx context.Context, username, picture string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "profile_picture", Value: picture},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	res, err := s.users.UpdateOne(ctx, bson.D{{Key: "username", Value: username}}, update)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении аватара: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("пользователь %q: %w", username, domain.ErrNotFound)
	}
	return nil
}

// Close отключается от MongoDB
func (s *UserStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
