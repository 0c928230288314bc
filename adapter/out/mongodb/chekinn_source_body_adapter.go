package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionEmailBodies    = "email_bodies"
	collectionScrapedContent = "scraped_content"

	// Raw bodies stop being useful once their derived signals expire.
	sourceBodyTTLDays = 60
)

// SourceBodyAdapter implements out.SourceBodyStore using MongoDB. Raw email
// bodies and scraped pages are kept out of the relational store and expire
// via a TTL index.
type SourceBodyAdapter struct {
	emails  *mongo.Collection
	scraped *mongo.Collection
}

// NewSourceBodyAdapter creates a new MongoDB source body adapter.
func NewSourceBodyAdapter(db *mongo.Database) *SourceBodyAdapter {
	return &SourceBodyAdapter{
		emails:  db.Collection(collectionEmailBodies),
		scraped: db.Collection(collectionScrapedContent),
	}
}

// EnsureIndexes creates necessary indexes for both collections.
func (a *SourceBodyAdapter) EnsureIndexes(ctx context.Context) error {
	emailIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "source_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}
	if _, err := a.emails.Indexes().CreateMany(ctx, emailIndexes); err != nil {
		return err
	}

	scrapedIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "profile_url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}
	_, err := a.scraped.Indexes().CreateMany(ctx, scrapedIndexes)
	return err
}

// emailBodyDocument represents the MongoDB document for one email body.
type emailBodyDocument struct {
	UserID    string    `bson:"user_id"`
	SourceID  string    `bson:"source_id"`
	Body      string    `bson:"body"`
	SavedAt   time.Time `bson:"saved_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// scrapedContentDocument represents the MongoDB document for one scraped page.
type scrapedContentDocument struct {
	UserID     string    `bson:"user_id"`
	ProfileURL string    `bson:"profile_url"`
	Content    string    `bson:"content"`
	SavedAt    time.Time `bson:"saved_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

// SaveEmailBody archives one raw email body, replacing any earlier copy.
func (a *SourceBodyAdapter) SaveEmailBody(ctx context.Context, userID uuid.UUID, sourceID, body string) error {
	now := time.Now().UTC()
	doc := emailBodyDocument{
		UserID:    userID.String(),
		SourceID:  sourceID,
		Body:      body,
		SavedAt:   now,
		ExpiresAt: now.AddDate(0, 0, sourceBodyTTLDays),
	}

	filter := bson.M{"user_id": doc.UserID, "source_id": sourceID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := a.emails.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save email body: %w", err)
	}
	return nil
}

// SaveScrapedContent archives one scraped page, replacing any earlier copy.
func (a *SourceBodyAdapter) SaveScrapedContent(ctx context.Context, userID uuid.UUID, profileURL, content string) error {
	now := time.Now().UTC()
	doc := scrapedContentDocument{
		UserID:     userID.String(),
		ProfileURL: profileURL,
		Content:    content,
		SavedAt:    now,
		ExpiresAt:  now.AddDate(0, 0, sourceBodyTTLDays),
	}

	filter := bson.M{"user_id": doc.UserID, "profile_url": profileURL}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := a.scraped.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save scraped content: %w", err)
	}
	return nil
}
