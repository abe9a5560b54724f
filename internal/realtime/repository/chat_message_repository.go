package repository

import (
	"context"
	"fmt"
	"time"

	"todo_realtime_service/internal/realtime/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatMessageRepository 點對點聊天訊息的持久化
type ChatMessageRepository interface {
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	History(ctx context.Context, q domain.ChatHistoryQuery) ([]domain.ChatMessage, error)
	MarkRead(ctx context.Context, userID, chatUserID int64) (int64, error)
	UnreadCount(ctx context.Context, userID, chatUserID int64) (int64, error)
	TotalUnread(ctx context.Context, userID int64) (int64, error)
	Contacts(ctx context.Context, userID int64) ([]domain.ChatContact, error)
}

type chatMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoChatMessageRepository create a ChatMessageRepository
func NewMongoChatMessageRepository(db *mongo.Database) ChatMessageRepository {
	return &chatMessageRepository{
		coll: db.Collection("chat_messages"),
	}
}

// EnsureIndexes create the (sender, receiver, time) index used by history queries
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("chat_messages").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "sender_id", Value: 1},
			{Key: "receiver_id", Value: 1},
			{Key: "created_time", Value: -1},
		},
	})
	return err
}

func (r *chatMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func conversationFilter(a, b int64) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
}

// History 兩人之間的訊息, 新到舊分頁
func (r *chatMessageRepository) History(ctx context.Context, q domain.ChatHistoryQuery) ([]domain.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_time", Value: -1}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Size))

	cur, err := r.coll.Find(ctx, conversationFilter(q.UserID, q.ChatUserID), opts)
	if err != nil {
		return nil, err
	}
	var msgs []domain.ChatMessage
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead 將 chatUserID 傳給 userID 的未讀訊息標為已讀
func (r *chatMessageRepository) MarkRead(ctx context.Context, userID, chatUserID int64) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"sender_id": chatUserID, "receiver_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_time": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *chatMessageRepository) UnreadCount(ctx context.Context, userID, chatUserID int64) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"sender_id": chatUserID, "receiver_id": userID, "is_read": false})
}

func (r *chatMessageRepository) TotalUnread(ctx context.Context, userID int64) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"receiver_id": userID, "is_read": false})
}

// Contacts 與 userID 有過訊息的對象, 依最後訊息時間排序
func (r *chatMessageRepository) Contacts(ctx context.Context, userID int64) ([]domain.ChatContact, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"receiver_id": userID},
		}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_time", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender_id", userID}}, "$receiver_id", "$sender_id",
			}}},
			{Key: "last_message", Value: bson.M{"$first": "$content"}},
			{Key: "last_time", Value: bson.M{"$first": "$created_time"}},
			{Key: "unread_count", Value: bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$receiver_id", userID}},
					bson.M{"$eq": bson.A{"$is_read", false}},
				}}, 1, 0,
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "last_time", Value: -1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate error: %w", err)
	}
	var contacts []domain.ChatContact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("cursor All error: %w", err)
	}
	return contacts, nil
}
