package mongodb

import (
	"context"
	"errors"
	"fmt"

	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Dashboards persists one aggregate document per user in the dashboards
// collection.
type Dashboards struct {
	client *mongo.Client
}

var _ store.Store = (*Dashboards)(nil)

func NewDashboards(client *mongo.Client) *Dashboards {
	return &Dashboards{client: client}
}

func (d *Dashboards) collection() *mongo.Collection {
	return d.client.Database(MongoDatabase).Collection(DashboardCollection)
}

func (d *Dashboards) Provision(ctx context.Context, userID string) error {
	doc := models.NewDashboard(userID)
	_, err := d.collection().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": doc},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("error provisioning dashboard: %v", err)
	}
	return nil
}

func (d *Dashboards) Find(ctx context.Context, userID string) (*models.Dashboard, error) {
	var doc models.Dashboard
	err := d.collection().FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error finding dashboard: %v", err)
	}
	return &doc, nil
}

func (d *Dashboards) AppendToList(ctx context.Context, userID, list string, entry models.Entry) (models.Entry, error) {
	entry.SetEntryID(uuid.NewString())
	res, err := d.collection().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{list: entry}},
	)
	if err != nil {
		return nil, fmt.Errorf("error appending to %s: %v", list, err)
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	return entry, nil
}

func (d *Dashboards) ReplaceListEntry(ctx context.Context, userID, list, id string, entry models.Entry) (models.Entry, error) {
	entry.SetEntryID(id)
	res, err := d.collection().UpdateOne(ctx,
		bson.M{"user_id": userID, list + ".id": id},
		bson.M{"$set": bson.M{list + ".$": entry}},
	)
	if err != nil {
		return nil, fmt.Errorf("error replacing entry in %s: %v", list, err)
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	return entry, nil
}

func (d *Dashboards) RemoveFromList(ctx context.Context, userID, list, id string) (*models.Dashboard, error) {
	var doc models.Dashboard
	err := d.collection().FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, list: bson.M{"$elemMatch": bson.M{"id": id}}},
		bson.M{"$pull": bson.M{list: bson.M{"id": id}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error removing entry from %s: %v", list, err)
	}
	return &doc, nil
}

func (d *Dashboards) SetOverview(ctx context.Context, userID string, ov models.Overview) error {
	res, err := d.collection().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"overview": ov}},
	)
	if err != nil {
		return fmt.Errorf("error setting overview: %v", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *Dashboards) AllUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	res := d.collection().Distinct(ctx, "user_id", bson.M{})
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("error listing users: %v", err)
	}
	if err := res.Decode(&ids); err != nil {
		return nil, fmt.Errorf("error decoding user ids: %v", err)
	}
	return ids, nil
}

func (d *Dashboards) ReplaceTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = uuid.NewString()
		}
	}
	res, err := d.collection().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"transactions": txs}},
	)
	if err != nil {
		return fmt.Errorf("error replacing transactions: %v", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
