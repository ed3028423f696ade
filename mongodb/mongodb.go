package mongodb

import (
	"context"
	"fmt"
	"os"

	"finance-dashboard/api/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var (
	DashboardCollection string = "dashboards"
	MongoDatabase       string = "finance"
)

// Connect dials the MongoDB deployment named by MONGO_URI.
func Connect() (*mongo.Client, error) {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(mongoURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Get().Error("failed to connect to MongoDB",
			zap.Error(err))
		return nil, fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	logger.Get().Info("successfully connected to MongoDB")
	return client, nil
}

// Close disconnects the client, logging rather than failing on error.
func Close(client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(context.TODO()); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB",
			zap.Error(err))
		return
	}
	logger.Get().Info("successfully disconnected from MongoDB")
}
