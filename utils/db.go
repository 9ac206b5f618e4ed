// utils/db.go
package utils

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB connects to MongoDB using MONGO_URI and verifies the connection
// with a ping. The process cannot serve without its database, so failures
// here are fatal.
func ConnectDB() *mongo.Client {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logrus.WithError(err).Fatal("Error connecting to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logrus.WithError(err).Fatal("MongoDB is unreachable")
	}
	return client
}
