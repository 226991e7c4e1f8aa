package datastore

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"presenca.io/infrastructure/logger"
)

var (
	EmployeeModel        *mongo.Collection
	AttendanceEventModel *mongo.Collection
	ShiftModel           *mongo.Collection
	KioskDeviceModel     *mongo.Collection

	client *mongo.Client
)

func Connect() {
	url := os.Getenv("DB_URL")

	if url == "" {
		logger.Error("mongo url missing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	var err error
	client, err = mongo.Connect(ctx, clientOpts)

	if err != nil {
		logger.Warning("an error occured while starting the database", logger.LoggerOptions{Key: "error", Data: err})
		return
	}

	db := client.Database(os.Getenv("DB_NAME"))
	setUpIndexes(ctx, db)

	logger.Info("connected to mongodb successfully")
}

// Set up the indexes for the database
func setUpIndexes(ctx context.Context, db *mongo.Database) {
	EmployeeModel = db.Collection("Employees")
	EmployeeModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "badgeNumber", Value: 1}},
		Options: options.Index(),
	}})

	AttendanceEventModel = db.Collection("AttendanceEvents")
	AttendanceEventModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "employeeID", Value: 1}, {Key: "timestamp", Value: 1}},
		Options: options.Index(),
	}, {
		Keys:    bson.D{{Key: "deviceID", Value: 1}},
		Options: options.Index(),
	}})

	ShiftModel = db.Collection("Shifts")

	KioskDeviceModel = db.Collection("KioskDevices")
	KioskDeviceModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "deviceID", Value: 1}},
		Options: options.Index(),
	}})

	logger.Info("mongodb indexes set up successfully")
}

func CleanUp() {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("error disconnecting from mongodb", logger.LoggerOptions{Key: "error", Data: err})
	}
}
