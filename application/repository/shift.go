package repository

import (
	"sync"

	"presenca.io/entities"
	"presenca.io/infrastructure/database/connection/datastore"
	"presenca.io/infrastructure/database/repository/mongo"
)

var shiftOnce = sync.Once{}

var shiftRepository mongo.MongoRepository[entities.Shift]

func ShiftRepo() *mongo.MongoRepository[entities.Shift] {
	shiftOnce.Do(func() {
		shiftRepository = mongo.MongoRepository[entities.Shift]{Model: datastore.ShiftModel}
	})
	return &shiftRepository
}
